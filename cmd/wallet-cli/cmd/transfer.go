package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/address"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "发起一笔 TRX 转账",
	Long: `构造、签名并广播一笔 TRX 转账。
金额单位是 TRX (十进制)，内部按 1 TRX = 1,000,000 SUN 换算。`,
	Run: func(cmd *cobra.Command, args []string) {
		keyHex, _ := cmd.Flags().GetString("key")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		index, _ := cmd.Flags().GetUint32("index")
		to, _ := cmd.Flags().GetString("to")
		amountStr, _ := cmd.Flags().GetString("amount")
		message, _ := cmd.Flags().GetString("message")

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			fmt.Printf("金额格式错误: %v\n", err)
			os.Exit(1)
		}

		privKey, err := resolvePrivKey(keyHex, keystoreFile, index)
		exitOnErr(err)

		from, err := address.NewTRONGenerator().PrivKeyToBase58(privKey)
		exitOnErr(err)

		fmt.Println("\n================ 待广播转账 ================")
		fmt.Printf("From:   %s\n", from)
		fmt.Printf("To:     %s\n", to)
		fmt.Printf("Amount: %s TRX\n", amount.String())
		if message != "" {
			fmt.Printf("附言:   %s\n", message)
		}
		fmt.Println("============================================")

		svc := wallet.NewService(newNodeClient(), nil, nil)

		var msgBytes []byte
		if message != "" {
			msgBytes = []byte(message)
		}

		tx, err := svc.Transfer(context.Background(), privKey, from, to, amount, msgBytes)
		if err != nil {
			var txErr *wallet.TransactionError
			if errors.As(err, &txErr) {
				fmt.Printf("\n❌ 节点拒绝了交易: %s\n", txErr.Message)
			} else {
				fmt.Printf("\n转账失败: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("\n✅ 广播成功!\n")
		fmt.Printf("交易哈希 (TxID): %s\n", tx.ID)
		fmt.Printf("当前状态:        %s\n", tx.Status)
		fmt.Println("可使用 `wallet-cli tx <txid>` 查询打包结果。")
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringP("key", "k", "", "私钥 (Hex，可选，优先于 Keystore)")
	transferCmd.Flags().String("keystore", "wallet.json", "Keystore 文件路径")
	transferCmd.Flags().Uint32P("index", "i", 0, "BIP-44 address_index")
	transferCmd.Flags().String("to", "", "收款地址 (Base58)")
	transferCmd.Flags().String("amount", "", "转账金额 (TRX)")
	transferCmd.Flags().StringP("message", "m", "", "交易附言 (可选)")
	transferCmd.MarkFlagRequired("to")
	transferCmd.MarkFlagRequired("amount")
}
