package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tron-wallet/internal/service/wallet"
)

var txCmd = &cobra.Command{
	Use:   "tx <txid>",
	Short: "按交易哈希查询交易",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := wallet.NewService(newNodeClient(), nil, nil)

		tx, err := svc.GetTransactionByID(context.Background(), args[0])
		if err != nil {
			if errors.Is(err, wallet.ErrTransactionNotFound) {
				fmt.Println("交易不存在 (可能尚未被打包，或哈希有误)")
			} else {
				fmt.Printf("查询失败: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("交易哈希: %s\n", tx.ID)
		if tx.Status != "" {
			fmt.Printf("执行结果: %s\n", tx.Status)
		} else {
			fmt.Println("执行结果: 等待打包")
		}
		if tx.RawData != nil && len(tx.RawData.Contract) > 0 {
			v := tx.RawData.Contract[0].Parameter.Value
			fmt.Printf("From:     %s\n", v.OwnerAddress)
			fmt.Printf("To:       %s\n", v.ToAddress)
			fmt.Printf("金额:     %d SUN\n", v.Amount)
		}
	},
}

func init() {
	rootCmd.AddCommand(txCmd)
}
