package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tron-wallet/pkg/address"
)

var addrCmd = &cobra.Command{
	Use:   "addr",
	Short: "显示钱包地址",
	Long: `从 Keystore (或 --key 指定的私钥) 推导 TRON 地址。
默认只做本地计算；加 --validate 时额外请求节点校验地址有效性。`,
	Run: func(cmd *cobra.Command, args []string) {
		keyHex, _ := cmd.Flags().GetString("key")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		index, _ := cmd.Flags().GetUint32("index")
		validate, _ := cmd.Flags().GetBool("validate")

		privKey, err := resolvePrivKey(keyHex, keystoreFile, index)
		exitOnErr(err)

		gen := address.NewTRONGenerator()
		addr58, err := gen.PrivKeyToBase58(privKey)
		exitOnErr(err)
		addrHex, err := gen.Base58ToHex(addr58)
		exitOnErr(err)

		fmt.Printf("地址 (Base58): %s\n", addr58)
		fmt.Printf("地址 (Hex):    %s\n", addrHex)

		if validate {
			ok, err := newNodeClient().ValidateAddress(context.Background(), addr58)
			exitOnErr(err)
			if ok {
				fmt.Println("节点校验:      通过 ✅")
			} else {
				fmt.Println("节点校验:      未通过 ❌")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(addrCmd)
	addrCmd.Flags().StringP("key", "k", "", "私钥 (Hex，可选，优先于 Keystore)")
	addrCmd.Flags().String("keystore", "wallet.json", "Keystore 文件路径")
	addrCmd.Flags().Uint32P("index", "i", 0, "BIP-44 address_index")
	addrCmd.Flags().Bool("validate", false, "请求节点校验地址")
}
