package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tron-wallet/internal/service/wallet"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `生成一个新的随机 BIP-39 助记词，并派生出 TRON 私钥、公钥和地址。全程离线，不访问节点。`,
	Run: func(cmd *cobra.Command, args []string) {
		wordCount, _ := cmd.Flags().GetInt("words")
		index, _ := cmd.Flags().GetUint32("index")

		fmt.Println("正在生成新钱包...")
		fmt.Println("---------------------------------------------------")

		svc := wallet.NewService(nil, nil, nil)
		w, err := svc.GenerateWallet(wordCount, index)
		if err != nil {
			fmt.Printf("生成钱包失败: %v\n", err)
			return
		}

		fmt.Printf("助记词 (Mnemonic): \n%s\n", w.Mnemonic)
		fmt.Println("---------------------------------------------------")
		fmt.Printf("派生路径:          m/44'/195'/0'/0/%d\n", index)
		fmt.Printf("私钥 (Hex):        %s\n", w.PrivateKey)
		fmt.Printf("公钥 (Hex):        %s\n", w.PublicKey)
		fmt.Printf("地址 (Hex):        %s\n", w.AddressHex)
		fmt.Printf("地址 (Base58):     %s\n", w.Address)
		fmt.Println("---------------------------------------------------")
		fmt.Println("请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().IntP("words", "w", 24, "助记词单词数 (12/15/18/21/24)")
	newCmd.Flags().Uint32P("index", "i", 0, "BIP-44 address_index")
}
