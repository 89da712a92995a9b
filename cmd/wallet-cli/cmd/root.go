package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tron-wallet/pkg/node"
)

var (
	nodeURL    string
	nodeAPIKey string
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "TRON 钱包命令行工具",
	Long: `一个用 Go 语言编写的 TRON 客户端钱包工具。
支持生成 BIP-39 助记词、派生 BIP-44 私钥和 TRON 地址，
以及构造、签名并广播 TRX 转账交易。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node", "https://api.trongrid.io", "TRON 节点 HTTP API 地址")
	rootCmd.PersistentFlags().StringVar(&nodeAPIKey, "api-key", "", "TronGrid API Key (可选)")
}

// newNodeClient 按全局标志构造节点客户端
func newNodeClient() *node.Client {
	opts := []node.Option{node.WithTimeout(30 * time.Second)}
	if nodeAPIKey != "" {
		opts = append(opts, node.WithAPIKey(nodeAPIKey))
	}
	return node.NewClient(nodeURL, opts...)
}
