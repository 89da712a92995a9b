package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/wallet/types"
)

var blockCmd = &cobra.Command{
	Use:   "block [height]",
	Short: "查询区块",
	Long:  `不带参数查询最新区块，带高度参数查询指定区块。`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := wallet.NewService(newNodeClient(), nil, nil)
		ctx := context.Background()

		var block *types.Block
		var err error
		if len(args) == 0 {
			block, err = svc.GetNowBlock(ctx)
		} else {
			num, parseErr := strconv.ParseInt(args[0], 10, 64)
			if parseErr != nil || num < 0 {
				fmt.Println("区块高度必须是非负整数")
				os.Exit(1)
			}
			block, err = svc.GetBlockByNum(ctx, num)
		}
		exitOnErr(err)

		fmt.Printf("区块高度:   %d\n", block.Number)
		fmt.Printf("区块哈希:   %s\n", block.ID)
		fmt.Printf("出块时间:   %s\n", time.UnixMilli(block.Timestamp).Format(time.RFC3339))
		fmt.Printf("交易数量:   %d\n", len(block.Transactions))
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
