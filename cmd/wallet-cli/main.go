package main

import "tron-wallet/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
