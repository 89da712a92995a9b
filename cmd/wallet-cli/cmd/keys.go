package cmd

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/keystore"
)

// resolvePrivKey 获取私钥: 优先使用 --key，否则从 Keystore 解密助记词再派生。
// 密码从终端读入，不经过命令行参数。
func resolvePrivKey(keyHex, keystoreFile string, index uint32) (string, error) {
	if keyHex != "" {
		return keyHex, nil
	}

	encryptedKey, err := keystore.LoadFromFile(keystoreFile)
	if err != nil {
		return "", fmt.Errorf("加载 Keystore 失败: %w", err)
	}

	fmt.Print("请输入 Keystore 密码: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}

	mnemonic, err := keystore.DecryptMnemonic(encryptedKey, string(bytePassword))
	if err != nil {
		return "", fmt.Errorf("解密失败 (密码错误?): %w", err)
	}

	svc := wallet.NewService(nil, nil, nil)
	return svc.DerivePrivateKey(mnemonic, index)
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
