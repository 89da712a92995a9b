package bip39

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// entropyBits 是 BIP-39 规定的单词数与熵位数的对应关系。
// 单词数 = (熵位数 + 校验位) / 11，校验位 = 熵位数 / 32。
var entropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// MnemonicService 提供助记词相关的功能
type MnemonicService struct{}

// NewMnemonicService 创建一个新的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{}
}

// GenerateMnemonic 按单词数生成一个新的随机助记词 (BIP-39)。
// wordCount 仅支持 12/15/18/21/24，钱包默认使用 24。
// 词表是库内嵌的英文词表，随二进制编译，不存在运行时缺失的情况。
func (s *MnemonicService) GenerateMnemonic(wordCount int) (string, error) {
	bits, ok := entropyBits[wordCount]
	if !ok {
		return "", fmt.Errorf("不支持的助记词单词数: %d (仅支持 12/15/18/21/24)", wordCount)
	}

	// 生成熵
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %v", err)
	}

	// 从熵生成助记词
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %v", err)
	}

	return mnemonic, nil
}

// ValidateMnemonic 验证助记词是否有效 (词表 + 校验和)。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的密码 (Passphrase)。本钱包派生私钥时固定传空字符串 ""。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(mnemonic, password)
}
