package bip39

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestGenerateMnemonic(t *testing.T) {
	service := NewMnemonicService()

	// 所有支持的单词数都应该生成合法助记词
	for _, count := range []int{12, 15, 18, 21, 24} {
		mnemonic, err := service.GenerateMnemonic(count)
		if err != nil {
			t.Fatalf("生成 %d 词助记词失败: %v", count, err)
		}

		if got := len(strings.Fields(mnemonic)); got != count {
			t.Errorf("期望 %d 个单词，实际 %d 个", count, got)
		}

		if !service.ValidateMnemonic(mnemonic) {
			t.Errorf("生成的 %d 词助记词无效", count)
		}
	}
}

func TestGenerateMnemonic_UnsupportedWordCount(t *testing.T) {
	service := NewMnemonicService()

	for _, count := range []int{0, 1, 11, 13, 25, 48} {
		if _, err := service.GenerateMnemonic(count); err == nil {
			t.Errorf("单词数 %d 应该返回错误", count)
		}
	}
}

func TestMnemonicToSeed(t *testing.T) {
	service := NewMnemonicService()

	// 已知的测试向量 (Test Vector)
	// 助记词: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	// 密码: ""
	// 预期 Seed (Hex): "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	expectedSeedHex := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

	if !service.ValidateMnemonic(mnemonic) {
		t.Fatalf("测试向量助记词无效")
	}

	seed := service.MnemonicToSeed(mnemonic, "")
	seedHex := hex.EncodeToString(seed)

	if seedHex != expectedSeedHex {
		t.Errorf("Seed 生成不匹配。\n预期: %s\n实际: %s", expectedSeedHex, seedHex)
	}
}

func TestValidateMnemonic_Invalid(t *testing.T) {
	service := NewMnemonicService()

	invalidMnemonic := "hello world invalid mnemonic phrase designed to fail validation check"
	if service.ValidateMnemonic(invalidMnemonic) {
		t.Errorf("期望验证失败，但验证通过了")
	}

	// 单词合法但校验和错误
	badChecksum := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"
	if service.ValidateMnemonic(badChecksum) {
		t.Errorf("校验和错误的助记词应该验证失败")
	}
}
