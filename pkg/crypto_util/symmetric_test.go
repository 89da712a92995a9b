package crypto_util

import (
	"bytes"
	"testing"

	"tron-wallet/pkg/safe_random"
)

func TestEncryptDecryptAESGCM(t *testing.T) {
	key, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		t.Fatalf("生成密钥失败: %v", err)
	}
	plaintext := []byte("venture cruise glory busy staff mnemonic under test")

	ciphertext, err := EncryptAESGCM(key, plaintext)
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatalf("密文中不应包含明文")
	}

	decrypted, err := DecryptAESGCM(key, ciphertext)
	if err != nil {
		t.Fatalf("解密失败: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("解密结果与明文不一致")
	}
}

func TestDecryptAESGCM_WrongKey(t *testing.T) {
	key, _ := safe_random.GenerateRandomBytes(32)
	wrongKey, _ := safe_random.GenerateRandomBytes(32)

	ciphertext, err := EncryptAESGCM(key, []byte("secret"))
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}

	if _, err := DecryptAESGCM(wrongKey, ciphertext); err == nil {
		t.Errorf("错误密钥解密应该失败")
	}
}

func TestDecryptAESGCM_TooShort(t *testing.T) {
	key, _ := safe_random.GenerateRandomBytes(16)
	if _, err := DecryptAESGCM(key, []byte{0x01, 0x02}); err == nil {
		t.Errorf("过短的密文应该返回错误")
	}
}
