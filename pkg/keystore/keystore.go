package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"

	"tron-wallet/pkg/crypto_util"
	"tron-wallet/pkg/safe_random"
)

// EncryptedKeyJSON 遵循 Ethereum Keystore V3 的结构风格，
// 但存储的是助记词 (Mnemonic) 而不是单个私钥：
// 钱包本身不持久化任何派生私钥，助记词的保管是调用方的责任。
type EncryptedKeyJSON struct {
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher     string    `json:"cipher"`     // "aes-256-gcm"
	CipherText string    `json:"ciphertext"` // Hex, nonce+密文
	KDF        string    `json:"kdf"`        // "scrypt"
	KDFParams  KDFParams `json:"kdfparams"`
	MAC        string    `json:"mac"` // Hex
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"` // Hex
}

const (
	scryptN     = 262144
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

var ErrInvalidPassword = errors.New("密码错误或文件损坏 (MAC 不匹配)")

// EncryptMnemonic 将助记词使用密码加密为 Keystore JSON 结构。
// 密钥由 scrypt 派生，密文为 AES-256-GCM (nonce 由 crypto_util 内部生成并前置)。
func EncryptMnemonic(mnemonic, password string) (*EncryptedKeyJSON, error) {
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, err
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	ciphertext, err := crypto_util.EncryptAESGCM(derivedKey, []byte(mnemonic))
	if err != nil {
		return nil, err
	}

	// MAC = SHA256(derivedKey ‖ ciphertext)，解密前先校验，避免把错误密码
	// 的失败报告成"数据损坏"
	mac := crypto_util.SHA256(append(derivedKey, ciphertext...))

	id, err := safe_random.GenerateUUID()
	if err != nil {
		return nil, err
	}

	return &EncryptedKeyJSON{
		Version: 3,
		Id:      id,
		Crypto: CryptoJSON{
			Cipher:     "aes-256-gcm",
			CipherText: hex.EncodeToString(ciphertext),
			KDF:        "scrypt",
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// DecryptMnemonic 解密 Keystore JSON 获取助记词
func DecryptMnemonic(keyJSON *EncryptedKeyJSON, password string) (string, error) {
	salt, err := hex.DecodeString(keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %v", err)
	}
	ciphertext, err := hex.DecodeString(keyJSON.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %v", err)
	}
	mac, err := hex.DecodeString(keyJSON.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %v", err)
	}

	derivedKey, err := scrypt.Key([]byte(password), salt,
		keyJSON.Crypto.KDFParams.N,
		keyJSON.Crypto.KDFParams.R,
		keyJSON.Crypto.KDFParams.P,
		keyJSON.Crypto.KDFParams.DKLen)
	if err != nil {
		return "", err
	}

	calculatedMAC := crypto_util.SHA256(append(derivedKey, ciphertext...))
	if !macEqual(mac, calculatedMAC) {
		return "", ErrInvalidPassword
	}

	plaintext, err := crypto_util.DecryptAESGCM(derivedKey, ciphertext)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %v", err)
	}

	return string(plaintext), nil
}

// SaveToFile 保存到文件 (0600，文件里有加密后的助记词)
func (k *EncryptedKeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*EncryptedKeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k EncryptedKeyJSON
	err = json.Unmarshal(data, &k)
	return &k, err
}

func macEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
