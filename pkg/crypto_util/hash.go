package crypto_util

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Keccak256 计算输入的 Keccak256 哈希值 (以太坊/TRON 地址使用的变体，
// 注意不是 NIST 标准化后的 SHA3-256)。
func Keccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hash.Sum(nil)
}

// Keccak256Hex 返回 Keccak256 哈希的小写十六进制表示。
func Keccak256Hex(data []byte) string {
	return hex.EncodeToString(Keccak256(data))
}

// SHA256 计算输入的 SHA256 哈希值。TRON 的 TxID 就是 raw_data 的 SHA256。
func SHA256(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// SHA256Hex 返回 SHA256 哈希的小写十六进制表示。
func SHA256Hex(data []byte) string {
	return hex.EncodeToString(SHA256(data))
}

// DoubleSHA256 计算 SHA256(SHA256(data))。
// Base58Check 地址的 4 字节校验和取自这个哈希的前缀。
func DoubleSHA256(data []byte) []byte {
	return SHA256(SHA256(data))
}
