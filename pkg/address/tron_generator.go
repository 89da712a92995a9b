package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"

	"tron-wallet/pkg/crypto_util"
)

const (
	// MainnetPrefix 是 TRON 主网地址的版本字节。
	// Base58 显示形式以 "T" 开头就是它的效果。
	MainnetPrefix byte = 0x41

	// AddressLength 是 Hex 地址的字节数: 1 字节前缀 + 20 字节哈希。
	AddressLength = 21

	// PubKeyLength 是非压缩公钥去掉 0x04 前缀后的字节数 (X ‖ Y)。
	PubKeyLength = 64
)

// TRONGenerator TRON 地址生成器
type TRONGenerator struct{}

func NewTRONGenerator() *TRONGenerator {
	return &TRONGenerator{}
}

// PubKeyFromPrivKey 从私钥 Hex (32 字节) 计算公钥。
// 返回非压缩格式去掉 0x04 前缀的 64 字节 (X ‖ Y) 的小写 Hex。
// 纯椭圆曲线点乘，同一私钥永远得到同一公钥。
func (g *TRONGenerator) PubKeyFromPrivKey(privKeyHex string) (string, error) {
	privBytes, err := hex.DecodeString(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("私钥 Hex 解码失败: %v", err)
	}
	if len(privBytes) != 32 {
		return "", fmt.Errorf("私钥长度必须是 32 字节，实际 %d", len(privBytes))
	}

	privKey, _ := btcec.PrivKeyFromBytes(privBytes)
	pubBytes := privKey.PubKey().SerializeUncompressed()

	// SerializeUncompressed 返回 0x04 ‖ X ‖ Y，去掉前缀字节
	return hex.EncodeToString(pubBytes[1:]), nil
}

// PubKeyToAddressHex 将公钥 Hex 转换为 21 字节的 TRON Hex 地址。
// 步骤: 取末尾 64 字节 (容忍 0x04 前缀) -> Keccak-256 -> 取末尾 20 字节 -> 前置 0x41。
// 切片顺序必须严格如此，偏移一个字节会生成格式正确但完全错误的地址。
func (g *TRONGenerator) PubKeyToAddressHex(pubKeyHex string) (string, error) {
	pubBytes, err := hex.DecodeString(strings.TrimPrefix(pubKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("公钥 Hex 解码失败: %v", err)
	}
	if len(pubBytes) < PubKeyLength {
		return "", fmt.Errorf("公钥长度不足: 需要至少 %d 字节，实际 %d", PubKeyLength, len(pubBytes))
	}

	// 1. 保留末尾 64 字节 (去掉 0x04 等格式前缀)
	pubBytes = pubBytes[len(pubBytes)-PubKeyLength:]

	// 2. Keccak-256 哈希，取末尾 20 字节
	hash := crypto_util.Keccak256(pubBytes)
	addrBytes := append([]byte{MainnetPrefix}, hash[len(hash)-20:]...)

	return hex.EncodeToString(addrBytes), nil
}

// HexToBase58 将 21 字节的 Hex 地址转换为 Base58Check 显示形式 (T...)。
// 校验和为 DoubleSHA256 的前 4 字节，由 btcutil/base58 的 CheckEncode 附加。
func (g *TRONGenerator) HexToBase58(addressHex string) (string, error) {
	addrBytes, err := hex.DecodeString(strings.TrimPrefix(addressHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("地址 Hex 解码失败: %v", err)
	}
	if len(addrBytes) != AddressLength {
		return "", fmt.Errorf("地址必须是 %d 字节，实际 %d", AddressLength, len(addrBytes))
	}
	if addrBytes[0] != MainnetPrefix {
		return "", fmt.Errorf("地址前缀必须是 0x%02x，实际 0x%02x", MainnetPrefix, addrBytes[0])
	}

	return base58.CheckEncode(addrBytes[1:], MainnetPrefix), nil
}

// Base58ToHex 是 HexToBase58 的逆操作，对合法输入两者互为双射。
func (g *TRONGenerator) Base58ToHex(address string) (string, error) {
	payload, version, err := base58.CheckDecode(address)
	if err != nil {
		return "", fmt.Errorf("Base58 地址解码失败: %v", err)
	}
	if version != MainnetPrefix {
		return "", fmt.Errorf("地址前缀必须是 0x%02x，实际 0x%02x", MainnetPrefix, version)
	}
	if len(payload) != AddressLength-1 {
		return "", fmt.Errorf("地址负载必须是 %d 字节，实际 %d", AddressLength-1, len(payload))
	}

	return hex.EncodeToString(append([]byte{version}, payload...)), nil
}

// PrivKeyToBase58 组合上述步骤，直接从私钥得到 Base58 显示地址。
// 只做本地运算；带远程校验的版本见 wallet.Service.AddressFromPrivateKey。
func (g *TRONGenerator) PrivKeyToBase58(privKeyHex string) (string, error) {
	pubHex, err := g.PubKeyFromPrivKey(privKeyHex)
	if err != nil {
		return "", err
	}
	addrHex, err := g.PubKeyToAddressHex(pubHex)
	if err != nil {
		return "", err
	}
	return g.HexToBase58(addrHex)
}
