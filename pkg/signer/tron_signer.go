package signer

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tron-wallet/pkg/crypto_util"
	"tron-wallet/pkg/node"
)

var (
	ErrEmptyPrivateKey = errors.New("私钥为空")
	ErrAlreadySigned   = errors.New("交易已签名，不允许重复签名")
	ErrMissingTxID     = errors.New("交易缺少 txID 字段")
	ErrTxIDMismatch    = errors.New("txID 与 raw_data 的 SHA256 不一致")
)

// TRONSigner 对 TRON 交易执行本地签名。
// 签名对象是 32 字节的 TxID (raw_data 的 SHA256)，
// 方案为 secp256k1 上的确定性 ECDSA (RFC 6979)，输出 65 字节 R‖S‖V。
type TRONSigner struct{}

func NewTRONSigner() *TRONSigner {
	return &TRONSigner{}
}

// Sign 用私钥对 tx 签名，并把签名作为单元素列表挂到 tx.Signature 上。
// 状态机: UNSIGNED --Sign--> SIGNED，没有回退；对已签名交易再次调用必定失败。
// 节点在构造阶段返回的 Error 字段会在这里被拦截，不会对错误载荷签名。
func (s *TRONSigner) Sign(privKeyHex string, tx *node.Transaction) error {
	if strings.TrimSpace(privKeyHex) == "" {
		return ErrEmptyPrivateKey
	}
	if tx == nil {
		return errors.New("交易为空")
	}
	if tx.Error != "" {
		return fmt.Errorf("节点返回错误，拒绝签名: %s", tx.Error)
	}
	if tx.TxID == "" {
		return ErrMissingTxID
	}
	if len(tx.Signature) > 0 {
		return ErrAlreadySigned
	}

	txID, err := hex.DecodeString(tx.TxID)
	if err != nil {
		return fmt.Errorf("txID Hex 解码失败: %w", err)
	}
	if len(txID) != 32 {
		return fmt.Errorf("txID 必须是 32 字节，实际 %d", len(txID))
	}

	// raw_data_hex 存在时本地复核 TxID = SHA256(raw_data)，
	// 防止对被篡改的载荷签名。
	if tx.RawDataHex != "" {
		rawData, err := hex.DecodeString(tx.RawDataHex)
		if err != nil {
			return fmt.Errorf("raw_data_hex 解码失败: %w", err)
		}
		if !bytes.Equal(crypto_util.SHA256(rawData), txID) {
			return ErrTxIDMismatch
		}
	}

	privKey, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return fmt.Errorf("私钥解析失败: %w", err)
	}

	sig, err := ethcrypto.Sign(txID, privKey)
	if err != nil {
		return fmt.Errorf("签名失败: %w", err)
	}

	tx.Signature = []string{hex.EncodeToString(sig)}
	return nil
}
