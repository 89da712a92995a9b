package signer

import (
	"encoding/hex"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tron-wallet/pkg/address"
	"tron-wallet/pkg/crypto_util"
	"tron-wallet/pkg/node"
	"tron-wallet/pkg/safe_random"
)

// newUnsignedTx 构造一笔 txID 与 raw_data_hex 自洽的未签名交易
func newUnsignedTx(t *testing.T) *node.Transaction {
	t.Helper()
	rawData, err := safe_random.GenerateRandomBytes(64)
	require.NoError(t, err)

	return &node.Transaction{
		TxID:       crypto_util.SHA256Hex(rawData),
		RawDataHex: hex.EncodeToString(rawData),
		RawData:    &node.TransactionRawData{Contract: []node.Contract{{Type: "TransferContract"}}},
	}
}

func TestSign(t *testing.T) {
	s := NewTRONSigner()
	privHex, err := safe_random.GenerateRandomHexString(32)
	require.NoError(t, err)

	tx := newUnsignedTx(t)
	require.NoError(t, s.Sign(privHex, tx))

	// 恰好一组签名，65 字节 R‖S‖V
	require.Len(t, tx.Signature, 1)
	sig, err := hex.DecodeString(tx.Signature[0])
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	// 从签名恢复出的公钥必须对应同一个地址
	txID, _ := hex.DecodeString(tx.TxID)
	recovered, err := ethcrypto.SigToPub(txID, sig)
	require.NoError(t, err)

	gen := address.NewTRONGenerator()
	wantAddr, err := gen.PrivKeyToBase58(privHex)
	require.NoError(t, err)

	recoveredHex := hex.EncodeToString(ethcrypto.FromECDSAPub(recovered))
	gotAddrHex, err := gen.PubKeyToAddressHex(recoveredHex)
	require.NoError(t, err)
	gotAddr, err := gen.HexToBase58(gotAddrHex)
	require.NoError(t, err)

	assert.Equal(t, wantAddr, gotAddr)
}

func TestSign_Deterministic(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	tx1 := newUnsignedTx(t)
	tx2 := &node.Transaction{TxID: tx1.TxID, RawDataHex: tx1.RawDataHex}

	require.NoError(t, s.Sign(privHex, tx1))
	require.NoError(t, s.Sign(privHex, tx2))

	// RFC 6979: 同一私钥对同一 TxID 的签名是确定性的
	assert.Equal(t, tx1.Signature, tx2.Signature)
}

func TestSign_EmptyKey(t *testing.T) {
	s := NewTRONSigner()
	tx := newUnsignedTx(t)

	assert.ErrorIs(t, s.Sign("", tx), ErrEmptyPrivateKey)
	assert.ErrorIs(t, s.Sign("   ", tx), ErrEmptyPrivateKey)
	assert.Empty(t, tx.Signature)
}

func TestSign_MissingTxID(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	tx := &node.Transaction{}
	assert.ErrorIs(t, s.Sign(privHex, tx), ErrMissingTxID)
}

func TestSign_BadTxIDLength(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	// 合法 Hex 但只有 16 字节
	short, err := safe_random.GenerateRandomHexString(16)
	require.NoError(t, err)

	tx := &node.Transaction{TxID: short}
	signErr := s.Sign(privHex, tx)
	require.Error(t, signErr)
	assert.Contains(t, signErr.Error(), "32 字节")
	// 长度错误分支没有底层 error 可包装，不能出现空 %w 的渲染残留
	assert.NotContains(t, signErr.Error(), "%!w")
	assert.Empty(t, tx.Signature)
}

func TestSign_AlreadySigned(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	tx := newUnsignedTx(t)
	require.NoError(t, s.Sign(privHex, tx))
	firstSig := tx.Signature[0]

	// 重复签名必须失败，且不能改写已有签名
	assert.ErrorIs(t, s.Sign(privHex, tx), ErrAlreadySigned)
	assert.Equal(t, []string{firstSig}, tx.Signature)
}

func TestSign_UpstreamError(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	tx := &node.Transaction{
		TxID:  crypto_util.SHA256Hex([]byte("x")),
		Error: "Validate TransferContract error, no OwnerAccount.",
	}
	err := s.Sign(privHex, tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OwnerAccount")
	assert.Empty(t, tx.Signature)
}

func TestSign_TxIDMismatch(t *testing.T) {
	s := NewTRONSigner()
	privHex, _ := safe_random.GenerateRandomHexString(32)

	tx := newUnsignedTx(t)
	tx.TxID = crypto_util.SHA256Hex([]byte("tampered"))

	assert.ErrorIs(t, s.Sign(privHex, tx), ErrTxIDMismatch)
}
