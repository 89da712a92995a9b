package node

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, WithAPIKey("test-key"))
}

func TestCreateTransaction(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/createtransaction", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("TRON-PRO-API-KEY"))

		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "41a614f803b6fd780986a42c78ec9c7f77e6ded13c", req["owner_address"])
		assert.EqualValues(t, 1500000, req["amount"])

		_ = json.NewEncoder(w).Encode(Transaction{
			TxID: "3a1c06b1b79e2c802d599590f8858130a3b5e423b8dc0b3bbbdbeffa8b4f0b62",
			RawData: &TransactionRawData{
				Contract: []Contract{{Type: "TransferContract"}},
			},
			RawDataHex: "0a02",
		})
	})

	tx, err := client.CreateTransaction(context.Background(),
		"41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
		"41b5c7d2a1e803b6fd780986a42c78ec9c7f77e6de", 1500000)

	assert.NoError(t, err)
	assert.Equal(t, "3a1c06b1b79e2c802d599590f8858130a3b5e423b8dc0b3bbbdbeffa8b4f0b62", tx.TxID)
	assert.Len(t, tx.RawData.Contract, 1)
	assert.Empty(t, tx.Signature)
}

func TestCreateTransaction_NodeError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"Error": "class org.tron.core.exception.ContractValidateException : Validate TransferContract error, no OwnerAccount.",
		})
	})

	tx, err := client.CreateTransaction(context.Background(), "41aa", "41bb", 1)
	assert.NoError(t, err) // 传输层成功，错误体现在 Error 字段里
	assert.Contains(t, tx.Error, "no OwnerAccount")
}

func TestBroadcastTransaction(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/broadcasttransaction", r.URL.Path)

		var tx Transaction
		_ = json.NewDecoder(r.Body).Decode(&tx)
		assert.Len(t, tx.Signature, 1)

		_ = json.NewEncoder(w).Encode(BroadcastResult{Result: true, TxID: tx.TxID})
	})

	result, err := client.BroadcastTransaction(context.Background(), &Transaction{
		TxID:      "deadbeef",
		Signature: []string{"00112233"},
	})
	assert.NoError(t, err)
	assert.True(t, result.Result)
}

func TestBroadcastResult_DecodedMessage(t *testing.T) {
	msg := "validate signature error"
	result := BroadcastResult{
		Result:  false,
		Code:    "SIGERROR",
		Message: hex.EncodeToString([]byte(msg)),
	}
	assert.Equal(t, msg, result.DecodedMessage())

	// 非 Hex 内容原样返回
	raw := BroadcastResult{Result: false, Message: "not-hex!"}
	assert.Equal(t, "not-hex!", raw.DecodedMessage())

	// 空 message 退回 code
	empty := BroadcastResult{Result: false, Code: "DUP_TRANSACTION_ERROR"}
	assert.Equal(t, "DUP_TRANSACTION_ERROR", empty.DecodedMessage())
}

func TestGetNowBlock(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/getnowblock", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Block{
			BlockID: "0000000002e02b07",
			BlockHeader: BlockHeader{
				RawData: BlockHeaderRawData{Number: 48245511},
			},
		})
	})

	block, err := client.GetNowBlock(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 48245511, block.BlockHeader.RawData.Number)
	// 响应缺失 transactions 时默认空列表
	assert.Empty(t, block.Transactions)
}

func TestValidateAddress(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)

		ok := req["address"] == "TGehVcNhud84JDCGrNHKVz9jEAVKUpbuiv"
		_ = json.NewEncoder(w).Encode(ValidateAddressResult{Result: ok})
	})

	ok, err := client.ValidateAddress(context.Background(), "TGehVcNhud84JDCGrNHKVz9jEAVKUpbuiv")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.ValidateAddress(context.Background(), "bogus")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPost_HTTPError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.GetNowBlock(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
