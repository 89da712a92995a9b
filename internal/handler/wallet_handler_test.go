package handler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tron-wallet/internal/handler/response"
	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/address"
	"tron-wallet/pkg/cache"
	"tron-wallet/pkg/errno"
	"tron-wallet/pkg/node"
)

const testPrivKey = "e331b6d69882b4cb4ea581d88e0b604039a3de5967688d3dcffdd2270c0fd109"

type stubNode struct {
	blockCalls    int
	validateCalls int

	createResp    *node.Transaction
	broadcastResp *node.BroadcastResult
	getTxResp     *node.Transaction
	blockResp     *node.Block
	validateResp  bool
}

func (s *stubNode) CreateTransaction(ctx context.Context, owner, to string, amount int64) (*node.Transaction, error) {
	return s.createResp, nil
}

func (s *stubNode) BroadcastTransaction(ctx context.Context, tx *node.Transaction) (*node.BroadcastResult, error) {
	return s.broadcastResp, nil
}

func (s *stubNode) GetTransactionByID(ctx context.Context, txID string) (*node.Transaction, error) {
	return s.getTxResp, nil
}

func (s *stubNode) GetNowBlock(ctx context.Context) (*node.Block, error) {
	s.blockCalls++
	return s.blockResp, nil
}

func (s *stubNode) GetBlockByNum(ctx context.Context, num int64) (*node.Block, error) {
	s.blockCalls++
	return s.blockResp, nil
}

func (s *stubNode) ValidateAddress(ctx context.Context, addr string) (bool, error) {
	s.validateCalls++
	return s.validateResp, nil
}

func (s *stubNode) GetAccount(ctx context.Context, addr string) (*node.Account, error) {
	return &node.Account{Address: addr, Balance: 5_000_000}, nil
}

func (s *stubNode) GetAccountResource(ctx context.Context, addr string) (*node.AccountResource, error) {
	return &node.AccountResource{FreeNetLimit: 600}, nil
}

func newTestRouter(stub *stubNode, c cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWalletHandler(wallet.NewService(stub, nil, nil), c, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	walletGroup := api.Group("/wallet")
	walletGroup.POST("/new", h.NewWallet)
	walletGroup.POST("/address", h.DeriveAddress)
	walletGroup.POST("/transfer", h.Transfer)
	walletGroup.GET("/validate/:address", h.ValidateAddress)
	api.GET("/tx/:id", h.GetTransaction)
	api.GET("/block/now", h.GetNowBlock)
	api.GET("/block/:num", h.GetBlockByNum)
	api.GET("/account/:address", h.GetAccount)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*response.Response, int) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp, w.Code
}

func testAddr(t *testing.T) string {
	t.Helper()
	addr, err := address.NewTRONGenerator().PrivKeyToBase58(testPrivKey)
	require.NoError(t, err)
	return addr
}

func TestNewWallet(t *testing.T) {
	r := newTestRouter(&stubNode{}, nil)

	resp, status := doJSON(t, r, http.MethodPost, "/api/v1/wallet/new", gin.H{"word_count": 12})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, errno.OK.Code, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["mnemonic"])
	assert.Equal(t, "T", data["address"].(string)[:1])
}

func TestNewWallet_BadWordCount(t *testing.T) {
	r := newTestRouter(&stubNode{}, nil)

	resp, _ := doJSON(t, r, http.MethodPost, "/api/v1/wallet/new", gin.H{"word_count": 13})
	assert.Equal(t, errno.ErrBind.Code, resp.Code)
}

func TestDeriveAddress(t *testing.T) {
	r := newTestRouter(&stubNode{validateResp: true}, nil)

	resp, _ := doJSON(t, r, http.MethodPost, "/api/v1/wallet/address", gin.H{"private_key": testPrivKey})
	assert.Equal(t, errno.OK.Code, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, testAddr(t), data["address"])
}

func TestTransfer_SameAddressCode(t *testing.T) {
	r := newTestRouter(&stubNode{}, nil)
	addr := testAddr(t)

	resp, _ := doJSON(t, r, http.MethodPost, "/api/v1/wallet/transfer", gin.H{
		"private_key": testPrivKey,
		"from":        addr,
		"to":          addr,
		"amount":      "1",
	})
	assert.Equal(t, errno.ErrSameAddress.Code, resp.Code)
}

func TestTransfer_RejectedMessageSurfaced(t *testing.T) {
	reason := "Validate TransferContract error, balance is not sufficient."
	rawBytes := []byte("raw payload")
	txID := sha256.Sum256(rawBytes)
	stub := &stubNode{
		createResp: &node.Transaction{
			TxID:       hex.EncodeToString(txID[:]),
			RawDataHex: hex.EncodeToString(rawBytes),
		},
		broadcastResp: &node.BroadcastResult{
			Result:  false,
			Code:    "CONTRACT_VALIDATE_ERROR",
			Message: hex.EncodeToString([]byte(reason)),
		},
	}
	r := newTestRouter(stub, nil)

	resp, _ := doJSON(t, r, http.MethodPost, "/api/v1/wallet/transfer", gin.H{
		"private_key": testPrivKey,
		"from":        testAddr(t),
		"to":          "41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
		"amount":      "1",
	})
	assert.Equal(t, errno.ErrTransactionFailed.Code, resp.Code)
	assert.Equal(t, reason, resp.Message)
}

type recordingLock struct {
	releases      int
	releaseCtxErr error
}

func (l *recordingLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (l *recordingLock) Release(ctx context.Context, key string) error {
	l.releases++
	l.releaseCtxErr = ctx.Err()
	return nil
}

func TestTransfer_LockReleasedAfterClientGone(t *testing.T) {
	rawBytes := []byte("raw payload")
	txID := sha256.Sum256(rawBytes)
	stub := &stubNode{
		createResp: &node.Transaction{
			TxID:       hex.EncodeToString(txID[:]),
			RawDataHex: hex.EncodeToString(rawBytes),
		},
		broadcastResp: &node.BroadcastResult{Result: true},
	}
	locker := &recordingLock{}

	gin.SetMode(gin.TestMode)
	h := NewWalletHandler(wallet.NewService(stub, nil, nil), nil, locker)
	r := gin.New()
	r.POST("/api/v1/wallet/transfer", h.Transfer)

	body, err := json.Marshal(gin.H{
		"private_key": testPrivKey,
		"from":        testAddr(t),
		"to":          "41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
		"amount":      "1",
	})
	require.NoError(t, err)

	// 模拟客户端在处理过程中断开: 请求 ctx 已取消
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/transfer", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// 锁必须被释放，且释放用的 ctx 不能是已取消的请求 ctx
	require.Equal(t, 1, locker.releases)
	assert.NoError(t, locker.releaseCtxErr)
}

func TestGetTransaction_NotFound(t *testing.T) {
	r := newTestRouter(&stubNode{getTxResp: &node.Transaction{}}, nil)

	resp, _ := doJSON(t, r, http.MethodGet, "/api/v1/tx/deadbeef", nil)
	assert.Equal(t, errno.ErrTransactionNotFound.Code, resp.Code)
}

func TestGetBlockByNum_Cached(t *testing.T) {
	stub := &stubNode{
		blockResp: &node.Block{
			BlockID: "blk42",
			BlockHeader: node.BlockHeader{
				RawData: node.BlockHeaderRawData{Number: 42},
			},
		},
	}
	r := newTestRouter(stub, cache.NewMemoryCache(time.Minute, time.Minute))

	// 第二次请求命中缓存，不再访问节点
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, r, http.MethodGet, "/api/v1/block/42", nil)
		assert.Equal(t, errno.OK.Code, resp.Code)
	}
	assert.Equal(t, 1, stub.blockCalls)
}

func TestGetBlockByNum_BadHeight(t *testing.T) {
	r := newTestRouter(&stubNode{}, nil)

	resp, _ := doJSON(t, r, http.MethodGet, "/api/v1/block/abc", nil)
	assert.Equal(t, errno.ErrBind.Code, resp.Code)
}

func TestValidateAddress_Cached(t *testing.T) {
	stub := &stubNode{validateResp: true}
	r := newTestRouter(stub, cache.NewMemoryCache(time.Minute, time.Minute))
	addr := testAddr(t)

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, r, http.MethodGet, "/api/v1/wallet/validate/"+addr, nil)
		assert.Equal(t, errno.OK.Code, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["valid"])
	}
	// 第二次命中缓存
	assert.Equal(t, 1, stub.validateCalls)
}

func TestGetAccount(t *testing.T) {
	r := newTestRouter(&stubNode{}, nil)
	addr := testAddr(t)

	resp, _ := doJSON(t, r, http.MethodGet, "/api/v1/account/"+addr, nil)
	assert.Equal(t, errno.OK.Code, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, addr, data["address"])
}
