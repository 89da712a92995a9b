package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tron-wallet/pkg/monitor"
)

const defaultTimeout = 30 * time.Second

// Client 是 TRON 全节点 HTTP API 的客户端。
// 所有方法都是同步的一问一答，不做任何重试；
// 超时与取消通过 ctx 和 http.Client 控制。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option 配置 Client
type Option func(*Client)

// WithAPIKey 设置 TronGrid 的 TRON-PRO-API-KEY
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient 替换底层 http.Client (测试用)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient 创建节点客户端
// baseURL: e.g. "https://api.trongrid.io"
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// post 发起 POST 请求并把响应解码到 out。
// 这是响应进入类型化结构的唯一入口。
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("编码请求体失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if monitor.Business != nil {
		monitor.Business.NodeRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("节点请求失败 %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败 %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("节点返回 HTTP %d %s: %s", resp.StatusCode, path, truncate(data, 256))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解码响应失败 %s: %w", path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// CreateTransaction 请求节点构造一笔 TRX 转账交易 (未签名)。
// owner/to 为 Hex 地址 (0x41 前缀那种 21 字节形式)，amount 单位为 SUN。
func (c *Client) CreateTransaction(ctx context.Context, ownerAddress, toAddress string, amount int64) (*Transaction, error) {
	req := map[string]interface{}{
		"owner_address": ownerAddress,
		"to_address":    toAddress,
		"amount":        amount,
	}
	var tx Transaction
	if err := c.post(ctx, "/wallet/createtransaction", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// BroadcastTransaction 广播已签名的交易。不可逆，失败不重试。
func (c *Client) BroadcastTransaction(ctx context.Context, tx *Transaction) (*BroadcastResult, error) {
	var result BroadcastResult
	if err := c.post(ctx, "/wallet/broadcasttransaction", tx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransactionByID 按交易哈希查询交易
func (c *Client) GetTransactionByID(ctx context.Context, txID string) (*Transaction, error) {
	req := map[string]interface{}{"value": txID}
	var tx Transaction
	if err := c.post(ctx, "/wallet/gettransactionbyid", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetNowBlock 查询最新区块
func (c *Client) GetNowBlock(ctx context.Context) (*Block, error) {
	var block Block
	if err := c.post(ctx, "/wallet/getnowblock", map[string]interface{}{}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlockByNum 按高度查询区块
func (c *Client) GetBlockByNum(ctx context.Context, num int64) (*Block, error) {
	req := map[string]interface{}{"num": num}
	var block Block
	if err := c.post(ctx, "/wallet/getblockbynum", req, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// ValidateAddress 请求节点校验地址合法性 (Base58 或 Hex 形式都接受)
func (c *Client) ValidateAddress(ctx context.Context, address string) (bool, error) {
	req := map[string]interface{}{"address": address}
	var result ValidateAddressResult
	if err := c.post(ctx, "/wallet/validateaddress", req, &result); err != nil {
		return false, err
	}
	return result.Result, nil
}

// GetAccount 查询账户信息 (纯透传)
func (c *Client) GetAccount(ctx context.Context, address string) (*Account, error) {
	req := map[string]interface{}{"address": address}
	var account Account
	if err := c.post(ctx, "/wallet/getaccount", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountResource 查询账户带宽/能量资源 (纯透传)
func (c *Client) GetAccountResource(ctx context.Context, address string) (*AccountResource, error) {
	req := map[string]interface{}{"address": address}
	var res AccountResource
	if err := c.post(ctx, "/wallet/getaccountresource", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
