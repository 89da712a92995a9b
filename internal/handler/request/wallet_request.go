package request

// NewWalletRequest 生成新钱包请求。
// word_count 缺省时由服务端取默认值 (24)。
type NewWalletRequest struct {
	WordCount int    `json:"word_count" binding:"omitempty,oneof=12 15 18 21 24"`
	Index     uint32 `json:"index"`
}

// DeriveAddressRequest 根据私钥推导地址请求
type DeriveAddressRequest struct {
	PrivateKey string `json:"private_key" binding:"required,len=64"`
}

// TransferRequest 发起 TRX 转账请求。
// Amount 是十进制字符串形式的 TRX 金额，服务端按定点数解析。
type TransferRequest struct {
	PrivateKey string `json:"private_key" binding:"required,len=64"`
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Message    string `json:"message"`
}
