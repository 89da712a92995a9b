package node

import "encoding/hex"

// 每个端点的响应在传输层解码一次，之后全程使用这些显式结构，
// 不在业务层出现裸 map。

// TransferValue 是 TransferContract 的参数
type TransferValue struct {
	Amount       int64  `json:"amount"`
	OwnerAddress string `json:"owner_address"`
	ToAddress    string `json:"to_address"`
}

// ContractParameter 包装合约参数与其类型 URL
type ContractParameter struct {
	Value   TransferValue `json:"value"`
	TypeURL string        `json:"type_url"`
}

// Contract 是交易 raw_data 中的合约条目
type Contract struct {
	Type      string            `json:"type"`
	Parameter ContractParameter `json:"parameter"`
}

// TransactionRawData 是节点构造的交易原始载荷
type TransactionRawData struct {
	Contract      []Contract `json:"contract"`
	RefBlockBytes string     `json:"ref_block_bytes"`
	RefBlockHash  string     `json:"ref_block_hash"`
	Expiration    int64      `json:"expiration"`
	Timestamp     int64      `json:"timestamp"`
	FeeLimit      int64      `json:"fee_limit,omitempty"`
	// Data 是可选的附言字段 (Hex)。广播前可被调用方覆盖。
	Data string `json:"data,omitempty"`
}

// Transaction 是 wallet/createtransaction 与 wallet/gettransactionbyid 的响应。
// TxID 是 raw_data 的 SHA256，一笔交易最多携带一组签名。
type Transaction struct {
	Visible    bool                `json:"visible,omitempty"`
	TxID       string              `json:"txID"`
	RawData    *TransactionRawData `json:"raw_data,omitempty"`
	RawDataHex string              `json:"raw_data_hex,omitempty"`
	Signature  []string            `json:"signature,omitempty"`
	Ret        []TxResult          `json:"ret,omitempty"`

	// Error 是节点在构造失败时返回的错误描述 (注意大写 E，节点就是这么返回的)
	Error string `json:"Error,omitempty"`
}

// TxResult 是合约执行结果条目
type TxResult struct {
	ContractRet string `json:"contractRet"`
}

// BroadcastResult 是 wallet/broadcasttransaction 的响应
type BroadcastResult struct {
	Result  bool   `json:"result"`
	Code    string `json:"code"`
	TxID    string `json:"txid"`
	Message string `json:"message"` // 节点返回 Hex 编码的失败原因
}

// DecodedMessage 返回解码后的失败原因。
// 节点把 message 编码成 Hex；若解码失败则原样返回。
func (r *BroadcastResult) DecodedMessage() string {
	if r.Message == "" {
		return r.Code
	}
	decoded, err := hex.DecodeString(r.Message)
	if err != nil {
		return r.Message
	}
	return string(decoded)
}

// ValidateAddressResult 是 wallet/validateaddress 的响应
type ValidateAddressResult struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}

// BlockHeaderRawData 是区块头原始数据
type BlockHeaderRawData struct {
	Number         int64  `json:"number"`
	TxTrieRoot     string `json:"txTrieRoot"`
	WitnessAddress string `json:"witness_address"`
	ParentHash     string `json:"parentHash"`
	Version        int    `json:"version"`
	Timestamp      int64  `json:"timestamp"`
}

// BlockHeader 是区块头
type BlockHeader struct {
	RawData          BlockHeaderRawData `json:"raw_data"`
	WitnessSignature string             `json:"witness_signature"`
}

// Block 是 wallet/getnowblock 与 wallet/getblockbynum 的响应
type Block struct {
	BlockID      string        `json:"blockID"`
	BlockHeader  BlockHeader   `json:"block_header"`
	Transactions []Transaction `json:"transactions"`
}

// Account 是 wallet/getaccount 的响应 (余额单位为 SUN)
type Account struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// AccountResource 是 wallet/getaccountresource 的响应
type AccountResource struct {
	FreeNetUsed  int64 `json:"freeNetUsed"`
	FreeNetLimit int64 `json:"freeNetLimit"`
	NetUsed      int64 `json:"NetUsed"`
	NetLimit     int64 `json:"NetLimit"`
	EnergyUsed   int64 `json:"EnergyUsed"`
	EnergyLimit  int64 `json:"EnergyLimit"`
}
