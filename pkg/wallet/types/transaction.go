package types

import "tron-wallet/pkg/node"

// 交易状态。PACKING 表示广播已被节点接受、等待打包；
// 其余状态来自节点上报的合约执行结果 (SUCCESS / REVERT / ...)。
const (
	StatusPacking = "PACKING"
)

// Transaction 是钱包对外返回的交易视图。
// 广播成功后即不可变，ID/RawData 取自广播前的载荷。
type Transaction struct {
	ID      string                   `json:"id"`
	Status  string                   `json:"status"`
	RawData *node.TransactionRawData `json:"raw_data,omitempty"`
}

// Block 是钱包对外返回的区块视图。
// 节点响应缺失交易列表时 Transactions 为空切片而不是 nil。
type Block struct {
	ID           string             `json:"id"`
	Number       int64              `json:"number"`
	Timestamp    int64              `json:"timestamp"`
	Transactions []node.Transaction `json:"transactions"`
}

// Wallet 是一次钱包生成操作的结果。
// 助记词只在这里出现一次，系统不做任何持久化。
type Wallet struct {
	Mnemonic   string `json:"mnemonic"`
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	AddressHex string `json:"address_hex"`
	Address    string `json:"address"`
}
