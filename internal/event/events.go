package event

// TopicTransfer 是转账审计事件的主题
const TopicTransfer = "wallet_events_transfer"

// TransferBroadcastEvent 转账广播事件
// Topic: wallet_events_transfer
type TransferBroadcastEvent struct {
	TxID            string `json:"tx_id"`
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address"`
	AmountSun       int64  `json:"amount_sun"`
	Status          string `json:"status"`
	MessageOverride bool   `json:"message_override"` // 签名后附言被覆盖，见审计要求
}
