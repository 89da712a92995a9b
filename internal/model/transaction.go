package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRecord 转账广播记录表
// 只记录已经广播出去的交易；广播失败的转账不落库，由调用方重新发起。
type TransferRecord struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TxID            string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"tx_id"`
	FromAddress     string          `gorm:"type:varchar(64);not null;index" json:"from_address"`
	ToAddress       string          `gorm:"type:varchar(64);not null" json:"to_address"`
	Amount          decimal.Decimal `gorm:"type:decimal(32,6);not null" json:"amount"`   // TRX
	AmountSun       int64           `gorm:"not null" json:"amount_sun"`                  // 最小单位
	Status          string          `gorm:"type:varchar(32);not null" json:"status"`     // PACKING, SUCCESS, FAILED
	MessageOverride bool            `gorm:"not null;default:false" json:"message_override"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (TransferRecord) TableName() string {
	return "transfer_records"
}
