package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementRecordModel 结算记录，作者领取和平台手续费各一条
type SettlementRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectName    string          `json:"project_name" gorm:"size:255;index;not null"`
	Address        string          `json:"address" gorm:"size:255;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(38,0);not null"`
	Status         PayoutStatus    `json:"status" gorm:"size:16;default:'pending'"` // pending, success, failed
	SettlementType SettlementType  `json:"settlement_type" gorm:"size:16;not null"` // claim, fee
	FailReason     string          `json:"fail_reason" gorm:"type:text"`
	Timestamp      int64           `json:"timestamp"`
}

// PayoutStatus 出款状态
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending" // 待处理
	PayoutStatusSuccess PayoutStatus = "success" // 成功
	PayoutStatusFailed  PayoutStatus = "failed"  // 失败
)

// SettlementType 结算类型
type SettlementType string

const (
	SettlementTypeClaim SettlementType = "claim" // 作者领取
	SettlementTypeFee   SettlementType = "fee"   // 平台手续费
)

// TableName 自定义表名
func (SettlementRecordModel) TableName() string {
	return "settlement_record"
}
