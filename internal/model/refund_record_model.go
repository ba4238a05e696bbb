package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundRecordModel 退款记录
type RefundRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectName  string          `json:"project_name" gorm:"size:255;index;not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(38,0);not null"`
	Address      string          `json:"address" gorm:"size:255;index;not null"`
	Status       PayoutStatus    `json:"status" gorm:"size:16;default:'pending'"` // pending, success, failed
	RefundReason string          `json:"refund_reason" gorm:"type:text"`          // 转账失败原因
	Timestamp    int64           `json:"timestamp"`
}

// TableName 自定义表名
func (RefundRecordModel) TableName() string {
	return "refund_record"
}
