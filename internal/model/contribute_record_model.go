package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributeRecordModel 捐款记录
type ContributeRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectName string          `json:"project_name" gorm:"size:255;index;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(38,0);not null"`
	Address     string          `json:"address" gorm:"size:255;index;not null"`
	Timestamp   int64           `json:"timestamp"` // 逻辑时间（毫秒）
}

// TableName 自定义表名
func (ContributeRecordModel) TableName() string {
	return "contribute_record"
}

// VoteRecordModel 投票记录
type VoteRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectName string          `json:"project_name" gorm:"size:255;uniqueIndex:idx_vote_project_address;not null"`
	Address     string          `json:"address" gorm:"size:255;uniqueIndex:idx_vote_project_address;not null"`
	Choice      bool            `json:"choice"`
	Weight      decimal.Decimal `json:"weight" gorm:"type:decimal(38,0);not null"`
	Timestamp   int64           `json:"timestamp"`
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}
