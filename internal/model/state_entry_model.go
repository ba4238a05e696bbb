package model

import "time"

// StateEntryModel 托管状态的键值条目
type StateEntryModel struct {
	Key       string `gorm:"column:state_key;primaryKey;size:512"`
	Value     string `gorm:"column:state_value;type:text;not null"`
	UpdatedAt time.Time
}

// TableName 自定义表名
func (StateEntryModel) TableName() string {
	return "state_entry"
}

// All 需要自动迁移的模型
func All() []interface{} {
	return []interface{}{
		&StateEntryModel{},
		&ProjectModel{},
		&ContributeRecordModel{},
		&VoteRecordModel{},
		&RefundRecordModel{},
		&SettlementRecordModel{},
	}
}
