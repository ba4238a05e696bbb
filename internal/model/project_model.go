package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectModel 项目快照，由托管状态同步而来，仅用于查询
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name        string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Author      string `json:"author" gorm:"index;not null"`

	// 众筹信息
	Goal       decimal.Decimal `json:"goal" gorm:"type:decimal(38,0);not null"`
	Budget     decimal.Decimal `json:"budget" gorm:"type:decimal(38,0);default:0"`
	VotedYes   decimal.Decimal `json:"voted_yes" gorm:"type:decimal(38,0);default:0"`
	VotedNo    decimal.Decimal `json:"voted_no" gorm:"type:decimal(38,0);default:0"`
	CreateTime int64           `json:"create_time"` // 毫秒
	Deadline   int64           `json:"deadline"`    // 毫秒

	// 状态
	Status  ProjectStatus `json:"status" gorm:"size:32;default:'fundraising'"`
	Claimed bool          `json:"claimed" gorm:"default:false"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusFundraising    ProjectStatus = "fundraising"      // 募资中
	ProjectStatusVoting         ProjectStatus = "voting"           // 投票中
	ProjectStatusSucceeded      ProjectStatus = "succeeded"        // 成功
	ProjectStatusFailed         ProjectStatus = "failed"           // 失败
	ProjectStatusGoalNotReached ProjectStatus = "goal_not_reached" // 未达目标
	ProjectStatusClaimed        ProjectStatus = "claimed"          // 已领取
)

// Settled 终态项目不再需要同步
func (s ProjectStatus) Settled() bool {
	return s == ProjectStatusClaimed
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}
