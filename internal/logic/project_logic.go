package logic

import (
	"context"
	"errors"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/model"
	"github.com/shopspring/decimal"
)

// ErrRecordsUnavailable 未配置数据库时流水查询不可用
var ErrRecordsUnavailable = errors.New("未启用流水记录")

// Records 流水查询，由 repository.Journal 实现
type Records interface {
	ContributeRecords(ctx context.Context, name string, page, pageSize int) ([]model.ContributeRecordModel, int64, error)
	VoteRecords(ctx context.Context, name string, page, pageSize int) ([]model.VoteRecordModel, int64, error)
	SettlementRecords(ctx context.Context, name string, page, pageSize int) ([]model.SettlementRecordModel, int64, error)
	RefundRecords(ctx context.Context, name string, page, pageSize int) ([]model.RefundRecordModel, int64, error)
	ContributionStats(ctx context.Context, name string) (contributors, contributions int64, err error)
}

// ProjectStats 项目统计
type ProjectStats struct {
	CompletionPercentage string `json:"completionPercentage"`
	ContributorCount     int64  `json:"contributorCount"`
	ContributionCount    int64  `json:"contributionCount"`
}

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	engine  *escrow.Engine
	records Records
}

// NewProjectLogic records 可以为 nil
func NewProjectLogic(engine *escrow.Engine, records Records) *ProjectLogic {
	return &ProjectLogic{engine: engine, records: records}
}

// CreateProject 创建项目
func (p *ProjectLogic) CreateProject(ctx context.Context, call escrow.Call, name, description string, deadline int64, goal string) error {
	amount, err := ParseAmount(goal)
	if err != nil {
		return escrow.ErrInvalidGoal
	}
	return p.engine.CreateProject(ctx, call, name, description, deadline, amount)
}

// GetProjects 获取项目名称列表，按创建顺序
func (p *ProjectLogic) GetProjects(ctx context.Context) ([]string, error) {
	return p.engine.AllProjects(ctx)
}

// GetProject 获取项目信息
func (p *ProjectLogic) GetProject(ctx context.Context, name string) (*escrow.Project, error) {
	return p.engine.Project(ctx, name)
}

// GetProjectDetail 获取项目详情
func (p *ProjectLogic) GetProjectDetail(ctx context.Context, name string, now int64) (*escrow.Detail, error) {
	return p.engine.Detail(ctx, name, now)
}

// GetCollectedBudget 获取累计募集金额
func (p *ProjectLogic) GetCollectedBudget(ctx context.Context, name string) (decimal.Decimal, error) {
	return p.engine.CollectedBudget(ctx, name)
}

// GetProjectStatus 获取项目状态
func (p *ProjectLogic) GetProjectStatus(ctx context.Context, name string, now int64) (escrow.Status, error) {
	return p.engine.Status(ctx, name, now)
}

// GetProjectStats 获取项目统计信息
func (p *ProjectLogic) GetProjectStats(ctx context.Context, name string) (*ProjectStats, error) {
	if p.records == nil {
		return nil, ErrRecordsUnavailable
	}
	project, err := p.engine.Project(ctx, name)
	if err != nil {
		return nil, err
	}
	budget, err := p.engine.CollectedBudget(ctx, name)
	if err != nil {
		return nil, err
	}
	contributors, contributions, err := p.records.ContributionStats(ctx, name)
	if err != nil {
		return nil, err
	}

	// 计算完成百分比
	completion := budget.Mul(decimal.NewFromInt(100)).Div(project.Goal)

	return &ProjectStats{
		CompletionPercentage: completion.StringFixed(2),
		ContributorCount:     contributors,
		ContributionCount:    contributions,
	}, nil
}

// ParseAmount 解析非负整数金额
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return decimal.Zero, errors.New("金额必须是非负整数")
	}
	return d, nil
}
