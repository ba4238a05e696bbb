package repository

import (
	"context"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/blues/cfescrow/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Journal 记录已提交的捐款、投票和出款，实现 escrow.Observer。
// 写入失败只记录日志，不影响托管调用的结果。
type Journal struct {
	db *gorm.DB
}

// NewJournal 创建流水记录器
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// ProjectCreated 写入初始项目快照
func (j *Journal) ProjectCreated(ctx context.Context, p escrow.Project) {
	snapshot := &escrow.Detail{
		Project: p,
		Budget:  decimal.Zero,
		Tally:   escrow.Tally{Yes: decimal.Zero, No: decimal.Zero},
		Status:  escrow.StatusFundraising,
	}
	if err := j.SaveSnapshot(ctx, snapshot); err != nil {
		logger.Error("Failed to save snapshot of project %q: %v", p.Name, err)
	}
}

// Donated 写入捐款记录
func (j *Journal) Donated(ctx context.Context, name, donor string, amount decimal.Decimal, ts int64) {
	record := &model.ContributeRecordModel{
		ProjectName: name,
		Amount:      amount,
		Address:     donor,
		Timestamp:   ts,
	}
	if err := j.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Failed to record donation to %q from %s: %v", name, donor, err)
	}
}

// Voted 写入投票记录
func (j *Journal) Voted(ctx context.Context, name, voter string, choice bool, weight decimal.Decimal, ts int64) {
	record := &model.VoteRecordModel{
		ProjectName: name,
		Address:     voter,
		Choice:      choice,
		Weight:      weight,
		Timestamp:   ts,
	}
	if err := j.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Failed to record vote on %q from %s: %v", name, voter, err)
	}
}

// Paid 写入退款或结算记录
func (j *Journal) Paid(ctx context.Context, p escrow.Payout) {
	status := model.PayoutStatusSuccess
	reason := ""
	if p.Err != nil {
		status = model.PayoutStatusFailed
		reason = p.Err.Error()
	}

	var record interface{}
	switch p.Kind {
	case escrow.PayoutRefund:
		record = &model.RefundRecordModel{
			ProjectName:  p.Project,
			Amount:       p.Amount,
			Address:      p.To,
			Status:       status,
			RefundReason: reason,
			Timestamp:    p.Timestamp,
		}
	default:
		settlementType := model.SettlementTypeClaim
		if p.Kind == escrow.PayoutFee {
			settlementType = model.SettlementTypeFee
		}
		record = &model.SettlementRecordModel{
			ProjectName:    p.Project,
			Address:        p.To,
			Amount:         p.Amount,
			Status:         status,
			SettlementType: settlementType,
			FailReason:     reason,
			Timestamp:      p.Timestamp,
		}
	}
	if err := j.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Failed to record %s payout of %q to %s: %v", p.Kind, p.Project, p.To, err)
	}
}

// SaveSnapshot 按项目名称写入或更新项目快照，元数据列同样以状态机为准
func (j *Journal) SaveSnapshot(ctx context.Context, d *escrow.Detail) error {
	snapshot := &model.ProjectModel{
		Name:        d.Project.Name,
		Description: d.Project.Description,
		Author:      d.Project.Author,
		Goal:        d.Project.Goal,
		Budget:      d.Budget,
		VotedYes:    d.Tally.Yes,
		VotedNo:     d.Tally.No,
		CreateTime:  d.Project.CreateTime,
		Deadline:    d.Project.Deadline,
		Status:      model.ProjectStatus(d.Status),
		Claimed:     d.Claimed,
	}
	return j.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "author", "goal", "create_time", "deadline",
			"budget", "voted_yes", "voted_no", "status", "claimed", "updated_at",
		}),
	}).Create(snapshot).Error
}

// GetSnapshot 获取项目快照
func (j *Journal) GetSnapshot(ctx context.Context, name string) (*model.ProjectModel, error) {
	var p model.ProjectModel
	if err := j.db.WithContext(ctx).Where("name = ?", name).Take(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UnsettledProjects 快照中尚未进入终态的项目名称
func (j *Journal) UnsettledProjects(ctx context.Context) ([]string, error) {
	var names []string
	err := j.db.WithContext(ctx).Model(&model.ProjectModel{}).
		Where("status <> ?", model.ProjectStatusClaimed).
		Order("id ASC").
		Pluck("name", &names).Error
	return names, err
}

// ContributeRecords 分页获取项目捐款记录
func (j *Journal) ContributeRecords(ctx context.Context, name string, page, pageSize int) ([]model.ContributeRecordModel, int64, error) {
	return paginate[model.ContributeRecordModel](j.db.WithContext(ctx), name, page, pageSize)
}

// VoteRecords 分页获取项目投票记录
func (j *Journal) VoteRecords(ctx context.Context, name string, page, pageSize int) ([]model.VoteRecordModel, int64, error) {
	return paginate[model.VoteRecordModel](j.db.WithContext(ctx), name, page, pageSize)
}

// SettlementRecords 分页获取项目结算记录
func (j *Journal) SettlementRecords(ctx context.Context, name string, page, pageSize int) ([]model.SettlementRecordModel, int64, error) {
	return paginate[model.SettlementRecordModel](j.db.WithContext(ctx), name, page, pageSize)
}

// RefundRecords 分页获取项目退款记录
func (j *Journal) RefundRecords(ctx context.Context, name string, page, pageSize int) ([]model.RefundRecordModel, int64, error) {
	return paginate[model.RefundRecordModel](j.db.WithContext(ctx), name, page, pageSize)
}

// NormalizePage 修正分页参数
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func paginate[T any](db *gorm.DB, name string, page, pageSize int) ([]T, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)

	var total int64
	var records []T

	// 获取总数
	if err := db.Model(new(T)).Where("project_name = ?", name).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 获取数据
	offset := (page - 1) * pageSize
	if err := db.Where("project_name = ?", name).
		Offset(offset).
		Limit(pageSize).
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ContributionStats 项目的捐款人数和捐款笔数
func (j *Journal) ContributionStats(ctx context.Context, name string) (contributors, contributions int64, err error) {
	db := j.db.WithContext(ctx).Model(&model.ContributeRecordModel{}).Where("project_name = ?", name)
	if err = db.Session(&gorm.Session{}).Count(&contributions).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Session(&gorm.Session{}).Distinct("address").Count(&contributors).Error; err != nil {
		return 0, 0, err
	}
	return contributors, contributions, nil
}
