package escrow

import (
	"context"
	"unicode/utf8"

	"github.com/blues/cfescrow/internal/logger"
	"github.com/shopspring/decimal"
)

// CreateProject 创建项目
func (e *Engine) CreateProject(ctx context.Context, call Call, name, description string, deadline int64, goal decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 验证项目数据
	if err := validateProject(call, name, description, deadline, goal); err != nil {
		return err
	}
	// 作者必须是转账通道能够付款的地址，否则资金将无法领取
	if !e.payable(call.Caller) {
		return ErrInvalidCaller
	}

	t := newTxn(ctx, e.store)
	exists, err := t.contains(BuildProjectKey(name))
	if err != nil {
		return internal("check project", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	p := Project{
		Name:        name,
		Description: description,
		Author:      call.Caller,
		CreateTime:  call.Timestamp,
		Deadline:    deadline,
		Goal:        goal,
	}
	if err := t.putProject(&p); err != nil {
		return err
	}
	t.putAmount(BuildBudgetKey(name), decimal.Zero)
	if err := t.putTally(name, Tally{Yes: decimal.Zero, No: decimal.Zero}); err != nil {
		return err
	}
	if err := t.appendIndex(name); err != nil {
		return err
	}

	if err := t.commit(); err != nil {
		return internal("commit project", err)
	}

	logger.Info("Project %q created by %s, goal: %s, deadline: %d", name, call.Caller, goal, deadline)
	e.notify(func(o Observer) { o.ProjectCreated(ctx, p) })
	return nil
}

// Project 获取项目信息，所有其他操作都先经过这里检查项目是否存在
func (e *Engine) Project(ctx context.Context, name string) (*Project, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return newTxn(ctx, e.store).loadProject(name)
}

// AllProjects 按创建顺序返回所有项目名称
func (e *Engine) AllProjects(ctx context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return newTxn(ctx, e.store).listIndex()
}

// validateProject 验证项目数据
func validateProject(call Call, name, description string, deadline int64, goal decimal.Decimal) error {
	if call.Caller == "" {
		return ErrInvalidCaller
	}
	if name == "" {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if deadline <= call.Timestamp {
		return ErrDeadlineTooEarly
	}
	if !goal.IsPositive() || !isWhole(goal) {
		return ErrInvalidGoal
	}
	return nil
}
