package escrow

import (
	"context"

	"github.com/shopspring/decimal"
)

// Detail 项目详情：元数据、预算、投票和状态
type Detail struct {
	Project Project         `json:"project"`
	Budget  decimal.Decimal `json:"budget"`
	Tally   Tally           `json:"tally"`
	Status  Status          `json:"status"`
	Claimed bool            `json:"claimed"`
}

// Detail 在 now 时刻读取项目详情
func (e *Engine) Detail(ctx context.Context, name string, now int64) (*Detail, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	p, err := t.loadProject(name)
	if err != nil {
		return nil, err
	}
	budget, err := t.loadAmount(BuildBudgetKey(name))
	if err != nil {
		return nil, err
	}
	tally, err := t.loadTally(name)
	if err != nil {
		return nil, err
	}
	claimed, err := t.loadFlag(BuildClaimedKey(name))
	if err != nil {
		return nil, err
	}

	return &Detail{
		Project: *p,
		Budget:  budget,
		Tally:   tally,
		Status:  e.status(p, budget, tally, claimed, now),
		Claimed: claimed,
	}, nil
}

// Status 在 now 时刻计算项目状态
func (e *Engine) Status(ctx context.Context, name string, now int64) (Status, error) {
	d, err := e.Detail(ctx, name, now)
	if err != nil {
		return "", err
	}
	return d.Status, nil
}

func (e *Engine) status(p *Project, budget decimal.Decimal, tally Tally, claimed bool, now int64) Status {
	if claimed {
		return StatusClaimed
	}
	if now < p.Deadline {
		return StatusFundraising
	}
	if budget.LessThan(p.Goal) {
		return StatusGoalNotReached
	}
	switch Resolve(budget, p.Goal, tally, e.window(p), now) {
	case OutcomeSuccess:
		return StatusSucceeded
	case OutcomeFailure:
		return StatusFailed
	default:
		return StatusVoting
	}
}
