package escrow

import (
	"context"

	"github.com/blues/cfescrow/internal/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Claim 作者领取募集资金（扣除平台手续费）。
//
// 领取标记在转账之前提交：任一笔转账失败都返回 ErrTransferFailed，
// 但标记不会回滚，之后也不能再次领取。失败的出款会通过 Observer 记录下来。
func (e *Engine) Claim(ctx context.Context, call Call, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if call.Caller == "" {
		return ErrInvalidCaller
	}

	t := newTxn(ctx, e.store)
	p, err := t.loadProject(name)
	if err != nil {
		return err
	}
	if call.Timestamp < p.Deadline {
		return ErrDeadlineNotPassedYet
	}
	if call.Caller != p.Author {
		return ErrNotAuthor
	}
	budget, err := t.loadAmount(BuildBudgetKey(name))
	if err != nil {
		return err
	}
	if budget.LessThan(p.Goal) {
		return ErrGoalNotReached
	}
	claimed, err := t.loadFlag(BuildClaimedKey(name))
	if err != nil {
		return err
	}
	if claimed {
		return ErrAlreadyClaimed
	}
	tally, err := t.loadTally(name)
	if err != nil {
		return err
	}
	switch Resolve(budget, p.Goal, tally, e.window(p), call.Timestamp) {
	case OutcomeFailure:
		return ErrCampaignFailed
	case OutcomeUndetermined:
		return ErrResultUnknown
	}

	fee := e.fee(budget)
	if !e.payable(p.Author) || (fee.IsPositive() && !e.payable(e.cfg.FeeRecipient)) {
		return ErrUnpayableReceiver
	}

	t.setFlag(BuildClaimedKey(name))
	if err := t.commit(); err != nil {
		return internal("commit claim", err)
	}

	if fee.IsPositive() {
		if err := e.pay(ctx, PayoutFee, name, e.cfg.FeeRecipient, fee, call.Timestamp); err != nil {
			return err
		}
	}
	if err := e.pay(ctx, PayoutClaim, name, p.Author, budget.Sub(fee), call.Timestamp); err != nil {
		return err
	}

	logger.Info("Project %q claimed by %s, budget: %s, fee: %s", name, call.Caller, budget, fee)
	return nil
}

// Refund 捐款人取回全部捐款。
// 未达到目标时无需投票直接退款；达到目标时要求决议结果为失败。
func (e *Engine) Refund(ctx context.Context, call Call, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.payable(call.Caller) {
		return ErrInvalidCaller
	}

	t := newTxn(ctx, e.store)
	p, err := t.loadProject(name)
	if err != nil {
		return err
	}
	if call.Timestamp < p.Deadline {
		return ErrDeadlineNotPassedYet
	}
	refundedKey := BuildRefundedKey(name, call.Caller)
	refunded, err := t.loadFlag(refundedKey)
	if err != nil {
		return err
	}
	if refunded {
		return ErrAlreadyRefunded
	}
	donated, err := t.loadAmount(BuildDonationKey(name, call.Caller))
	if err != nil {
		return err
	}
	if donated.IsZero() {
		return ErrNoFundsToRefund
	}
	budget, err := t.loadAmount(BuildBudgetKey(name))
	if err != nil {
		return err
	}
	if budget.GreaterThanOrEqual(p.Goal) {
		tally, err := t.loadTally(name)
		if err != nil {
			return err
		}
		switch Resolve(budget, p.Goal, tally, e.window(p), call.Timestamp) {
		case OutcomeSuccess:
			return ErrCampaignSucceeded
		case OutcomeUndetermined:
			return ErrResultUnknown
		}
	}

	t.setFlag(refundedKey)
	if err := t.commit(); err != nil {
		return internal("commit refund", err)
	}

	if err := e.pay(ctx, PayoutRefund, name, call.Caller, donated, call.Timestamp); err != nil {
		return err
	}

	logger.Info("Refunded %s to %s from project %q", donated, call.Caller, name)
	return nil
}

// AuthorClaimed 作者是否已领取
func (e *Engine) AuthorClaimed(ctx context.Context, name string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return false, err
	}
	return t.loadFlag(BuildClaimedKey(name))
}

// DonorRefunded 捐款人是否已退款
func (e *Engine) DonorRefunded(ctx context.Context, name, donor string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return false, err
	}
	return t.loadFlag(BuildRefundedKey(name, donor))
}

// fee 手续费向下取整；未配置收款方时不收取
func (e *Engine) fee(budget decimal.Decimal) decimal.Decimal {
	if e.cfg.FeeRecipient == "" || e.cfg.FeePercent == 0 {
		return decimal.Zero
	}
	q, _ := budget.Mul(decimal.NewFromInt(e.cfg.FeePercent)).QuoRem(hundred, 0)
	return q
}

// pay 执行一笔转账并通知 Observer
func (e *Engine) pay(ctx context.Context, kind PayoutKind, name, to string, amount decimal.Decimal, ts int64) error {
	err := e.rail.Transfer(ctx, to, amount)
	payout := Payout{
		Kind:      kind,
		Project:   name,
		To:        to,
		Amount:    amount,
		Timestamp: ts,
		Err:       err,
	}
	e.notify(func(o Observer) { o.Paid(ctx, payout) })
	if err != nil {
		logger.Error("Transfer %s of %s to %s for project %q failed: %v", kind, amount, to, name, err)
		return wrapError(CodeTransferFailed, ErrTransferFailed.Message, err)
	}
	return nil
}
