package escrow

import (
	"context"

	"github.com/blues/cfescrow/internal/logger"
	"github.com/shopspring/decimal"
)

// Donate 捐款，金额取自调用附带的 Value。允许 0 金额捐款。
// 带有 Deposit 凭证的调用在同一次提交中把凭证标记为已使用。
func (e *Engine) Donate(ctx context.Context, call Call, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.payable(call.Caller) {
		return ErrInvalidCaller
	}
	if !validAmount(call.Value) {
		return ErrInvalidAmount
	}

	t := newTxn(ctx, e.store)
	p, err := t.loadProject(name)
	if err != nil {
		return err
	}
	if call.Timestamp >= p.Deadline {
		return ErrDeadlinePassed
	}
	if call.Caller == p.Author {
		return ErrSelfDonation
	}
	if call.Deposit != "" {
		used, err := t.loadFlag(BuildDepositKey(call.Deposit))
		if err != nil {
			return err
		}
		if used {
			return ErrDepositUsed
		}
		t.setFlag(BuildDepositKey(call.Deposit))
	}

	donationKey := BuildDonationKey(name, call.Caller)
	donated, err := t.loadAmount(donationKey)
	if err != nil {
		return err
	}
	budget, err := t.loadAmount(BuildBudgetKey(name))
	if err != nil {
		return err
	}

	t.putAmount(donationKey, donated.Add(call.Value))
	t.putAmount(BuildBudgetKey(name), budget.Add(call.Value))
	if err := t.commit(); err != nil {
		return internal("commit donation", err)
	}

	logger.Info("Donation to %q from %s, amount: %s", name, call.Caller, call.Value)
	e.notify(func(o Observer) { o.Donated(ctx, name, call.Caller, call.Value, call.Timestamp) })
	return nil
}

// DonatedAmount 获取某地址的累计捐款
func (e *Engine) DonatedAmount(ctx context.Context, name, donor string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return decimal.Zero, err
	}
	return t.loadAmount(BuildDonationKey(name, donor))
}

// CollectedBudget 获取项目累计募集金额，退款不会减少该值
func (e *Engine) CollectedBudget(ctx context.Context, name string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return decimal.Zero, err
	}
	return t.loadAmount(BuildBudgetKey(name))
}
