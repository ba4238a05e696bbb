package escrow

import (
	"context"

	"github.com/blues/cfescrow/internal/logger"
)

// Vote 投票，权重为投票者的累计捐款。
// 投票窗口从截止时间开始，到截止时间加投票时长结束（含端点）。
func (e *Engine) Vote(ctx context.Context, call Call, name string, choice bool) error {
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
	if e.window(p).Closed(call.Timestamp) {
		return ErrVotingWindowClosed
	}
	budget, err := t.loadAmount(BuildBudgetKey(name))
	if err != nil {
		return err
	}
	if budget.LessThan(p.Goal) {
		return ErrGoalNotReached
	}
	_, voted, err := t.loadVote(name, call.Caller)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}
	weight, err := t.loadAmount(BuildDonationKey(name, call.Caller))
	if err != nil {
		return err
	}
	if weight.IsZero() {
		return ErrNothingToVoteWith
	}

	tally, err := t.loadTally(name)
	if err != nil {
		return err
	}
	if choice {
		tally.Yes = tally.Yes.Add(weight)
	} else {
		tally.No = tally.No.Add(weight)
	}
	if err := t.putTally(name, tally); err != nil {
		return err
	}
	t.putVote(name, call.Caller, choice)
	if err := t.commit(); err != nil {
		return internal("commit vote", err)
	}

	logger.Info("Vote on %q from %s, choice: %t, weight: %s", name, call.Caller, choice, weight)
	e.notify(func(o Observer) { o.Voted(ctx, name, call.Caller, choice, weight, call.Timestamp) })
	return nil
}

// GetVote 获取某地址的投票，未投票返回 ErrNoSuchVote
func (e *Engine) GetVote(ctx context.Context, name, voter string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return false, err
	}
	choice, voted, err := t.loadVote(name, voter)
	if err != nil {
		return false, err
	}
	if !voted {
		return false, ErrNoSuchVote
	}
	return choice, nil
}

// VotingState 获取投票统计
func (e *Engine) VotingState(ctx context.Context, name string) (Tally, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := newTxn(ctx, e.store)
	if _, err := t.loadProject(name); err != nil {
		return Tally{}, err
	}
	return t.loadTally(name)
}
