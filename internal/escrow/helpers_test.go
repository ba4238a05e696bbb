package escrow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/rail"
	"github.com/blues/cfescrow/internal/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	author       = "author"
	alice        = "alice"
	bob          = "bob"
	carol        = "carol"
	feeRecipient = "platform"

	defaultDeadline int64 = 5
	defaultWindow   int64 = 10
)

type fixture struct {
	engine *escrow.Engine
	store  *memory.Store
	rail   *rail.Local
	ctx    context.Context
}

func newFixture(t *testing.T, cfg escrow.Config, observers ...escrow.Observer) *fixture {
	t.Helper()
	st := memory.New()
	rl := rail.NewLocal()
	return &fixture{
		engine: escrow.NewEngine(st, rl, cfg, observers...),
		store:  st,
		rail:   rl,
		ctx:    context.Background(),
	}
}

func defaultConfig() escrow.Config {
	return escrow.NewConfig(defaultWindow, 5, feeRecipient)
}

func amt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func at(caller string, ts int64) escrow.Call {
	return escrow.Call{Caller: caller, Timestamp: ts}
}

func pay(caller string, ts, value int64) escrow.Call {
	return escrow.Call{Caller: caller, Timestamp: ts, Value: amt(value)}
}

// createDefaultProject 目标 1000，截止时间 5
func (f *fixture) createDefaultProject(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.engine.CreateProject(f.ctx, at(author, 0), name, "a campaign", defaultDeadline, amt(1000)))
}

func (f *fixture) donate(t *testing.T, name, donor string, ts, value int64) {
	t.Helper()
	require.NoError(t, f.engine.Donate(f.ctx, pay(donor, ts, value), name))
}

func (f *fixture) vote(t *testing.T, name, voter string, ts int64, choice bool) {
	t.Helper()
	require.NoError(t, f.engine.Vote(f.ctx, at(voter, ts), name, choice))
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(amt(want)), "expected %d, got %s", want, got)
}

func assertCode(t *testing.T, err error, code escrow.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, escrow.CodeOf(err), "unexpected error: %v", err)
}

// failingStore 提交时返回错误，用于验证失败调用不修改状态
type failingStore struct {
	*memory.Store
	fail bool
}

func (s *failingStore) Apply(ctx context.Context, writes []escrow.Write) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.Store.Apply(ctx, writes)
}

// recorder 记录 Observer 回调
type recorder struct {
	created []escrow.Project
	donated []decimal.Decimal
	votes   []bool
	payouts []escrow.Payout
}

func (r *recorder) ProjectCreated(_ context.Context, p escrow.Project) {
	r.created = append(r.created, p)
}

func (r *recorder) Donated(_ context.Context, _, _ string, amount decimal.Decimal, _ int64) {
	r.donated = append(r.donated, amount)
}

func (r *recorder) Voted(_ context.Context, _, _ string, choice bool, _ decimal.Decimal, _ int64) {
	r.votes = append(r.votes, choice)
}

func (r *recorder) Paid(_ context.Context, p escrow.Payout) {
	r.payouts = append(r.payouts, p)
}
