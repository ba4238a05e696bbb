package logic

import (
	"context"
	"fmt"
	"testing"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/rail"
	"github.com/blues/cfescrow/internal/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		want  int64
		valid bool
	}{
		{"0", 0, true},
		{"1500", 1500, true},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if !tt.valid {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), tt.in)
	}
}

func TestLogicWithoutRecords(t *testing.T) {
	ctx := context.Background()
	engine := escrow.NewEngine(memory.New(), rail.NewLocal(), escrow.NewConfig(10, 0, ""))
	projects := NewProjectLogic(engine, nil)

	require.NoError(t, projects.CreateProject(ctx, escrow.Call{Caller: "author"}, "solar", "", 5, "100"))
	assert.ErrorIs(t, projects.CreateProject(ctx, escrow.Call{Caller: "author"}, "wind", "", 5, "x"), escrow.ErrInvalidGoal)

	_, err := projects.GetProjectStats(ctx, "solar")
	assert.ErrorIs(t, err, ErrRecordsUnavailable)

	donations := NewDonationLogic(engine, nil, nil)
	require.NoError(t, donations.Donate(ctx, escrow.Call{Caller: "alice", Timestamp: 1}, "solar", "40", ""))
	assert.ErrorIs(t, donations.Donate(ctx, escrow.Call{Caller: "alice", Timestamp: 1}, "solar", "4.5", ""), escrow.ErrInvalidAmount)

	donated, err := donations.GetDonatedAmount(ctx, "solar", "alice")
	require.NoError(t, err)
	assert.True(t, donated.Equal(decimal.NewFromInt(40)))

	_, _, err = donations.GetProjectContributeRecords(ctx, "solar", 1, 10)
	assert.ErrorIs(t, err, ErrRecordsUnavailable)

	_, _, err = NewVoteLogic(engine, nil).GetProjectVoteRecords(ctx, "solar", 1, 10)
	assert.ErrorIs(t, err, ErrRecordsUnavailable)

	_, err = NewPayoutLogic(engine, nil).GetProjectSettlements(ctx, "solar", 1, 10)
	assert.ErrorIs(t, err, ErrRecordsUnavailable)
}

// stubDeposits 按交易哈希返回预置的入账金额
type stubDeposits struct {
	amounts map[string]int64
	calls   int
}

func (s *stubDeposits) VerifyDeposit(_ context.Context, ref, from string) (string, decimal.Decimal, error) {
	s.calls++
	v, ok := s.amounts[ref]
	if !ok {
		return "", decimal.Zero, fmt.Errorf("%w: unknown %s from %s", escrow.ErrInvalidDeposit, ref, from)
	}
	return ref, decimal.NewFromInt(v), nil
}

func TestDonateWithVerifiedDeposits(t *testing.T) {
	ctx := context.Background()
	engine := escrow.NewEngine(memory.New(), rail.NewLocal(), escrow.NewConfig(10, 0, ""))
	require.NoError(t, NewProjectLogic(engine, nil).CreateProject(ctx, escrow.Call{Caller: "author"}, "solar", "", 5, "100"))

	deposits := &stubDeposits{amounts: map[string]int64{"0x01": 30}}
	donations := NewDonationLogic(engine, nil, deposits)
	call := escrow.Call{Caller: "alice", Timestamp: 1}

	// 请求中声明的金额不被采信
	require.NoError(t, donations.Donate(ctx, call, "solar", "1000000", "0x01"))
	donated, err := donations.GetDonatedAmount(ctx, "solar", "alice")
	require.NoError(t, err)
	assert.True(t, donated.Equal(decimal.NewFromInt(30)), donated.String())

	assert.ErrorIs(t, donations.Donate(ctx, call, "solar", "1000000", "0x01"), escrow.ErrDepositUsed)
	assert.ErrorIs(t, donations.Donate(ctx, call, "solar", "1000000", ""), escrow.ErrInvalidDeposit)
	assert.ErrorIs(t, donations.Donate(ctx, call, "solar", "", "0x02"), escrow.ErrInvalidDeposit)
	assert.Equal(t, 3, deposits.calls)

	budget, err := engine.CollectedBudget(ctx, "solar")
	require.NoError(t, err)
	assert.True(t, budget.Equal(decimal.NewFromInt(30)), budget.String())
}
