package escrow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/rail"
	"github.com/blues/cfescrow/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hexRail 只能向 0x 开头的地址付款
type hexRail struct {
	*rail.Local
}

func (hexRail) ValidAddress(addr string) bool {
	return strings.HasPrefix(addr, "0x")
}

const (
	hexAuthor = "0xa0"
	hexAlice  = "0xa1"
)

func newHexFixture(t *testing.T, cfg escrow.Config) *fixture {
	t.Helper()
	st := memory.New()
	rl := rail.NewLocal()
	return &fixture{
		engine: escrow.NewEngine(st, hexRail{rl}, cfg),
		store:  st,
		rail:   rl,
		ctx:    context.Background(),
	}
}

func TestUnpayableCallersRejectedBeforeMutation(t *testing.T) {
	f := newHexFixture(t, escrow.NewConfig(defaultWindow, 0, ""))

	assertCode(t, f.engine.CreateProject(f.ctx, at(author, 0), "solar", "", defaultDeadline, amt(100)), escrow.CodeInvalidCaller)
	assert.Equal(t, 0, f.store.Len())

	require.NoError(t, f.engine.CreateProject(f.ctx, at(hexAuthor, 0), "solar", "", defaultDeadline, amt(100)))
	before := f.store.Snapshot()

	assertCode(t, f.engine.Donate(f.ctx, pay(alice, 1, 100), "solar"), escrow.CodeInvalidCaller)
	assert.Equal(t, before, f.store.Snapshot())

	require.NoError(t, f.engine.Donate(f.ctx, pay(hexAlice, 1, 100), "solar"))
	before = f.store.Snapshot()

	assertCode(t, f.engine.Vote(f.ctx, at(bob, defaultDeadline), "solar", true), escrow.CodeInvalidCaller)
	assertCode(t, f.engine.Refund(f.ctx, at(bob, defaultDeadline), "solar"), escrow.CodeInvalidCaller)
	assert.Equal(t, before, f.store.Snapshot())
}

func TestClaimWithUnpayableFeeRecipientKeepsFundsClaimable(t *testing.T) {
	f := newHexFixture(t, escrow.NewConfig(defaultWindow, 5, feeRecipient))
	require.NoError(t, f.engine.CreateProject(f.ctx, at(hexAuthor, 0), "solar", "", defaultDeadline, amt(100)))
	require.NoError(t, f.engine.Donate(f.ctx, pay(hexAlice, 1, 100), "solar"))
	require.NoError(t, f.engine.Vote(f.ctx, at(hexAlice, defaultDeadline), "solar", true))

	assertCode(t, f.engine.Claim(f.ctx, at(hexAuthor, defaultDeadline+1), "solar"), escrow.CodeInternal)

	claimed, err := f.engine.AuthorClaimed(f.ctx, "solar")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Empty(t, f.rail.Transfers())
}

func TestPayableRailStillPaysValidAddresses(t *testing.T) {
	f := newHexFixture(t, escrow.NewConfig(defaultWindow, 0, ""))
	require.NoError(t, f.engine.CreateProject(f.ctx, at(hexAuthor, 0), "solar", "", defaultDeadline, amt(1000)))
	require.NoError(t, f.engine.Donate(f.ctx, pay(hexAlice, 1, 40), "solar"))

	require.NoError(t, f.engine.Refund(f.ctx, at(hexAlice, defaultDeadline), "solar"))
	assertAmount(t, 40, f.rail.Balance(hexAlice))
}
