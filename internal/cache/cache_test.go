package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/rail"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rds.Close() })
	return mr, rds
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	mr, rds := newTestClient(t)
	s := NewStore(rds)

	_, err := s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, escrow.ErrNotFound))

	require.NoError(t, s.Apply(ctx, []escrow.Write{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	raw, err := mr.Get(BuildStateKey("b"))
	require.NoError(t, err)
	assert.Equal(t, "2", raw)
}

func TestNewClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestEngineOnRedisStore(t *testing.T) {
	ctx := context.Background()
	_, rds := newTestClient(t)
	engine := escrow.NewEngine(NewStore(rds), rail.NewLocal(), escrow.NewConfig(100, 0, ""))

	require.NoError(t, engine.CreateProject(ctx, escrow.Call{Caller: "author"}, "solar", "", 10, decimal.NewFromInt(100)))
	require.NoError(t, engine.Donate(ctx, escrow.Call{Caller: "alice", Timestamp: 1, Value: decimal.NewFromInt(25)}, "solar"))

	budget, err := engine.CollectedBudget(ctx, "solar")
	require.NoError(t, err)
	assert.True(t, budget.Equal(decimal.NewFromInt(25)))

	names, err := engine.AllProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"solar"}, names)
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	_, rds := newTestClient(t)

	sub := rds.Subscribe(ctx, DefaultNotifyChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	msgs := sub.Channel()

	pub := NewPublisher(rds, "")
	pub.Donated(ctx, "solar", "alice", decimal.NewFromInt(25), 3)
	pub.Paid(ctx, escrow.Payout{Kind: escrow.PayoutRefund, Project: "solar", To: "alice", Amount: decimal.NewFromInt(25), Err: errors.New("boom")})

	var got []Notification
	for len(got) < 2 {
		select {
		case m := <-msgs:
			var n Notification
			require.NoError(t, json.Unmarshal([]byte(m.Payload), &n))
			got = append(got, n)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notifications")
		}
	}

	assert.Equal(t, EventDonated, got[0].Event)
	assert.Equal(t, "25", got[0].Amount)
	assert.Equal(t, int64(3), got[0].Timestamp)

	assert.Equal(t, EventPaid, got[1].Event)
	assert.Equal(t, "refund", got[1].Kind)
	require.NotNil(t, got[1].Success)
	assert.False(t, *got[1].Success)
}
