package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/escrow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "cfs.db")},
		Escrow:   config.EscrowConfig{VotingWindow: 10, FeePercent: 5, FeeRecipient: "platform"},
		Store:    config.StoreConfig{Backend: "memory"},
		Task:     config.TaskConfig{Interval: 60, Workers: 2},
	}
}

func TestBuildMemoryWithoutJournal(t *testing.T) {
	s, err := build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer s.close()

	assert.Nil(t, s.journal)
	assert.Nil(t, s.records)
	assert.Nil(t, s.deposits)
	assert.Equal(t, int64(5), s.engine.Config().FeePercent)
}

func TestBuildDatabaseStoreWithJournal(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store.Backend = "database"
	cfg.Database.Journal = true

	s, err := build(ctx, cfg)
	require.NoError(t, err)
	defer s.close()
	require.NotNil(t, s.journal)

	require.NoError(t, s.engine.CreateProject(ctx, escrow.Call{Caller: "author"}, "solar", "", 5, decimal.NewFromInt(10)))
	snapshot, err := s.journal.GetSnapshot(ctx, "solar")
	require.NoError(t, err)
	assert.Equal(t, "author", snapshot.Author)
}

func TestBuildRedisStoreWithPublisher(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Store.Backend = "redis"
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), Publish: true, Channel: "cfs_escrow_notify"}

	s, err := build(ctx, cfg)
	require.NoError(t, err)
	defer s.close()

	require.NoError(t, s.engine.CreateProject(ctx, escrow.Call{Caller: "author"}, "solar", "", 5, decimal.NewFromInt(10)))
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildChainModeVerifiesDeposits(t *testing.T) {
	cfg := testConfig(t)
	cfg.Escrow.FeeRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	// http 连接在首次请求时才建立
	cfg.Chain = config.ChainConfig{
		RpcUrl:     "http://127.0.0.1:1",
		PrivateKey: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		ChainId:    1337,
	}

	s, err := build(context.Background(), cfg)
	require.NoError(t, err)
	defer s.close()
	require.NotNil(t, s.deposits)

	// 非十六进制身份在任何网络请求之前被拒绝
	err = s.engine.CreateProject(context.Background(), escrow.Call{Caller: "author"}, "solar", "", 5, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, escrow.ErrInvalidCaller)
}

func TestBuildFailsOnUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Store.Backend = "redis"
	cfg.Redis = config.RedisConfig{Addr: addr}

	_, err := build(context.Background(), cfg)
	assert.Error(t, err)
}
