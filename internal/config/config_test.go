package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
store:
  backend: redis
escrow:
  voting_window_ms: 60000
  fee_percent: 5
  fee_recipient: platform
database:
  driver: sqlite
  path: /tmp/x.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, int64(60000), cfg.Escrow.VotingWindow)
	assert.Equal(t, "cfs_escrow_notify", cfg.Redis.Channel)
	assert.Equal(t, 60, cfg.Task.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "escrow:\n  fee_percent: 1\n  fee_recipient: platform\n")
	t.Setenv("CFS_ESCROW_FEE_PERCENT", "7")
	t.Setenv("CFS_SERVER_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Escrow.FeePercent)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRulesClamp(t *testing.T) {
	rules := EscrowConfig{VotingWindow: escrow.MaxVotingWindow + 1, FeePercent: 50, FeeRecipient: "p"}.Rules()
	assert.Equal(t, escrow.MaxVotingWindow, rules.VotingWindow)
	assert.Equal(t, escrow.MaxFeePercent, rules.FeePercent)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "postgres"},
			Store:    StoreConfig{Backend: "memory"},
			Task:     TaskConfig{Interval: 60},
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.Store.Backend = "etcd"
	assert.Error(t, c.Validate())

	c = base()
	c.Database.Driver = "oracle"
	assert.Error(t, c.Validate())

	c = base()
	c.Escrow.FeePercent = 3
	assert.Error(t, c.Validate())

	c = base()
	c.Chain.RpcUrl = "http://localhost:8545"
	assert.Error(t, c.Validate())

	c = base()
	c.Task.Interval = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Escrow.VotingWindow = -1
	assert.Error(t, c.Validate())
}

func TestValidateChainFeeRecipient(t *testing.T) {
	chain := func(recipient string) *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite"},
			Store:    StoreConfig{Backend: "database"},
			Task:     TaskConfig{Interval: 60},
			Chain:    ChainConfig{RpcUrl: "http://localhost:8545", PrivateKey: "0xabc", ChainId: 1337},
			Escrow:   EscrowConfig{FeePercent: 5, FeeRecipient: recipient},
		}
	}
	assert.Error(t, chain("platform").Validate())
	assert.NoError(t, chain("0x8ba1f109551bD432803012645Ac136ddd64DBA72").Validate())

	// 本地转账通道接受任意身份
	c := chain("platform")
	c.Chain = ChainConfig{}
	assert.NoError(t, c.Validate())

	// 不收手续费时不需要接收地址
	c = chain("")
	c.Escrow.FeePercent = 0
	assert.NoError(t, c.Validate())
}
