package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Escrow   EscrowConfig   `mapstructure:"escrow"`
	Store    StoreConfig    `mapstructure:"store"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据库配置，driver 为 sqlite 时只使用 path
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres, mysql, sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	Journal  bool   `mapstructure:"journal"` // 记录流水和项目快照
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Publish  bool   `mapstructure:"publish"` // 是否发布通知
	Channel  string `mapstructure:"channel"`
}

// ChainConfig 链上转账配置，rpc_url 为空时使用本地转账通道
type ChainConfig struct {
	ChainId    int64  `mapstructure:"chain_id"`    // 链ID
	RpcUrl     string `mapstructure:"rpc_url"`     // RPC节点URL
	PrivateKey string `mapstructure:"private_key"` // 托管账户私钥
}

// EscrowConfig 托管规则
type EscrowConfig struct {
	VotingWindow int64  `mapstructure:"voting_window_ms"` // 毫秒，0 表示不限时，不允许负数
	FeePercent   int64  `mapstructure:"fee_percent"`
	FeeRecipient string `mapstructure:"fee_recipient"`
}

// StoreConfig 状态存储后端
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // memory, database, redis
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
	Workers  int `mapstructure:"workers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// Options 转换为 logger 配置
func (l LogConfig) Options() logger.Options {
	return logger.Options{
		Level:    l.Level,
		Output:   l.Output,
		File:     l.File,
		Compress: true,
	}
}

// Rules 返回截断后的托管规则
func (e EscrowConfig) Rules() escrow.Config {
	return escrow.NewConfig(e.VotingWindow, e.FeePercent, e.FeeRecipient)
}

// Load 读取配置文件和 CFS_ 前缀的环境变量。path 为空时按默认目录查找 config.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cfs")
	}

	setDefaults(v)

	// 自动读取环境变量，如 CFS_ESCROW_FEE_PERCENT
	v.SetEnvPrefix("CFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logger.Warn("Could not find config file, using defaults: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "crowdfunding")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "cfs.db")
	v.SetDefault("database.journal", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.publish", false)
	v.SetDefault("redis.channel", "cfs_escrow_notify")
	v.SetDefault("chain.chain_id", 1)
	v.SetDefault("chain.rpc_url", "")
	v.SetDefault("chain.private_key", "")
	v.SetDefault("escrow.voting_window_ms", 7*24*60*60*1000)
	v.SetDefault("escrow.fee_percent", 0)
	v.SetDefault("escrow.fee_recipient", "")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("task.interval", 60)
	v.SetDefault("task.workers", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// Validate 启动前检查配置
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "database", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Escrow.VotingWindow < 0 {
		return fmt.Errorf("escrow.voting_window_ms must not be negative, got %d", c.Escrow.VotingWindow)
	}
	if c.Escrow.FeePercent > 0 && c.Escrow.FeeRecipient == "" {
		return errors.New("escrow.fee_recipient is required when escrow.fee_percent is set")
	}
	if c.Chain.RpcUrl != "" {
		if c.Chain.PrivateKey == "" {
			return errors.New("chain.private_key is required when chain.rpc_url is set")
		}
		// 链上只能向十六进制地址付款
		if c.Escrow.FeePercent > 0 && !common.IsHexAddress(c.Escrow.FeeRecipient) {
			return fmt.Errorf("escrow.fee_recipient %q must be a hex address when chain.rpc_url is set", c.Escrow.FeeRecipient)
		}
	}
	if c.Redis.Publish && c.Redis.Channel == "" {
		return errors.New("redis.channel is required when redis.publish is set")
	}
	if c.Task.Interval <= 0 {
		return fmt.Errorf("task.interval must be positive, got %d", c.Task.Interval)
	}
	return nil
}
