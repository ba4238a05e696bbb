package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/escrow"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "cfs:"

// BuildStateKey redis 中托管状态的键
func BuildStateKey(key string) string {
	return keyPrefix + key
}

// NewClient 创建 redis 客户端并检查连通性
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rds := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rds.Ping(ctx).Err(); err != nil {
		rds.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rds, nil
}

// Store 基于 redis 的托管状态存储，实现 escrow.Store
type Store struct {
	rds *redis.Client
}

// NewStore 创建 redis 状态存储
func NewStore(rds *redis.Client) *Store {
	return &Store{rds: rds}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rds.Get(ctx, BuildStateKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", escrow.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get state %s: %w", key, err)
	}
	return v, nil
}

// Apply 通过 MULTI/EXEC 原子写入整批数据
func (s *Store) Apply(ctx context.Context, writes []escrow.Write) error {
	if len(writes) == 0 {
		return nil
	}

	pipe := s.rds.TxPipeline()
	defer pipe.Close()

	for _, w := range writes {
		pipe.Set(ctx, BuildStateKey(w.Key), w.Value, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		pipe.Discard()
		return fmt.Errorf("apply %d state writes: %w", len(writes), err)
	}
	return nil
}
