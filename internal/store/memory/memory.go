package memory

import (
	"context"
	"sync"

	"github.com/blues/cfescrow/internal/escrow"
)

// Store 内存键值存储，用于开发环境和测试
type Store struct {
	mu sync.RWMutex
	db map[string]string
}

// New 创建内存存储
func New() *Store {
	return &Store{db: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.db[key]
	if !ok {
		return "", escrow.ErrNotFound
	}
	return v, nil
}

func (s *Store) Apply(_ context.Context, writes []escrow.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		s.db[w.Key] = w.Value
	}
	return nil
}

// Len 当前键数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.db)
}

// Snapshot 返回全部数据的拷贝
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.db))
	for k, v := range s.db {
		out[k] = v
	}
	return out
}
