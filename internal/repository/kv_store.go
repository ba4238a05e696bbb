package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore 基于数据库的托管状态存储，实现 escrow.Store
type KVStore struct {
	db *gorm.DB
}

// NewKVStore 创建数据库状态存储
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var entry model.StateEntryModel
	err := s.db.WithContext(ctx).Where("state_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", escrow.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get state %s: %w", key, err)
	}
	return entry.Value, nil
}

// Apply 在一个事务内写入整批数据
func (s *KVStore) Apply(ctx context.Context, writes []escrow.Write) error {
	if len(writes) == 0 {
		return nil
	}
	now := time.Now()
	entries := make([]model.StateEntryModel, 0, len(writes))
	for _, w := range writes {
		entries = append(entries, model.StateEntryModel{Key: w.Key, Value: w.Value, UpdatedAt: now})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"state_value", "updated_at"}),
		}).Create(&entries).Error
		if err != nil {
			return fmt.Errorf("apply %d state writes: %w", len(entries), err)
		}
		return nil
	})
}
