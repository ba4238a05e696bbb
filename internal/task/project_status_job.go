package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// Snapshots 项目快照存储，由 repository.Journal 实现
type Snapshots interface {
	UnsettledProjects(ctx context.Context) ([]string, error)
	SaveSnapshot(ctx context.Context, d *escrow.Detail) error
}

// ProjectStatusJob 项目状态快照任务：按当前时间重新计算未结束项目的状态并写入快照
type ProjectStatusJob struct {
	engine    *escrow.Engine
	snapshots Snapshots
	config    config.TaskConfig
	clock     func() int64
}

// NewProjectStatusJob 创建项目状态快照任务，clock 为 nil 时使用系统时间
func NewProjectStatusJob(engine *escrow.Engine, snapshots Snapshots, cfg config.TaskConfig, clock func() int64) *ProjectStatusJob {
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	return &ProjectStatusJob{
		engine:    engine,
		snapshots: snapshots,
		config:    cfg,
		clock:     clock,
	}
}

// GetName 获取任务名称
func (j *ProjectStatusJob) GetName() string {
	return "project_status_updater"
}

// GetSchedule 获取调度配置
func (j *ProjectStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Interval) * time.Second)
}

// Execute 执行任务
func (j *ProjectStatusJob) Execute() {
	if _, err := j.Run(context.Background()); err != nil {
		logger.Error("Project status task failed: %v", err)
	}
}

// Run 刷新一轮快照，返回成功写入的项目数
func (j *ProjectStatusJob) Run(ctx context.Context) (int, error) {
	logger.Debug("Starting project status task")

	names, err := j.snapshots.UnsettledProjects(ctx)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	workers := j.config.Workers
	if workers <= 0 || workers > len(names) {
		workers = len(names)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	now := j.clock()
	var (
		wg      sync.WaitGroup
		updated int64
	)
	for _, name := range names {
		name := name
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if j.refresh(ctx, name, now) {
				atomic.AddInt64(&updated, 1)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit snapshot of %q to pool: %v", name, err)
		}
	}
	wg.Wait()

	logger.Info("Project status task completed. Updated %d of %d projects", updated, len(names))
	return int(updated), nil
}

func (j *ProjectStatusJob) refresh(ctx context.Context, name string, now int64) bool {
	detail, err := j.engine.Detail(ctx, name, now)
	if errors.Is(err, escrow.ErrProjectDoesntExist) {
		// 快照来自持久化的流水，状态存储可能已丢失该项目
		logger.Warn("Project %q has a snapshot but no escrow state, skipped", name)
		return false
	}
	if err != nil {
		logger.Error("Failed to compute status of project %q: %v", name, err)
		return false
	}
	if err := j.snapshots.SaveSnapshot(ctx, detail); err != nil {
		logger.Error("Failed to save snapshot of project %q: %v", name, err)
		return false
	}
	return true
}
