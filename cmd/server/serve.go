package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/cfescrow/internal/cache"
	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/ethereum"
	"github.com/blues/cfescrow/internal/handler"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/blues/cfescrow/internal/logic"
	"github.com/blues/cfescrow/internal/rail"
	"github.com/blues/cfescrow/internal/repository"
	"github.com/blues/cfescrow/internal/router"
	"github.com/blues/cfescrow/internal/store/memory"
	"github.com/blues/cfescrow/internal/task"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var cmdServe = &cli.Command{
	Name:   "serve",
	Usage:  "Start the escrow HTTP service",
	Action: serve,
}

// service 一次运行所需的全部组件
type service struct {
	engine   *escrow.Engine
	journal  *repository.Journal
	records  logic.Records
	deposits logic.DepositVerifier // 链上模式下核验捐款交易
	closers  []func()
}

func (s *service) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// build 按配置组装状态存储、转账通道和观察者
func build(ctx context.Context, cfg *config.Config) (*service, error) {
	s := &service{}

	var db *gorm.DB
	if cfg.Store.Backend == "database" || cfg.Database.Journal {
		var err error
		if db, err = repository.Init(cfg.Database); err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			s.closers = append(s.closers, func() { sqlDB.Close() })
		}
	}

	var rds *redis.Client
	if cfg.Store.Backend == "redis" || cfg.Redis.Publish {
		var err error
		if rds, err = cache.NewClient(ctx, cfg.Redis); err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, func() { rds.Close() })
	}

	var store escrow.Store
	switch cfg.Store.Backend {
	case "database":
		store = repository.NewKVStore(db)
	case "redis":
		store = cache.NewStore(rds)
	default:
		logger.Warn("Using in-memory state store, escrow state is lost on restart")
		if cfg.Database.Journal {
			logger.Warn("Journal rows outlive the in-memory store, use store.backend: database to keep them consistent")
		}
		store = memory.New()
	}

	var transferer escrow.Transferer
	if cfg.Chain.RpcUrl != "" {
		client, err := ethereum.Init(cfg.Chain)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		logger.Info("Transfers are sent on chain %d from %s, donations must reference a deposit to it", cfg.Chain.ChainId, client.Address().Hex())
		transferer = client
		s.deposits = client
	} else {
		logger.Warn("No chain rpc_url configured, transfers go to the local ledger")
		transferer = rail.NewLocal()
	}

	var observers []escrow.Observer
	if cfg.Database.Journal {
		s.journal = repository.NewJournal(db)
		s.records = s.journal
		observers = append(observers, s.journal)
	}
	if cfg.Redis.Publish {
		observers = append(observers, cache.NewPublisher(rds, cfg.Redis.Channel))
	}

	rules := cfg.Escrow.Rules()
	logger.Info("Escrow rules: voting window %dms, fee %d%% to %q", rules.VotingWindow, rules.FeePercent, rules.FeeRecipient)
	s.engine = escrow.NewEngine(store, transferer, rules, observers...)
	return s, nil
}

func serve(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Setup(s.engine, s.records, s.deposits, handler.SystemClock),
	}

	// 启动定时任务
	if s.journal != nil {
		manager, err := task.NewManager()
		if err != nil {
			return fmt.Errorf("create task manager: %w", err)
		}
		if err := manager.Register(task.NewProjectStatusJob(s.engine, s.journal, cfg.Task, nil)); err != nil {
			return err
		}
		manager.Start()
		defer manager.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
