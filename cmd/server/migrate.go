package main

import (
	"github.com/blues/cfescrow/internal/logger"
	"github.com/blues/cfescrow/internal/repository"
	"github.com/urfave/cli/v2"
)

var cmdMigrate = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update database tables",
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if _, err := repository.Init(cfg.Database); err != nil {
			return err
		}
		logger.Info("Database migrated (driver %s)", cfg.Database.Driver)
		return nil
	},
}
