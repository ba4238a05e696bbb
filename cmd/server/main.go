package main

import (
	"os"

	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cfescrow",
		Usage: "crowdfunding escrow service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml",
				EnvVars: []string{"CFS_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			cmdServe,
			cmdMigrate,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("%v", err)
	}
}

// loadConfig 加载配置并初始化日志
func loadConfig(cctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Options()); err != nil {
		return nil, err
	}
	return cfg, nil
}
