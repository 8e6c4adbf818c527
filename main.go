package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fzft/go-connecter/cmd"
	"github.com/fzft/go-connecter/connect"
	"github.com/fzft/go-connecter/log"
	"github.com/fzft/go-connecter/loop"
	"go.uber.org/zap"
)

func main() {
	log.InitLogger()

	cfg, err := cmd.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	registry := connect.NewRegistry(&connect.NetConnector{Timeout: cfg.DialTimeout})
	runner := loop.NewRunner(registry, cfg.Tick)
	runner.SetDrainTimeout(cfg.DrainTimeout)
	shell := cmd.NewShell(runner, registry, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		if err := shell.Run(); err != nil {
			log.Logger.Error("shell error", zap.Error(err))
		}
	}()

	runErr := runner.Run(ctx)
	if err := shell.Close(); err != nil {
		log.Logger.Warn("shell close", zap.Error(err))
	}
	if runErr != nil {
		log.Logger.Warn("shutdown incomplete", zap.Error(runErr))
		os.Exit(1)
	}
}
