package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/triadc/triadc/pkg/cache"
	"github.com/triadc/triadc/pkg/config"
	"github.com/triadc/triadc/pkg/logging"
	"github.com/triadc/triadc/pkg/metrics"
	"github.com/triadc/triadc/pkg/server"
	"github.com/triadc/triadc/pkg/store"
	"github.com/triadc/triadc/pkg/tracing"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == "mongo" {
		return store.OpenMongoStore(ctx, cfg.StoreDSN, "triadc")
	}
	return store.OpenSQLStore(ctx, cfg.StoreDriver, cfg.StoreDSN)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.ServerPort
	}

	logFormat := logging.TextFormat
	if cfg.LogFormat == "json" {
		logFormat = logging.JSONFormat
	}
	logger := logging.New(logging.Config{MinLevel: logging.INFO, Format: logFormat})

	tp, err := tracing.Init(tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer tp.Shutdown(context.Background())

	m := metrics.New(metrics.DefaultConfig())

	historyStore, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Warn("history store unavailable, serving without /history: " + err.Error())
		historyStore = nil
	}

	cacheStore := cache.NewRedisStoreFromAddr(cfg.RedisAddr)

	srv := server.New(logger, m, cacheStore, historyStore)

	addr := fmt.Sprintf(":%d", port)
	printInfo(fmt.Sprintf("serving triadc on %s", addr))
	return http.ListenAndServe(addr, srv)
}
