package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"commerceledger/config"
	"commerceledger/core/events"
	"commerceledger/core/ledger"
	"commerceledger/native/commerce"
	"commerceledger/observability/logging"
	"commerceledger/rpc"
	"commerceledger/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the daemon configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := logging.SetupWithOptions("commerced", cfg.Environment, logging.Options{
		LogFile:    cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSize,
		MaxBackups: cfg.LogBackups,
		MaxAgeDays: cfg.LogMaxAge,
	})
	logger.Info("starting", "network", cfg.NetworkName, "data_dir", cfg.DataDir)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "ledger"))
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	token := ledger.NewTokenModule(ledger.DefaultRent)
	engine := commerce.NewEngine(token, ledger.DefaultRent)
	engine.SetEmitter(events.LogEmitter{Logger: logger})
	chain := ledger.NewLedger(db)

	server := rpc.NewServer(chain, engine, token, logger)
	httpServer := &http.Server{
		Addr:              cfg.RPCAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("rpc listening", "addr", cfg.RPCAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("rpc serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("rpc shutdown", "err", err)
	}
}
