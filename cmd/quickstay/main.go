// Command quickstay runs the hotel booking API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quickstay/quickstay-api/internal/app/bootstrap"
	"github.com/quickstay/quickstay-api/internal/app/system/cache"
	"github.com/quickstay/quickstay-api/internal/app/system/dbstate"
	"github.com/quickstay/quickstay-api/internal/app/system/indexes"
	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(cfg *bootstrap.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *bootstrap.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := dbstate.NewManager(logger)
	connectErr := manager.Connect(ctx, dbstate.Config{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.ConnectTimeout(),
		MaxPoolSize:    cfg.MongoMaxPoolSize,
		MinPoolSize:    cfg.MongoMinPoolSize,
	})
	if connectErr != nil {
		// Development fails fast so a bad URI is caught at the desk;
		// production keeps serving 503s and retries in the background.
		// A nil client means the URI never parsed, which no retry can
		// fix, so that stays fatal everywhere.
		if cfg.IsDevelopment() || manager.Client() == nil {
			return fmt.Errorf("database connect: %w", connectErr)
		}
		logger.Error("database connect failed; serving 503s until it recovers", zap.Error(connectErr))
	}

	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := manager.Close(cctx); err != nil {
			logger.Warn("database close failed", zap.Error(err))
		}
	}()

	if manager.State() == dbstate.Connected {
		ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := indexes.EnsureAll(ictx, manager.Database(), logger)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL())
	defer c.Close()

	handler := bootstrap.BuildRouter(bootstrap.Deps{
		Cfg:     cfg,
		Logger:  logger,
		Manager: manager,
		Cache:   c,
	})

	apiSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(metrics.InitRegistry()),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("env", cfg.Env),
		)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	if connectErr != nil {
		g.Go(func() error {
			manager.Retry(gctx, 5*time.Second)
			if manager.State() == dbstate.Connected {
				ictx, cancel := context.WithTimeout(gctx, 30*time.Second)
				defer cancel()
				if err := indexes.EnsureAll(ictx, manager.Database(), logger); err != nil {
					logger.Error("ensure indexes after recovery failed", zap.Error(err))
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(sctx); err != nil {
			logger.Warn("API shutdown failed", zap.Error(err))
		}
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(sctx); err != nil {
				logger.Warn("metrics shutdown failed", zap.Error(err))
			}
		}
		return nil
	})

	return g.Wait()
}
