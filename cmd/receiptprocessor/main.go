// Package main запускает HTTP-сервер сервиса обработки чеков.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/receipt-processor/internal/config"
	"github.com/mmeshcher/receipt-processor/internal/handler"
	"github.com/mmeshcher/receipt-processor/internal/points"
	"github.com/mmeshcher/receipt-processor/internal/repository"
	"github.com/mmeshcher/receipt-processor/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo := repository.NewMemoryRepository()
	cache := points.NewCache(cfg.PointsCacheSize, points.Calculate)

	svc := service.NewService(repo, cache)

	h := handler.NewHandler(svc, logger, handler.Options{
		AllowedOrigin: cfg.CORSAllowedOrigin,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting receipt processor",
			"addr", cfg.RunAddress,
			"cacheSize", cfg.PointsCacheSize,
			"allowedOrigin", cfg.CORSAllowedOrigin,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		stats := cache.Stats()
		sugar.Infow("server stopped gracefully",
			"cacheHits", stats.Hits,
			"cacheMisses", stats.Misses,
			"cacheEntries", stats.Entries,
		)
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
