// Package main Loyalty Rewards API
//
// @title           Loyalty Rewards API
// @version         1.0
// @description     API программы лояльности: баллы за регистрацию продуктов, обмен на купоны, новости

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	loyaltyrewards "github.com/magabrotheeeer/loyalty-rewards/internal/app/loyalty-rewards"
	"github.com/magabrotheeeer/loyalty-rewards/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting loyalty-rewards",
		slog.String("env", cfg.Env),
		slog.String("storage_driver", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := loyaltyrewards.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("loyalty-rewards stopped gracefully")
}
