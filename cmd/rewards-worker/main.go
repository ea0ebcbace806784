// Package main запускает воркер событий программы лояльности: читает
// события наград из очередей RabbitMQ и логирует их для последующей
// доставки уведомлений.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/config"
	"github.com/magabrotheeeer/loyalty-rewards/internal/events"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting rewards-worker", slog.String("env", cfg.Env))

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, 5, 3*time.Second)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to connect to RabbitMQ", slog.String("URL", cfg.AddressRabbit))
	defer func() {
		_ = conn.Close()
	}()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
	}()

	if err := rabbitmq.SetupRewardQueues(ch, cfg.Exchange); err != nil {
		logger.Error("failed to setup reward queues", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to setup reward queues")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := func(body []byte) error {
		var event events.Event
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("error unmarshalling message: %w", err)
		}
		logger.Info("reward event received",
			slog.String("id", event.ID),
			slog.String("type", event.Type),
			slog.Int("user_id", event.UserID),
			slog.Int("points", event.Points),
			slog.String("subject", event.Subject))
		return nil
	}

	for _, q := range rabbitmq.GetRewardQueues() {
		if err := rabbitmq.ConsumeMessages(ctx, ch, q.QueueName, handler); err != nil {
			logger.Error("failed to start consumer",
				slog.String("queue", q.QueueName), sl.Err(err))
			os.Exit(1)
		}
	}

	<-ctx.Done()
	logger.Info("rewards-worker shutting down gracefully")
}
