package loyaltyrewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/loyalty-rewards/internal/cache"
	"github.com/magabrotheeeer/loyalty-rewards/internal/config"
	"github.com/magabrotheeeer/loyalty-rewards/internal/events"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/userlock"
	"github.com/magabrotheeeer/loyalty-rewards/internal/migrations"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/account"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/catalog"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/ledger"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/redemption"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage/memstore"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage // nil при драйвере memory
	rabbitCon *amqp.Connection    // nil, если RabbitMQ не сконфигурирован
}

// New создает приложение по конфигу: выбирает бэкенд хранилища,
// подключает кеш и публикацию событий, регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.loyaltyrewards.New"

	var store storage.Store
	var db *repository.Storage
	switch cfg.StorageDriver {
	case "postgres":
		var err error
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
	case "memory":
		mem := memstore.New()
		if err := mem.Seed(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = mem
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.StorageDriver)
	}

	var catalogCache catalog.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		catalogCache = cacheRedis
	}

	var emitter events.Emitter = events.Noop{}
	var rabbitCon *amqp.Connection
	if cfg.AddressRabbit != "" {
		var err error
		rabbitCon, err = amqp.Dial(cfg.AddressRabbit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitCon.Channel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = rabbitmq.SetupRewardQueues(ch, cfg.Exchange); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emitter = events.NewRabbitEmitter(ch, cfg.Exchange, logger)
	}

	ledgerService := ledger.New(store, logger)
	accountService := account.New(store, ledgerService, logger)
	catalogService := catalog.New(store, catalogCache, logger)
	redemptionService := redemption.New(store, ledgerService, userlock.New(), emitter, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, accountService, catalogService, redemptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		rabbitCon: rabbitCon,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			if closeErr := a.db.DB.Close(); closeErr != nil {
				a.logger.Error("failed to close database", sl.Err(closeErr))
			}
		}
		if a.rabbitCon != nil {
			if closeErr := a.rabbitCon.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
