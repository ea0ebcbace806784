// Package account содержит бизнес-логику работы с участниками программы:
// регистрацию, чтение и сводку по баллам.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	// CreateUser сохраняет пользователя и возвращает его ID.
	// Возвращает storage.ErrEmailTaken при занятом email.
	CreateUser(ctx context.Context, user models.User) (int, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// Ledger описывает операции журнала баллов, нужные для сводки.
type Ledger interface {
	Balance(ctx context.Context, userID int) (int, error)
	History(ctx context.Context, userID int) ([]*models.PointTransaction, error)
}

// Service реализует операции над участниками программы.
type Service struct {
	repo   Repository
	ledger Ledger
	log    *slog.Logger
}

// New создает новый Service.
func New(repo Repository, ledger Ledger, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		log:    log,
	}
}

// Create регистрирует нового участника. Уникальность email обеспечивает
// хранилище в момент вставки.
func (s *Service) Create(ctx context.Context, req models.DummyUser) (*models.User, error) {
	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.log.Info("created new user", slog.Int("id", id))
	return &user, nil
}

// Get возвращает участника по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// Points возвращает текущий баланс и историю операций участника.
// Баланс всегда пересчитывается из журнала.
func (s *Service) Points(ctx context.Context, userID int) (*models.PointsSummary, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	total, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.ledger.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.PointsSummary{
		UserID:       userID,
		TotalPoints:  total,
		Transactions: history,
	}, nil
}
