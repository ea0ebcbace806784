// Package ledger содержит бизнес-логику журнала баллов.
// Баланс пользователя — производная величина: он каждый раз вычисляется
// заново как сумма записей журнала и нигде не хранится отдельным счётчиком,
// поэтому разойтись с журналом не может.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// Repository определяет методы для работы с журналом баллов в хранилище.
type Repository interface {
	// CreateTransaction добавляет запись журнала и возвращает её ID.
	CreateTransaction(ctx context.Context, entry models.PointTransaction) (int, error)
	// ListUserTransactions возвращает записи пользователя в порядке вставки.
	ListUserTransactions(ctx context.Context, userID int) ([]*models.PointTransaction, error)
	// SumUserPoints возвращает сумму баллов записей пользователя.
	SumUserPoints(ctx context.Context, userID int) (int, error)
}

// Service реализует операции над журналом баллов.
// Достаточность баланса сервис не проверяет — это политика вызывающего кода.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Balance возвращает текущий баланс пользователя (0, если записей нет).
func (s *Service) Balance(ctx context.Context, userID int) (int, error) {
	return s.repo.SumUserPoints(ctx, userID)
}

// Record добавляет неизменяемую запись журнала. Положительное значение
// points — начисление, отрицательное — списание. productID заполняется
// только при начислении за регистрацию продукта.
func (s *Service) Record(ctx context.Context, userID int, productID *int, points int, description string) (*models.PointTransaction, error) {
	entry := models.PointTransaction{
		UserID:      userID,
		ProductID:   productID,
		Points:      points,
		Description: description,
		CreatedAt:   time.Now(),
	}

	id, err := s.repo.CreateTransaction(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.log.Info("recorded point transaction",
		slog.Int("user_id", userID),
		slog.Int("points", points),
		slog.Int("id", id))

	return &entry, nil
}

// History возвращает записи журнала пользователя в порядке вставки.
func (s *Service) History(ctx context.Context, userID int) ([]*models.PointTransaction, error) {
	return s.repo.ListUserTransactions(ctx, userID)
}
