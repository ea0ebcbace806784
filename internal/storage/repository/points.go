package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// CreateTransaction добавляет запись в журнал баллов и возвращает её ID.
// Записи никогда не обновляются и не удаляются.
func (s *Storage) CreateTransaction(ctx context.Context, entry models.PointTransaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO point_transactions (user_id, product_id, points, description, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.UserID, entry.ProductID, entry.Points, entry.Description, entry.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListUserTransactions возвращает записи журнала пользователя в порядке вставки.
func (s *Storage) ListUserTransactions(ctx context.Context, userID int) ([]*models.PointTransaction, error) {
	const op = "storage.ListUserTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, product_id, points, description, created_at
			  FROM point_transactions
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.PointTransaction, 0)
	for rows.Next() {
		var entry models.PointTransaction
		var productID sql.NullInt64
		if err = rows.Scan(&entry.ID, &entry.UserID, &productID, &entry.Points,
			&entry.Description, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if productID.Valid {
			pid := int(productID.Int64)
			entry.ProductID = &pid
		}
		result = append(result, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumUserPoints возвращает сумму баллов всех записей журнала пользователя.
func (s *Storage) SumUserPoints(ctx context.Context, userID int) (int, error) {
	const op = "storage.SumUserPoints"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(points), 0)
			  FROM point_transactions
			  WHERE user_id = $1`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
