package models

import "time"

// PointTransaction представляет одну запись журнала баллов.
// Журнал append-only: записи неизменяемы, баланс пользователя всегда
// равен сумме полей Points всех его записей. Положительное значение —
// начисление, отрицательное — списание.
type PointTransaction struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ProductID   *int      `json:"product_id,omitempty"` // Заполняется только при начислении за регистрацию продукта
	Points      int       `json:"points"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PointsSummary объединяет текущий баланс пользователя и историю операций.
type PointsSummary struct {
	UserID       int                 `json:"user_id"`
	TotalPoints  int                 `json:"total_points"`
	Transactions []*PointTransaction `json:"transactions"`
}
