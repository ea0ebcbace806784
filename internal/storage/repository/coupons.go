package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// CreateCoupon сохраняет шаблон купона и возвращает его ID.
func (s *Storage) CreateCoupon(ctx context.Context, coupon models.Coupon) (int, error) {
	const op = "storage.CreateCoupon"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO coupons (name, description, points_required, image_url, is_active, expiry_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		coupon.Name, coupon.Description, coupon.PointsRequired, coupon.ImageURL,
		coupon.IsActive, coupon.ExpiryDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCoupon возвращает шаблон купона по его ID.
func (s *Storage) GetCoupon(ctx context.Context, id int) (*models.Coupon, error) {
	const op = "storage.GetCoupon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, points_required, image_url, is_active, expiry_date
			  FROM coupons WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	c, err := scanCoupon(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListActiveCoupons возвращает активные шаблоны купонов в порядке вставки.
func (s *Storage) ListActiveCoupons(ctx context.Context) ([]*models.Coupon, error) {
	const op = "storage.ListActiveCoupons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, points_required, image_url, is_active, expiry_date
			  FROM coupons
			  WHERE is_active = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanCoupon(scan func(dest ...any) error) (*models.Coupon, error) {
	c := &models.Coupon{}
	var expiry sql.NullTime
	if err := scan(&c.ID, &c.Name, &c.Description, &c.PointsRequired,
		&c.ImageURL, &c.IsActive, &expiry); err != nil {
		return nil, err
	}
	if expiry.Valid {
		c.ExpiryDate = &expiry.Time
	}
	return c, nil
}

// CreateUserCoupon сохраняет экземпляр купона и возвращает его ID.
func (s *Storage) CreateUserCoupon(ctx context.Context, uc models.UserCoupon) (int, error) {
	const op = "storage.CreateUserCoupon"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_coupons (user_id, coupon_id, is_used, created_at, used_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		uc.UserID, uc.CouponID, uc.IsUsed, uc.CreatedAt, uc.UsedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserCoupon возвращает экземпляр купона по его ID.
func (s *Storage) GetUserCoupon(ctx context.Context, id int) (*models.UserCoupon, error) {
	const op = "storage.GetUserCoupon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, coupon_id, is_used, created_at, used_at
			  FROM user_coupons WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	uc, err := scanUserCoupon(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return uc, nil
}

// ListUserCoupons возвращает экземпляры купонов пользователя в порядке вставки.
func (s *Storage) ListUserCoupons(ctx context.Context, userID int) ([]*models.UserCoupon, error) {
	const op = "storage.ListUserCoupons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, coupon_id, is_used, created_at, used_at
			  FROM user_coupons
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.UserCoupon, 0)
	for rows.Next() {
		uc, err := scanUserCoupon(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, uc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanUserCoupon(scan func(dest ...any) error) (*models.UserCoupon, error) {
	uc := &models.UserCoupon{}
	var usedAt sql.NullTime
	if err := scan(&uc.ID, &uc.UserID, &uc.CouponID, &uc.IsUsed, &uc.CreatedAt, &usedAt); err != nil {
		return nil, err
	}
	if usedAt.Valid {
		uc.UsedAt = &usedAt.Time
	}
	return uc, nil
}

// MarkUserCouponUsed помечает неиспользованный экземпляр купона использованным
// и возвращает количество изменённых строк.
func (s *Storage) MarkUserCouponUsed(ctx context.Context, id int, usedAt time.Time) (int, error) {
	const op = "storage.MarkUserCouponUsed"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_coupons
			  SET is_used = true, used_at = $2
			  WHERE id = $1 AND is_used = false`
	result, err := s.DB.ExecContext(ctx, query, id, usedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
