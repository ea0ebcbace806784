package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// CreateProduct сохраняет продукт каталога и возвращает его ID.
// Уникальность кода регистрации проверяется той же командой, что выполняет вставку.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (int, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (name, description, code, points, image_url)
			  SELECT $1, $2, $3, $4, $5
			  WHERE NOT EXISTS (SELECT 1 FROM products WHERE code = $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Code, product.Points, product.ImageURL).Scan(&newID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrProductCodeTaken
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProduct возвращает продукт по его ID.
func (s *Storage) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, code, points, image_url
			  FROM products WHERE id = $1`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Code, &p.Points, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProductByCode возвращает продукт по коду регистрации.
func (s *Storage) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	const op = "storage.GetProductByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, code, points, image_url
			  FROM products WHERE code = $1`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query, code)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Code, &p.Points, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
