package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// CreateNews сохраняет новость и возвращает её ID.
func (s *Storage) CreateNews(ctx context.Context, item models.NewsItem) (int, error) {
	const op = "storage.CreateNews"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO news_items (title, content, image_url, is_published, published_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		item.Title, item.Content, item.ImageURL, item.IsPublished, item.PublishedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetNews возвращает новость по её ID.
func (s *Storage) GetNews(ctx context.Context, id int) (*models.NewsItem, error) {
	const op = "storage.GetNews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, image_url, is_published, published_at
			  FROM news_items WHERE id = $1`
	n := &models.NewsItem{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.IsPublished, &n.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListPublishedNews возвращает опубликованные новости в порядке вставки.
func (s *Storage) ListPublishedNews(ctx context.Context) ([]*models.NewsItem, error) {
	const op = "storage.ListPublishedNews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, image_url, is_published, published_at
			  FROM news_items
			  WHERE is_published = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.NewsItem, 0)
	for rows.Next() {
		var n models.NewsItem
		if err = rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.IsPublished, &n.PublishedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
