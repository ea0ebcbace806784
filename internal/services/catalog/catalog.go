// Package catalog содержит бизнес-логику каталога и контента:
// активные купоны и опубликованные новости. Операции только читают
// данные; горячие выборки кешируются.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

const cacheTTL = 5 * time.Minute

// Repository определяет методы чтения каталога и контента из хранилища.
type Repository interface {
	// ListActiveCoupons возвращает активные шаблоны купонов в порядке вставки.
	ListActiveCoupons(ctx context.Context) ([]*models.Coupon, error)
	// ListPublishedNews возвращает опубликованные новости в порядке вставки.
	ListPublishedNews(ctx context.Context) ([]*models.NewsItem, error)
	// GetNews возвращает новость по ID.
	GetNews(ctx context.Context, id int) (*models.NewsItem, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует чтение каталога и контента с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ActiveCoupons возвращает активные шаблоны купонов, используя кеш или хранилище.
func (s *Service) ActiveCoupons(ctx context.Context) ([]*models.Coupon, error) {
	const cacheKey = "coupons:active"

	var cached []*models.Coupon
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read coupons from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	coupons, err := s.repo.ListActiveCoupons(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, coupons, cacheTTL); err != nil {
		s.log.Warn("failed to cache coupons", slog.String("key", cacheKey), sl.Err(err))
	}
	return coupons, nil
}

// PublishedNews возвращает опубликованные новости, используя кеш или хранилище.
func (s *Service) PublishedNews(ctx context.Context) ([]*models.NewsItem, error) {
	const cacheKey = "news:published"

	var cached []*models.NewsItem
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read news from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	news, err := s.repo.ListPublishedNews(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, news, cacheTTL); err != nil {
		s.log.Warn("failed to cache news", slog.String("key", cacheKey), sl.Err(err))
	}
	return news, nil
}

// NewsItem возвращает новость по ID, используя кеш или хранилище.
func (s *Service) NewsItem(ctx context.Context, id int) (*models.NewsItem, error) {
	cacheKey := fmt.Sprintf("news:%d", id)

	var cached *models.NewsItem
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read news item from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	item, err := s.repo.GetNews(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, item, cacheTTL); err != nil {
		s.log.Warn("failed to cache news item", slog.String("key", cacheKey), sl.Err(err))
	}
	return item, nil
}
