package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// Seed заполняет хранилище демонстрационными данными: пользователь,
// два продукта, два активных купона и две опубликованные новости.
// Используется при запуске с драйвером memory.
func (s *Store) Seed(ctx context.Context) error {
	const op = "memstore.Seed"

	now := time.Now()

	if _, err := s.CreateUser(ctx, models.User{
		Username:  "demo",
		Email:     "demo@example.com",
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	products := []models.Product{
		{
			Name:        "Chocolate Chip Cookie",
			Description: "Crunchy cookie loaded with chocolate chips",
			Code:        "CHOCO123",
			Points:      10,
			ImageURL:    "https://example.com/images/choco-cookie.jpg",
		},
		{
			Name:        "Salted Potato Chips",
			Description: "Classic crispy potato chips",
			Code:        "POTATO456",
			Points:      5,
			ImageURL:    "https://example.com/images/potato-chips.jpg",
		},
	}
	for _, p := range products {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	coupons := []models.Coupon{
		{
			Name:           "50% Off Coupon",
			Description:    "Half price on any eligible product",
			PointsRequired: 100,
			ImageURL:       "https://example.com/images/50-percent-off.jpg",
			IsActive:       true,
		},
		{
			Name:           "New Product Sample",
			Description:    "Free sample of our newest release",
			PointsRequired: 50,
			ImageURL:       "https://example.com/images/free-sample.jpg",
			IsActive:       true,
		},
	}
	for _, c := range coupons {
		if _, err := s.CreateCoupon(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	news := []models.NewsItem{
		{
			Title:       "New Product Launch",
			Content:     "Premium chocolate chip cookies hit the shelves next month with a limited-time double points campaign.",
			ImageURL:    "https://example.com/images/new-product.jpg",
			IsPublished: true,
			PublishedAt: now,
		},
		{
			Title:       "Summer Double Points Campaign",
			Content:     "From July 1 to August 31 every product earns double points.",
			ImageURL:    "https://example.com/images/summer-campaign.jpg",
			IsPublished: true,
			PublishedAt: now,
		},
	}
	for _, n := range news {
		if _, err := s.CreateNews(ctx, n); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
