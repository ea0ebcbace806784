package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/loyalty-rewards/internal/cache"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage/memstore"
)

// MockCache реализует интерфейс Cache для тестов.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestService(t *testing.T, c Cache) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return New(store, c, log), store
}

func seedCatalog(t *testing.T, store *memstore.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.CreateCoupon(ctx, models.Coupon{Name: "Active", PointsRequired: 50, IsActive: true})
	require.NoError(t, err)
	_, err = store.CreateCoupon(ctx, models.Coupon{Name: "Inactive", PointsRequired: 10, IsActive: false})
	require.NoError(t, err)

	_, err = store.CreateNews(ctx, models.NewsItem{Title: "Published", Content: "text", IsPublished: true, PublishedAt: time.Now()})
	require.NoError(t, err)
	_, err = store.CreateNews(ctx, models.NewsItem{Title: "Draft", Content: "text", IsPublished: false, PublishedAt: time.Now()})
	require.NoError(t, err)
}

func TestService_ActiveCoupons(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, cache.Noop{})
	seedCatalog(t, store)

	coupons, err := service.ActiveCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "Active", coupons[0].Name)
}

func TestService_ActiveCoupons_CacheMiss(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockCache)
	service, store := newTestService(t, mockCache)
	seedCatalog(t, store)

	mockCache.On("Get", "coupons:active", mock.Anything).Return(false, nil)
	mockCache.On("Set", "coupons:active", mock.Anything, cacheTTL).Return(nil)

	coupons, err := service.ActiveCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	mockCache.AssertExpectations(t)
}

func TestService_ActiveCoupons_CacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockCache)
	service, store := newTestService(t, mockCache)
	seedCatalog(t, store)

	// Отказ кеша не должен превращаться в ошибку ответа.
	mockCache.On("Get", "coupons:active", mock.Anything).Return(false, errors.New("redis down"))
	mockCache.On("Set", "coupons:active", mock.Anything, cacheTTL).Return(errors.New("redis down"))

	coupons, err := service.ActiveCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	mockCache.AssertExpectations(t)
}

func TestService_PublishedNews(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, cache.Noop{})
	seedCatalog(t, store)

	news, err := service.PublishedNews(ctx)
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "Published", news[0].Title)
}

func TestService_NewsItem(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, cache.Noop{})
	seedCatalog(t, store)

	item, err := service.NewsItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Published", item.Title)

	// Черновик доступен по прямому ID, фильтр действует только в списке.
	item, err = service.NewsItem(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Draft", item.Title)

	_, err = service.NewsItem(ctx, 999)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
