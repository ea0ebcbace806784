package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

func TestStore_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		users   []models.User
		wantIDs []int
		wantErr error
	}{
		{
			name: "ids are monotonically increasing",
			users: []models.User{
				{Username: "alice", Email: "alice@example.com"},
				{Username: "bob", Email: "bob@example.com"},
			},
			wantIDs: []int{1, 2},
		},
		{
			name: "duplicate email is rejected",
			users: []models.User{
				{Username: "alice", Email: "alice@example.com"},
				{Username: "impostor", Email: "alice@example.com"},
			},
			wantIDs: []int{1, 0},
			wantErr: storage.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			ctx := context.Background()

			var lastErr error
			for i, u := range tt.users {
				id, err := s.CreateUser(ctx, u)
				assert.Equal(t, tt.wantIDs[i], id)
				if err != nil {
					lastErr = err
				}
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, lastErr, tt.wantErr)
				// Первый пользователь не должен пострадать от конфликта.
				first, err := s.GetUserByEmail(ctx, tt.users[0].Email)
				require.NoError(t, err)
				assert.Equal(t, tt.users[0].Username, first.Username)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestStore_GetUser_NotFound(t *testing.T) {
	s := New()

	_, err := s.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CreateProduct_DuplicateCode(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, models.Product{Name: "Cookie", Code: "CHOCO123", Points: 10})
	require.NoError(t, err)

	_, err = s.CreateProduct(ctx, models.Product{Name: "Other", Code: "CHOCO123", Points: 5})
	require.ErrorIs(t, err, storage.ErrProductCodeTaken)

	got, err := s.GetProductByCode(ctx, "CHOCO123")
	require.NoError(t, err)
	assert.Equal(t, "Cookie", got.Name)
}

func TestStore_Transactions_OrderAndSum(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	points := []int{10, -3, 5}
	for _, p := range points {
		_, err = s.CreateTransaction(ctx, models.PointTransaction{
			UserID:      userID,
			Points:      p,
			Description: "test entry",
			CreatedAt:   time.Now(),
		})
		require.NoError(t, err)
	}
	// Чужая запись не должна попадать ни в сумму, ни в историю.
	_, err = s.CreateTransaction(ctx, models.PointTransaction{UserID: userID + 1, Points: 100})
	require.NoError(t, err)

	total, err := s.SumUserPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	history, err := s.ListUserTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, entry := range history {
		assert.Equal(t, points[i], entry.Points)
	}
}

func TestStore_SumUserPoints_NoTransactions(t *testing.T) {
	s := New()

	total, err := s.SumUserPoints(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestStore_ListActiveCoupons(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateCoupon(ctx, models.Coupon{Name: "active", PointsRequired: 50, IsActive: true})
	require.NoError(t, err)
	_, err = s.CreateCoupon(ctx, models.Coupon{Name: "inactive", PointsRequired: 20, IsActive: false})
	require.NoError(t, err)

	got, err := s.ListActiveCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "active", got[0].Name)
}

func TestStore_MarkUserCouponUsed(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateUserCoupon(ctx, models.UserCoupon{UserID: 1, CouponID: 1, CreatedAt: time.Now()})
	require.NoError(t, err)

	usedAt := time.Now()
	affected, err := s.MarkUserCouponUsed(ctx, id, usedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	got, err := s.GetUserCoupon(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsUsed)
	require.NotNil(t, got.UsedAt)
	assert.WithinDuration(t, usedAt, *got.UsedAt, time.Second)

	// Повторная пометка ничего не меняет.
	affected, err = s.MarkUserCouponUsed(ctx, id, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	affected, err = s.MarkUserCouponUsed(ctx, 999, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestStore_ListPublishedNews(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateNews(ctx, models.NewsItem{Title: "visible", IsPublished: true, PublishedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.CreateNews(ctx, models.NewsItem{Title: "draft", IsPublished: false})
	require.NoError(t, err)

	got, err := s.ListPublishedNews(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "visible", got[0].Title)
}

func TestStore_ConcurrentInserts_UniqueIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 100
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.CreateUser(ctx, models.User{
				Username: fmt.Sprintf("user%d", i),
				Email:    fmt.Sprintf("user%d@example.com", i),
			})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestStore_Seed(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))

	product, err := s.GetProductByCode(ctx, "CHOCO123")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Points)

	coupons, err := s.ListActiveCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 2)

	news, err := s.ListPublishedNews(ctx)
	require.NoError(t, err)
	assert.Len(t, news, 2)

	user, err := s.GetUserByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}
