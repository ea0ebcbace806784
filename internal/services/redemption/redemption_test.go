package redemption

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/loyalty-rewards/internal/events"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/userlock"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/ledger"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage/memstore"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// newTestService собирает сервис поверх настоящего memstore:
// инварианты ядра проверяются на живом хранилище, а не на моках.
func newTestService(t *testing.T) (*Service, *memstore.Store, *ledger.Service) {
	t.Helper()
	store := memstore.New()
	log := newNoopLogger()
	ledgerService := ledger.New(store, log)
	service := New(store, ledgerService, userlock.New(), events.Noop{}, log)
	return service, store, ledgerService
}

func createUser(t *testing.T, store *memstore.Store, email string) int {
	t.Helper()
	id, err := store.CreateUser(context.Background(), models.User{
		Username:  "user-" + email,
		Email:     email,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func createProduct(t *testing.T, store *memstore.Store, code string, points int) int {
	t.Helper()
	id, err := store.CreateProduct(context.Background(), models.Product{
		Name:   "product-" + code,
		Code:   code,
		Points: points,
	})
	require.NoError(t, err)
	return id
}

func createCoupon(t *testing.T, store *memstore.Store, pointsRequired int, isActive bool) int {
	t.Helper()
	id, err := store.CreateCoupon(context.Background(), models.Coupon{
		Name:           "coupon",
		PointsRequired: pointsRequired,
		IsActive:       isActive,
	})
	require.NoError(t, err)
	return id
}

func TestService_RegisterProduct(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	productID := createProduct(t, store, "CHOCO123", 10)

	got, err := service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)
	assert.Equal(t, productID, got.Product.ID)
	assert.Equal(t, 10, got.PointsEarned)
	assert.Equal(t, 10, got.TotalPoints)

	// Повторная регистрация того же кода начисляет баллы снова.
	got, err = service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalPoints)

	history, err := store.ListUserTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].ProductID)
	assert.Equal(t, productID, *history[0].ProductID)
	assert.Equal(t, "Registered product: product-CHOCO123", history[0].Description)
}

func TestService_RegisterProduct_Errors(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	createProduct(t, store, "CHOCO123", 10)

	_, err := service.RegisterProduct(ctx, "MISSING", userID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = service.RegisterProduct(ctx, "CHOCO123", userID+100)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Ошибочные попытки не должны оставлять записей в журнале.
	total, err := store.SumUserPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestService_RedeemCoupon(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	createProduct(t, store, "CHOCO123", 10)
	bigCouponID := createCoupon(t, store, 100, true)

	// Баланс 10, купон стоит 100.
	_, err := service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)

	_, err = service.RedeemCoupon(ctx, userID, bigCouponID)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// Отклонённый обмен не трогает журнал.
	total, err := store.SumUserPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	// Ровно хватает: 50 баллов на купон за 50.
	smallCouponID := createCoupon(t, store, 50, true)
	for range 4 {
		_, err = service.RegisterProduct(ctx, "CHOCO123", userID)
		require.NoError(t, err)
	}

	got, err := service.RedeemCoupon(ctx, userID, smallCouponID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.PointsSpent)
	assert.Equal(t, 0, got.RemainingPoints)

	instances, err := store.ListUserCoupons(ctx, userID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.False(t, instances[0].IsUsed)
	assert.Equal(t, smallCouponID, instances[0].CouponID)
}

func TestService_RedeemCoupon_Errors(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	inactiveID := createCoupon(t, store, 10, false)

	_, err := service.RedeemCoupon(ctx, userID+100, inactiveID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = service.RedeemCoupon(ctx, userID, 999)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = service.RedeemCoupon(ctx, userID, inactiveID)
	require.ErrorIs(t, err, ErrCouponInactive)
}

func TestService_UseCoupon(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	otherID := createUser(t, store, "bob@example.com")
	createProduct(t, store, "CHOCO123", 50)
	couponID := createCoupon(t, store, 50, true)

	_, err := service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)
	_, err = service.RedeemCoupon(ctx, userID, couponID)
	require.NoError(t, err)

	instances, err := store.ListUserCoupons(ctx, userID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	instanceID := instances[0].ID

	// Чужой пользователь использовать экземпляр не может.
	_, err = service.UseCoupon(ctx, otherID, instanceID)
	require.ErrorIs(t, err, ErrNotCouponOwner)

	got, err := service.UseCoupon(ctx, userID, instanceID)
	require.NoError(t, err)
	assert.True(t, got.UserCoupon.IsUsed)
	assert.NotNil(t, got.UserCoupon.UsedAt)
	assert.Equal(t, couponID, got.Coupon.ID)

	// Повторное использование всегда отклоняется.
	_, err = service.UseCoupon(ctx, userID, instanceID)
	require.ErrorIs(t, err, ErrCouponAlreadyUsed)

	_, err = service.UseCoupon(ctx, userID, instanceID+100)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_Instances_SkipsMissingTemplate(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	couponID := createCoupon(t, store, 10, true)

	_, err := store.CreateUserCoupon(ctx, models.UserCoupon{UserID: userID, CouponID: couponID, CreatedAt: time.Now()})
	require.NoError(t, err)
	// Экземпляр с несуществующим шаблоном должен быть пропущен.
	_, err = store.CreateUserCoupon(ctx, models.UserCoupon{UserID: userID, CouponID: 999, CreatedAt: time.Now()})
	require.NoError(t, err)

	got, err := service.Instances(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, couponID, got[0].Coupon.ID)

	_, err = service.Instances(ctx, userID+100)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_ConcurrentRedeem_OnlyOneSucceeds(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	createProduct(t, store, "CHOCO123", 50)
	couponID := createCoupon(t, store, 50, true)

	// Баллов хватает ровно на один обмен.
	_, err := service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RedeemCoupon(ctx, userID, couponID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientPoints)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	total, err := store.SumUserPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	instances, err := store.ListUserCoupons(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestService_ConcurrentUse_ExactlyOnce(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	couponID := createCoupon(t, store, 10, true)
	instanceID, err := store.CreateUserCoupon(ctx, models.UserCoupon{
		UserID:    userID,
		CouponID:  couponID,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	const n = 10
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.UseCoupon(ctx, userID, instanceID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrCouponAlreadyUsed)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestService_BalanceMatchesHistorySum(t *testing.T) {
	ctx := context.Background()
	service, store, ledgerService := newTestService(t)

	userID := createUser(t, store, "alice@example.com")
	createProduct(t, store, "CHOCO123", 30)
	couponID := createCoupon(t, store, 40, true)

	_, err := service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)
	_, err = service.RegisterProduct(ctx, "CHOCO123", userID)
	require.NoError(t, err)
	_, err = service.RedeemCoupon(ctx, userID, couponID)
	require.NoError(t, err)

	balance, err := ledgerService.Balance(ctx, userID)
	require.NoError(t, err)

	history, err := ledgerService.History(ctx, userID)
	require.NoError(t, err)
	var sum int
	for _, entry := range history {
		sum += entry.Points
	}
	assert.Equal(t, sum, balance)
	assert.Equal(t, 20, balance)
}
