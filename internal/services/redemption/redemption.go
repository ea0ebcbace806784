// Package redemption содержит ядро программы лояльности: начисление баллов
// за регистрацию продуктов, обмен баллов на купоны и использование
// экземпляров купонов.
//
// Последовательности "проверка баланса + списание" и "проверка флага +
// пометка" выполняются под мьютексом пользователя: два конкурентных
// запроса одного пользователя не могут оба пройти проверку до фиксации
// первого, иначе баланс мог бы уйти в минус, а купон — использоваться дважды.
// Мьютекс освобождается на каждом пути выхода, включая ошибки.
package redemption

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/events"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/userlock"
	"github.com/magabrotheeeer/loyalty-rewards/internal/metrics"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// Ошибки бизнес-правил. Проверяются через errors.Is; обработчики
// транслируют их в соответствующие HTTP-статусы.
var (
	// ErrCouponInactive возвращается при попытке обменять неактивный купон.
	ErrCouponInactive = errors.New("coupon is not active")
	// ErrInsufficientPoints возвращается, когда баланса не хватает на купон.
	ErrInsufficientPoints = errors.New("not enough points")
	// ErrCouponAlreadyUsed возвращается при повторном использовании экземпляра.
	ErrCouponAlreadyUsed = errors.New("coupon already used")
	// ErrNotCouponOwner возвращается, когда экземпляр принадлежит другому пользователю.
	ErrNotCouponOwner = errors.New("not authorized to use this coupon")
)

// Repository определяет методы хранилища, нужные ядру.
type Repository interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetProductByCode(ctx context.Context, code string) (*models.Product, error)
	GetCoupon(ctx context.Context, id int) (*models.Coupon, error)
	CreateUserCoupon(ctx context.Context, uc models.UserCoupon) (int, error)
	GetUserCoupon(ctx context.Context, id int) (*models.UserCoupon, error)
	ListUserCoupons(ctx context.Context, userID int) ([]*models.UserCoupon, error)
	MarkUserCouponUsed(ctx context.Context, id int, usedAt time.Time) (int, error)
}

// Ledger описывает операции журнала баллов, нужные ядру.
type Ledger interface {
	Balance(ctx context.Context, userID int) (int, error)
	Record(ctx context.Context, userID int, productID *int, points int, description string) (*models.PointTransaction, error)
}

// RegistrationResult — итог регистрации кода продукта.
type RegistrationResult struct {
	Product      *models.Product `json:"product"`
	PointsEarned int             `json:"points_earned"`
	TotalPoints  int             `json:"total_points"`
}

// RedemptionResult — итог обмена баллов на купон.
type RedemptionResult struct {
	Coupon          *models.Coupon `json:"coupon"`
	PointsSpent     int            `json:"points_spent"`
	RemainingPoints int            `json:"remaining_points"`
}

// UseResult — итог использования экземпляра купона.
type UseResult struct {
	UserCoupon *models.UserCoupon `json:"user_coupon"`
	Coupon     *models.Coupon     `json:"coupon"`
}

// Service реализует операции ядра программы лояльности.
type Service struct {
	repo   Repository
	ledger Ledger
	locks  *userlock.Registry
	events events.Emitter
	log    *slog.Logger
}

// New создает новый Service.
func New(repo Repository, ledger Ledger, locks *userlock.Registry, emitter events.Emitter, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		locks:  locks,
		events: emitter,
		log:    log,
	}
}

// RegisterProduct начисляет пользователю баллы за регистрацию кода продукта.
//
// Повторная регистрация того же кода тем же пользователем не ограничена
// и начисляет баллы снова: коды ведут себя как многоразовые ваучеры.
// Это осознанное поведение, а не упущение; решение об ограничении —
// за владельцем системы.
func (s *Service) RegisterProduct(ctx context.Context, code string, userID int) (*RegistrationResult, error) {
	product, err := s.repo.GetProductByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, err = s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	lk := s.locks.Get(userID)
	lk.Lock()
	defer lk.Unlock()

	productID := product.ID
	if _, err = s.ledger.Record(ctx, userID, &productID, product.Points,
		"Registered product: "+product.Name); err != nil {
		return nil, err
	}

	total, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.ProductRegistrations.Inc()
	metrics.PointsEarned.Add(float64(product.Points))
	s.events.Emit(events.TypeProductRegistered, userID, product.Points, product.Name)

	s.log.Info("registered product",
		slog.Int("user_id", userID),
		slog.String("code", code),
		slog.Int("points_earned", product.Points))

	return &RegistrationResult{
		Product:      product,
		PointsEarned: product.Points,
		TotalPoints:  total,
	}, nil
}

// RedeemCoupon обменивает баллы пользователя на экземпляр купона.
// Проверка баланса и списание образуют одну критическую секцию под
// мьютексом пользователя, поэтому успешный обмен никогда не уводит
// баланс в минус.
func (s *Service) RedeemCoupon(ctx context.Context, userID, couponID int) (*RedemptionResult, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	coupon, err := s.repo.GetCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}

	lk := s.locks.Get(userID)
	lk.Lock()
	defer lk.Unlock()

	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < coupon.PointsRequired {
		return nil, ErrInsufficientPoints
	}

	if _, err = s.ledger.Record(ctx, userID, nil, -coupon.PointsRequired,
		"Redeemed coupon: "+coupon.Name); err != nil {
		return nil, err
	}

	if _, err = s.repo.CreateUserCoupon(ctx, models.UserCoupon{
		UserID:    userID,
		CouponID:  couponID,
		IsUsed:    false,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	remaining, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.CouponRedemptions.Inc()
	metrics.PointsSpent.Add(float64(coupon.PointsRequired))
	s.events.Emit(events.TypeCouponRedeemed, userID, coupon.PointsRequired, coupon.Name)

	s.log.Info("redeemed coupon",
		slog.Int("user_id", userID),
		slog.Int("coupon_id", couponID),
		slog.Int("points_spent", coupon.PointsRequired))

	return &RedemptionResult{
		Coupon:          coupon,
		PointsSpent:     coupon.PointsRequired,
		RemainingPoints: remaining,
	}, nil
}

// UseCoupon помечает экземпляр купона использованным. Переход одноразовый
// и необратимый; проверка флага и пометка выполняются под мьютексом
// пользователя.
func (s *Service) UseCoupon(ctx context.Context, userID, userCouponID int) (*UseResult, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	lk := s.locks.Get(userID)
	lk.Lock()
	defer lk.Unlock()

	uc, err := s.repo.GetUserCoupon(ctx, userCouponID)
	if err != nil {
		return nil, err
	}
	if uc.UserID != userID {
		return nil, ErrNotCouponOwner
	}
	if uc.IsUsed {
		return nil, ErrCouponAlreadyUsed
	}

	usedAt := time.Now()
	affected, err := s.repo.MarkUserCouponUsed(ctx, userCouponID, usedAt)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCouponAlreadyUsed
	}
	uc.IsUsed = true
	uc.UsedAt = &usedAt

	coupon, err := s.repo.GetCoupon(ctx, uc.CouponID)
	if err != nil {
		return nil, err
	}

	metrics.CouponUses.Inc()
	s.events.Emit(events.TypeCouponUsed, userID, 0, coupon.Name)

	s.log.Info("used coupon",
		slog.Int("user_id", userID),
		slog.Int("user_coupon_id", userCouponID))

	return &UseResult{
		UserCoupon: uc,
		Coupon:     coupon,
	}, nil
}

// Instances возвращает экземпляры купонов пользователя вместе с шаблонами.
// Экземпляры с отсутствующим шаблоном пропускаются.
func (s *Service) Instances(ctx context.Context, userID int) ([]*models.UserCouponInfo, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	userCoupons, err := s.repo.ListUserCoupons(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.UserCouponInfo, 0, len(userCoupons))
	for _, uc := range userCoupons {
		coupon, err := s.repo.GetCoupon(ctx, uc.CouponID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, &models.UserCouponInfo{
			UserCoupon: uc,
			Coupon:     coupon,
		})
	}
	return result, nil
}
