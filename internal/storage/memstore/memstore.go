// Package memstore реализует контракт storage.Store в памяти процесса.
// Хранилище — единственный владелец всех записей: наружу всегда отдаются
// копии, идентификаторы назначаются монотонно растущими счётчиками внутри
// каждого вида записей. Все операции выполняются под мьютексом, поэтому
// назначение идентификаторов атомарно относительно конкурентных вставок.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// Store хранит все записи программы лояльности в памяти.
// Время жизни хранилища привязано к процессу или тестовой фикстуре,
// глобального состояния пакет не держит.
type Store struct {
	mu sync.RWMutex

	users        map[int]models.User
	products     map[int]models.Product
	transactions map[int]models.PointTransaction
	coupons      map[int]models.Coupon
	userCoupons  map[int]models.UserCoupon
	news         map[int]models.NewsItem

	userID        int
	productID     int
	transactionID int
	couponID      int
	userCouponID  int
	newsID        int
}

// New создает пустое хранилище.
func New() *Store {
	return &Store{
		users:        make(map[int]models.User),
		products:     make(map[int]models.Product),
		transactions: make(map[int]models.PointTransaction),
		coupons:      make(map[int]models.Coupon),
		userCoupons:  make(map[int]models.UserCoupon),
		news:         make(map[int]models.NewsItem),
	}
}

// CreateUser сохраняет пользователя и возвращает назначенный ID.
// Возвращает storage.ErrEmailTaken, если email уже занят.
func (s *Store) CreateUser(_ context.Context, user models.User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, storage.ErrEmailTaken
		}
	}

	s.userID++
	user.ID = s.userID
	s.users[user.ID] = user
	return user.ID, nil
}

// GetUser возвращает пользователя по ID.
func (s *Store) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateProduct сохраняет продукт и возвращает назначенный ID.
// Возвращает storage.ErrProductCodeTaken, если код регистрации уже занят.
func (s *Store) CreateProduct(_ context.Context, product models.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Code == product.Code {
			return 0, storage.ErrProductCodeTaken
		}
	}

	s.productID++
	product.ID = s.productID
	s.products[product.ID] = product
	return product.ID, nil
}

// GetProduct возвращает продукт по ID.
func (s *Store) GetProduct(_ context.Context, id int) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &product, nil
}

// GetProductByCode возвращает продукт по коду регистрации.
func (s *Store) GetProductByCode(_ context.Context, code string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateTransaction добавляет запись в журнал баллов и возвращает её ID.
func (s *Store) CreateTransaction(_ context.Context, entry models.PointTransaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactionID++
	entry.ID = s.transactionID
	s.transactions[entry.ID] = entry
	return entry.ID, nil
}

// ListUserTransactions возвращает записи журнала пользователя в порядке вставки.
func (s *Store) ListUserTransactions(_ context.Context, userID int) ([]*models.PointTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.PointTransaction, 0)
	// Идентификаторы назначаются монотонно, проход по ним даёт порядок вставки.
	for id := 1; id <= s.transactionID; id++ {
		if entry, ok := s.transactions[id]; ok && entry.UserID == userID {
			e := entry
			result = append(result, &e)
		}
	}
	return result, nil
}

// SumUserPoints возвращает сумму баллов всех записей журнала пользователя.
func (s *Store) SumUserPoints(_ context.Context, userID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	for _, entry := range s.transactions {
		if entry.UserID == userID {
			total += entry.Points
		}
	}
	return total, nil
}

// CreateCoupon сохраняет шаблон купона и возвращает назначенный ID.
func (s *Store) CreateCoupon(_ context.Context, coupon models.Coupon) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.couponID++
	coupon.ID = s.couponID
	s.coupons[coupon.ID] = coupon
	return coupon.ID, nil
}

// GetCoupon возвращает шаблон купона по ID.
func (s *Store) GetCoupon(_ context.Context, id int) (*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coupon, ok := s.coupons[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &coupon, nil
}

// ListActiveCoupons возвращает активные шаблоны купонов в порядке вставки.
func (s *Store) ListActiveCoupons(_ context.Context) ([]*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Coupon, 0)
	for id := 1; id <= s.couponID; id++ {
		if coupon, ok := s.coupons[id]; ok && coupon.IsActive {
			c := coupon
			result = append(result, &c)
		}
	}
	return result, nil
}

// CreateUserCoupon сохраняет экземпляр купона и возвращает назначенный ID.
func (s *Store) CreateUserCoupon(_ context.Context, uc models.UserCoupon) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userCouponID++
	uc.ID = s.userCouponID
	s.userCoupons[uc.ID] = uc
	return uc.ID, nil
}

// GetUserCoupon возвращает экземпляр купона по ID.
func (s *Store) GetUserCoupon(_ context.Context, id int) (*models.UserCoupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uc, ok := s.userCoupons[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &uc, nil
}

// ListUserCoupons возвращает экземпляры купонов пользователя в порядке вставки.
func (s *Store) ListUserCoupons(_ context.Context, userID int) ([]*models.UserCoupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.UserCoupon, 0)
	for id := 1; id <= s.userCouponID; id++ {
		if uc, ok := s.userCoupons[id]; ok && uc.UserID == userID {
			c := uc
			result = append(result, &c)
		}
	}
	return result, nil
}

// MarkUserCouponUsed помечает неиспользованный экземпляр купона использованным.
// Возвращает количество изменённых записей: 0 означает, что экземпляр
// не существует или уже использован. Переход одноразовый и необратимый.
func (s *Store) MarkUserCouponUsed(_ context.Context, id int, usedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, ok := s.userCoupons[id]
	if !ok || uc.IsUsed {
		return 0, nil
	}
	uc.IsUsed = true
	uc.UsedAt = &usedAt
	s.userCoupons[id] = uc
	return 1, nil
}

// CreateNews сохраняет новость и возвращает назначенный ID.
func (s *Store) CreateNews(_ context.Context, item models.NewsItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.newsID++
	item.ID = s.newsID
	s.news[item.ID] = item
	return item.ID, nil
}

// GetNews возвращает новость по ID.
func (s *Store) GetNews(_ context.Context, id int) (*models.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.news[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &item, nil
}

// ListPublishedNews возвращает опубликованные новости в порядке вставки.
func (s *Store) ListPublishedNews(_ context.Context) ([]*models.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.NewsItem, 0)
	for id := 1; id <= s.newsID; id++ {
		if item, ok := s.news[id]; ok && item.IsPublished {
			n := item
			result = append(result, &n)
		}
	}
	return result, nil
}
