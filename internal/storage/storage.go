// Package storage определяет контракт хранилища сущностей программы лояльности
// и сигнальные ошибки, общие для всех реализаций. Контракт реализуют два
// бэкенда: memstore (по умолчанию, в памяти процесса) и repository (PostgreSQL).
// Сервисы зависят только от этого контракта, поведение сервисов от выбора
// бэкенда не меняется.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// Сигнальные ошибки хранилища. Отсутствие записи — явный результат,
// а не исключение; проверяются через errors.Is.
var (
	// ErrNotFound возвращается, когда запись с указанным идентификатором,
	// кодом или email не существует.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken возвращается при попытке создать пользователя
	// с уже занятым email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrProductCodeTaken возвращается при попытке создать продукт
	// с уже занятым кодом регистрации.
	ErrProductCodeTaken = errors.New("product code already registered")
)

// Store описывает операции хранилища над всеми видами записей.
// Идентификаторы назначаются хранилищем, монотонно растут внутри каждого
// вида и никогда не переиспользуются. Операций удаления нет.
type Store interface {
	// CreateUser сохраняет пользователя и возвращает назначенный ID.
	// Уникальность email проверяется в момент вставки.
	CreateUser(ctx context.Context, user models.User) (int, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateProduct сохраняет продукт каталога и возвращает назначенный ID.
	// Уникальность кода регистрации проверяется в момент вставки.
	CreateProduct(ctx context.Context, product models.Product) (int, error)
	// GetProduct возвращает продукт по ID.
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// GetProductByCode возвращает продукт по коду регистрации.
	GetProductByCode(ctx context.Context, code string) (*models.Product, error)

	// CreateTransaction добавляет запись в журнал баллов и возвращает её ID.
	// Записи неизменяемы, журнал append-only.
	CreateTransaction(ctx context.Context, entry models.PointTransaction) (int, error)
	// ListUserTransactions возвращает записи журнала пользователя
	// в порядке вставки.
	ListUserTransactions(ctx context.Context, userID int) ([]*models.PointTransaction, error)
	// SumUserPoints возвращает сумму баллов всех записей пользователя
	// (0, если записей нет).
	SumUserPoints(ctx context.Context, userID int) (int, error)

	// CreateCoupon сохраняет шаблон купона и возвращает назначенный ID.
	CreateCoupon(ctx context.Context, coupon models.Coupon) (int, error)
	// GetCoupon возвращает шаблон купона по ID.
	GetCoupon(ctx context.Context, id int) (*models.Coupon, error)
	// ListActiveCoupons возвращает активные шаблоны купонов в порядке вставки.
	ListActiveCoupons(ctx context.Context) ([]*models.Coupon, error)

	// CreateUserCoupon сохраняет экземпляр купона и возвращает назначенный ID.
	CreateUserCoupon(ctx context.Context, uc models.UserCoupon) (int, error)
	// GetUserCoupon возвращает экземпляр купона по ID.
	GetUserCoupon(ctx context.Context, id int) (*models.UserCoupon, error)
	// ListUserCoupons возвращает экземпляры купонов пользователя в порядке вставки.
	ListUserCoupons(ctx context.Context, userID int) ([]*models.UserCoupon, error)
	// MarkUserCouponUsed помечает неиспользованный экземпляр использованным
	// и возвращает количество изменённых записей (0, если экземпляр
	// не существует или уже использован).
	MarkUserCouponUsed(ctx context.Context, id int, usedAt time.Time) (int, error)

	// CreateNews сохраняет новость и возвращает назначенный ID.
	CreateNews(ctx context.Context, item models.NewsItem) (int, error)
	// GetNews возвращает новость по ID.
	GetNews(ctx context.Context, id int) (*models.NewsItem, error)
	// ListPublishedNews возвращает опубликованные новости в порядке вставки.
	ListPublishedNews(ctx context.Context) ([]*models.NewsItem, error)
}
