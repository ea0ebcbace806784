package models

import "time"

// Coupon представляет шаблон купона — администрируемую запись каталога.
// Поле IsActive определяет, доступен ли купон для обмена на баллы.
type Coupon struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	PointsRequired int        `json:"points_required"`
	ImageURL       string     `json:"image_url,omitempty"`
	IsActive       bool       `json:"is_active"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
}

// UserCoupon представляет экземпляр купона, полученный пользователем
// в обмен на баллы. Экземпляр одноразовый: IsUsed переходит из false
// в true ровно один раз, обратного перехода нет.
type UserCoupon struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	CouponID  int        `json:"coupon_id"`
	IsUsed    bool       `json:"is_used"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// UserCouponInfo объединяет экземпляр купона с его шаблоном для выдачи клиенту.
type UserCouponInfo struct {
	UserCoupon *UserCoupon `json:"user_coupon"`
	Coupon     *Coupon     `json:"coupon"`
}
