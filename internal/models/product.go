package models

// Product представляет продукт из каталога с кодом регистрации.
// Запись статична: код уникален, points — количество баллов,
// начисляемых за регистрацию кода.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`   // QR-код или серийный код с упаковки
	Points      int    `json:"points"` // Баллы за регистрацию продукта
	ImageURL    string `json:"image_url,omitempty"`
}

// DummyRegistration используется для приёма запроса на регистрацию кода продукта.
type DummyRegistration struct {
	UserID int `json:"user_id" validate:"required,gt=0"` // Идентификатор пользователя
}
