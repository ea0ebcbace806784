// Package models содержит доменные структуры программы лояльности:
// пользователей, продукты, журнал начисления баллов, купоны и новости,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет участника программы лояльности.
// Запись неизменяема после создания: баланс баллов никогда не хранится
// в самой записи, он выводится из журнала транзакций.
type User struct {
	ID        int       `json:"id"`         // Идентификатор, назначается хранилищем
	Username  string    `json:"username"`   // Имя пользователя
	Email     string    `json:"email"`      // Электронная почта (уникальная)
	CreatedAt time.Time `json:"created_at"` // Дата регистрации
}

// DummyUser используется для приёма данных о новом пользователе из JSON-запроса,
// прежде чем конвертировать их в User.
type DummyUser struct {
	Username string `json:"username" validate:"required"`    // Имя пользователя
	Email    string `json:"email" validate:"required,email"` // Электронная почта
}
