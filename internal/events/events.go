// Package events публикует события программы лояльности для последующих
// воркеров уведомлений. Публикация fire-and-forget: ошибка доставки
// логируется, но никогда не влияет на результат операции.
package events

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
)

// Типы событий; совпадают с ключами маршрутизации очередей.
const (
	TypeProductRegistered = "registered"
	TypeCouponRedeemed    = "redeemed"
	TypeCouponUsed        = "used"
)

// Event — сообщение о событии программы лояльности.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int       `json:"user_id"`
	Points     int       `json:"points,omitempty"`
	Subject    string    `json:"subject,omitempty"` // Название продукта или купона
	OccurredAt time.Time `json:"occurred_at"`
}

// Emitter публикует события. Реализации: RabbitEmitter и Noop.
type Emitter interface {
	Emit(eventType string, userID, points int, subject string)
}

// RabbitEmitter публикует события в обменник RabbitMQ.
type RabbitEmitter struct {
	ch       *amqp.Channel
	exchange string
	log      *slog.Logger
}

// NewRabbitEmitter создает эмиттер поверх открытого канала RabbitMQ.
func NewRabbitEmitter(ch *amqp.Channel, exchange string, log *slog.Logger) *RabbitEmitter {
	return &RabbitEmitter{ch: ch, exchange: exchange, log: log}
}

// Emit публикует событие с типом в качестве ключа маршрутизации.
func (e *RabbitEmitter) Emit(eventType string, userID, points int, subject string) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Points:     points,
		Subject:    subject,
		OccurredAt: time.Now(),
	}
	if err := rabbitmq.PublishMessage(e.ch, e.exchange, eventType, event); err != nil {
		e.log.Warn("failed to publish reward event",
			slog.String("type", eventType), sl.Err(err))
	}
}

// Noop — эмиттер-заглушка, используется когда RabbitMQ не сконфигурирован.
type Noop struct{}

// Emit ничего не публикует.
func (Noop) Emit(_ string, _, _ int, _ string) {}
