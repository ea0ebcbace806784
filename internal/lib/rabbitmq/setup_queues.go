package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// QueueConfig описывает очередь и ключ маршрутизации для событий наград.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetRewardQueues возвращает очереди для воркеров событий программы лояльности.
func GetRewardQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "rewards.registered", RoutingKey: "registered"},
		{QueueName: "rewards.redeemed", RoutingKey: "redeemed"},
		{QueueName: "rewards.used", RoutingKey: "used"},
	}
}

// SetupRewardQueues объявляет обменник и очереди событий наград и связывает их.
func SetupRewardQueues(ch *amqp.Channel, exchange string) error {
	const op = "rabbitmq.SetupRewardQueues"

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, q := range GetRewardQueues() {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
