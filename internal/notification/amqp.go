package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SMSRoutingKey is the topic key the SMS gateway consumer binds to.
const SMSRoutingKey = "notification.sms"

// SMSMessage is the JSON body published for each notification.
type SMSMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes notifications to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	exchange string
}

// NewAMQPNotifier dials url and declares a durable topic exchange.
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, phone, message string) error {
	if phone == "" {
		return ErrNoRecipient
	}
	body, err := json.Marshal(SMSMessage{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("encode sms message: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.ch.PublishWithContext(ctx, n.exchange, SMSRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish sms message: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if ch, ok := n.ch.(*amqp.Channel); ok && ch != nil {
		_ = ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
