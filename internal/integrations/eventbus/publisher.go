package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события записей в topic exchange RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	exchange string
	log      Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher подключается к брокеру и объявляет durable topic exchange
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrNotConnected, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrNotConnected, err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrNotConnected, exchange, err)
	}

	return &Publisher{
		conn:     conn,
		exchange: exchange,
		log:      log,
		ch:       ch,
	}, nil
}

// Publish отправляет событие, routing key = тип события.
// Пустые ID и OccurredAt заполняются автоматически.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	body, err := encodeEvent(&event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return ErrNotConnected
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, event.Type, err)
	}

	p.log.Info("Published event %s for appointment_id=%d", event.Type, event.AppointmentID)
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	return p.conn.Close()
}

func encodeEvent(event *Event) ([]byte, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return body, nil
}

// NoopPublisher используется, когда брокер выключен в конфиге
type NoopPublisher struct{}

// NewNoopPublisher создает публикатор-заглушку
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish ничего не делает
func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

// Close ничего не делает
func (NoopPublisher) Close() error {
	return nil
}
