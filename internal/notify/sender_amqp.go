package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of [amqp.Channel] the sender uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSender publishes messages as persistent JSON jobs to a durable queue.
type AMQPSender struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
}

// NewAMQPSender dials url and declares queue.
func NewAMQPSender(url, queue string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening amqp channel: %w", err)
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("error declaring queue %q: %w", queue, err)
	}

	return &AMQPSender{conn: conn, channel: ch, queue: queue}, nil
}

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error encoding message: %w", err)
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         string(msg.Kind),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("error publishing message: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (s *AMQPSender) Close() error {
	var errs error
	if s.channel != nil {
		errs = errors.Join(errs, s.channel.Close())
	}
	if s.conn != nil {
		errs = errors.Join(errs, s.conn.Close())
	}
	return errs
}
