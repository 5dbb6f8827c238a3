package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// Notifications bundles the notifier handed to the services with the
// dispatcher that has to be run as a background worker.
type Notifications struct {
	Notifier   Notifier
	Dispatcher *Dispatcher

	closer io.Closer
}

// New builds the sender selected by cfg.Driver, wraps it in a [Dispatcher]
// and returns the resulting [Notifier].
func New(_ context.Context, cfg config.Notifier, frontendURL string, log *logger.Logger) (*Notifications, error) {
	var (
		sender Sender
		closer io.Closer
	)

	switch cfg.Driver {
	case config.NotifierLog, "":
		sender = NewLogSender(log)
	case config.NotifierHTTP:
		sender = NewHTTPSender(cfg.Endpoint, cfg.APIKey, cfg.Timeout)
	case config.NotifierAMQP:
		amqpSender, err := NewAMQPSender(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Err(err).Str("func", "notify.New").Msg("error creating amqp sender")
			return nil, err
		}
		sender, closer = amqpSender, amqpSender
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	log.Info().Str("driver", cfg.Driver).Msg("notifier created")

	dispatcher := NewDispatcher(sender, cfg.QueueSize, cfg.Workers, cfg.Timeout, log)

	return &Notifications{
		Notifier:   NewNotifier(dispatcher, cfg.Sender, frontendURL),
		Dispatcher: dispatcher,
		closer:     closer,
	}, nil
}

// Close releases the broker connection, if any. Call it after the
// dispatcher has stopped.
func (n *Notifications) Close() error {
	if n.closer == nil {
		return nil
	}
	return n.closer.Close()
}
