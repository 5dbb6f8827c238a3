package notify

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// logSender writes messages to the log instead of sending them.
type logSender struct {
	logger *logger.Logger
}

// NewLogSender returns a [Sender] that logs every message at info level.
func NewLogSender(log *logger.Logger) Sender {
	return &logSender{logger: log}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info().
		Str("kind", string(msg.Kind)).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Msg("email")
	return nil
}
