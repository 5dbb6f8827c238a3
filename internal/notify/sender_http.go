package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// httpSender posts messages as JSON to a mail relay. Calls go through a
// circuit breaker so an unavailable relay fails fast instead of tying up the
// dispatcher workers.
type httpSender struct {
	endpoint string
	client   *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPSender returns a [Sender] posting to endpoint. apiKey, when set, is
// sent as a bearer token.
func NewHTTPSender(endpoint, apiKey string, timeout time.Duration) Sender {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mail-relay",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &httpSender{endpoint: endpoint, client: client, breaker: breaker}
}

func (s *httpSender) Send(ctx context.Context, msg Message) error {
	_, err := s.breaker.Execute(func() (any, error) {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(msg).
			Post(s.endpoint)
		if err != nil {
			return nil, fmt.Errorf("mail relay request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: status %d", ErrRelayRejected, resp.StatusCode())
		}
		return nil, nil
	})
	return err
}
