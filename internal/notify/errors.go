package notify

import "errors"

var (
	// ErrQueueFull is returned by [Dispatcher.Send] when the delivery queue
	// has no free slot. The message is dropped.
	ErrQueueFull = errors.New("notification queue is full")

	// ErrRelayRejected is returned by the HTTP sender for non-2xx responses.
	ErrRelayRejected = errors.New("mail relay rejected the message")

	ErrUnknownDriver = errors.New("unknown notifier driver")
)
