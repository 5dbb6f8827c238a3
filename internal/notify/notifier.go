package notify

//go:generate mockgen -source=notifier.go -destination=../mock/notifier_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

// Notifier sends the emails triggered by account and task operations.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, user models.User, token string) error
	SendPasswordResetEmail(ctx context.Context, user models.User, token string) error
	SendTaskAssignmentEmail(ctx context.Context, user models.User, task models.Task, assigner models.User) error
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type emailNotifier struct {
	composer composer
	sender   Sender
}

// NewNotifier returns a [Notifier] rendering messages from the given sender
// address with links to frontendURL and passing them to sender.
func NewNotifier(sender Sender, from, frontendURL string) Notifier {
	return &emailNotifier{
		composer: newComposer(from, frontendURL),
		sender:   sender,
	}
}

func (n *emailNotifier) SendVerificationEmail(ctx context.Context, user models.User, token string) error {
	return n.sender.Send(ctx, n.composer.verification(user, token))
}

func (n *emailNotifier) SendPasswordResetEmail(ctx context.Context, user models.User, token string) error {
	return n.sender.Send(ctx, n.composer.passwordReset(user, token))
}

func (n *emailNotifier) SendTaskAssignmentEmail(ctx context.Context, user models.User, task models.Task, assigner models.User) error {
	return n.sender.Send(ctx, n.composer.taskAssignment(user, task, assigner))
}
