package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// UserRepository persists user accounts. Username and email uniqueness is
// enforced here and reported as [ErrUserAlreadyExists].
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, username, email *string) (models.User, error)
	UpdateRole(ctx context.Context, userID int64, role models.Role) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	MarkEmailVerified(ctx context.Context, userID int64) error
	// DeleteUser removes the user together with owned tasks and action
	// tokens. Tasks the user assigned to others keep existing with a nil
	// AssignedBy.
	DeleteUser(ctx context.Context, userID int64) error
}

// TaskRepository persists tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, taskID int64) (models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, taskID int64, update models.TaskUpdate) (models.Task, error)
	// ReassignTask sets owner and assigner in one write. A missing new
	// owner yields [ErrNoUserWasFound].
	ReassignTask(ctx context.Context, taskID, ownerID, assignedBy int64) (models.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
	TaskStats(ctx context.Context, ownerID *int64, now time.Time) (models.TaskStats, error)
}

// ActionTokenRepository stores at most one action token per (user, purpose).
type ActionTokenRepository interface {
	// SaveActionToken writes token into its (user, purpose) slot, replacing
	// any previous token of that slot whether consumed or not.
	SaveActionToken(ctx context.Context, token models.ActionToken) error

	// ConsumeActionToken atomically marks the token with the given digest and
	// purpose as consumed at now and returns it. Exactly one of several
	// concurrent calls for the same token succeeds; the others get
	// [ErrActionTokenConsumed]. Unknown digests or a purpose mismatch yield
	// [ErrActionTokenNotFound], an elapsed expiry [ErrActionTokenExpired].
	ConsumeActionToken(ctx context.Context, tokenHash string, purpose models.ActionPurpose, now time.Time) (models.ActionToken, error)

	// DeleteExpiredActionTokens removes tokens whose expiry is at or before
	// now and returns how many were deleted. Consumed tokens that have not
	// expired are kept.
	DeleteExpiredActionTokens(ctx context.Context, now time.Time) (int64, error)
}

// RevocationStore is the optional set of revoked session token ids (jti).
type RevocationStore interface {
	// Revoke records tokenID as revoked until expiresAt.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
