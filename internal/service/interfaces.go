package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

// AuthService runs the account flows: registration, login, email
// verification, password reset and logout.
type AuthService interface {
	// Register creates an unverified user with role user, sends a
	// verification email and returns the user together with a session token.
	Register(ctx context.Context, username, email, password string) (models.User, models.Token, error)
	Login(ctx context.Context, email, password string) (models.User, models.Token, error)
	// VerifyCredentials returns the user for a matching email and password.
	// Unknown email and wrong password both yield [ErrInvalidCredentials].
	VerifyCredentials(ctx context.Context, email, password string) (models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, actor models.Identity) error
	// ForgotPassword sends a reset email. It succeeds silently for an
	// unknown email.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context, actor models.Identity) error
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(ctx context.Context, user models.User) (models.Token, error)
	// Verify returns the identity carried by a valid token, or
	// [ErrTokenExpired] / [ErrTokenInvalid].
	Verify(ctx context.Context, tokenString string) (models.Identity, error)
	// Revoke rejects the identity's token for the rest of its lifetime.
	Revoke(ctx context.Context, identity models.Identity) error
}

// ActionTokenService manages single-use tokens delivered by email.
type ActionTokenService interface {
	IssueVerificationToken(ctx context.Context, userID int64) (string, error)
	IssueResetToken(ctx context.Context, userID int64) (string, error)
	// Redeem consumes token for purpose and returns its user id.
	Redeem(ctx context.Context, token string, purpose models.ActionPurpose) (int64, error)
}

// UserService manages profiles and, for privileged actors, other accounts.
type UserService interface {
	Profile(ctx context.Context, actor models.Identity) (models.User, error)
	UpdateProfile(ctx context.Context, actor models.Identity, username, email *string) (models.User, error)
	List(ctx context.Context, actor models.Identity) ([]models.User, error)
	ChangeRole(ctx context.Context, actor models.Identity, targetUserID int64, role models.Role) (models.User, error)
	Delete(ctx context.Context, actor models.Identity, targetUserID int64) error
}

// TaskService exposes task operations gated by the authorization rules.
type TaskService interface {
	Create(ctx context.Context, actor models.Identity, task models.Task) (models.Task, error)
	List(ctx context.Context, actor models.Identity, filter models.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, actor models.Identity, taskID int64) (models.Task, error)
	Update(ctx context.Context, actor models.Identity, taskID int64, update models.TaskUpdate) (models.Task, error)
	Delete(ctx context.Context, actor models.Identity, taskID int64) error
	Reassign(ctx context.Context, actor models.Identity, taskID, newOwnerID int64) (models.Task, error)
	Stats(ctx context.Context, actor models.Identity) (models.TaskStats, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
