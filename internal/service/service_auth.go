package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/notify"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// MinPasswordLength is the shortest accepted raw password.
const MinPasswordLength = 6

// authService is the concrete implementation of AuthService.
// Passwords are hashed with bcrypt; session tokens come from a TokenService
// and email tokens from an ActionTokenService.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	tokens       TokenService
	actionTokens ActionTokenService

	// notifier delivers emails. Failures are logged and never fail the
	// triggering operation.
	notifier notify.Notifier

	// bcryptCost is the work factor for new password hashes.
	bcryptCost int

	// dummyHash is compared against for unknown emails. It shares
	// bcryptCost with real hashes so both failures take the same time.
	dummyHash string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	tokens TokenService,
	actionTokens ActionTokenService,
	notifier notify.Notifier,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	dummyHash, err := utils.DummyPasswordHash(cfg.BcryptCost)
	if err != nil {
		logger.Err(err).Str("func", "NewAuthService").Msg("error creating dummy password hash")
	}

	return &authService{
		userRepository: userRepository,
		tokens:         tokens,
		actionTokens:   actionTokens,
		notifier:       notifier,
		bcryptCost:     cfg.BcryptCost,
		dummyHash:      dummyHash,
		logger:         logger,
	}
}

// Register creates a new user account.
//
// Returns the persisted user (with a server-assigned UserID) and a session
// token, or:
//   - ErrInvalidDataProvided if a field is empty or the password is too short.
//   - ErrDuplicateIdentity if the username or email is taken.
//
// A verification token is issued and emailed on success. Failing to do so
// is logged and does not fail the registration.
func (a *authService) Register(ctx context.Context, username, email, password string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || len(password) < MinPasswordLength {
		log.Error().Str("username", username).Str("email", email).Msg("invalid user data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	passwordHash, err := utils.HashPassword(password, a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, models.Token{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	})
	if errors.Is(err, store.ErrUserAlreadyExists) {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrDuplicateIdentity, err)
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	if err = a.sendVerification(ctx, user); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("verification token was not issued")
	}

	token, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user.Public(), token, nil
}

// Login verifies the credentials and issues a session token.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, models.Token, error) {
	user, err := a.VerifyCredentials(ctx, email, password)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	token, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user.Public(), token, nil
}

// VerifyCredentials looks the account up by email and compares the
// password hash. An unknown email still runs a bcrypt comparison so that
// both failures take the same time and return the same error.
func (a *authService) VerifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNoUserWasFound) {
		_ = utils.ComparePassword(a.dummyHash, password)
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	err = utils.ComparePassword(user.PasswordHash, password)
	if errors.Is(err, utils.ErrPasswordMismatch) {
		log.Debug().Int64("id", user.UserID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("password comparison failed")
		return models.User{}, fmt.Errorf("password comparison failed: %w", err)
	}

	return user, nil
}

// VerifyEmail redeems a verify-email token and marks its user verified.
func (a *authService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := a.actionTokens.Redeem(ctx, token, models.PurposeVerifyEmail)
	if err != nil {
		return err
	}

	err = a.userRepository.MarkEmailVerified(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("marking email verified failed")
		return fmt.Errorf("error marking email verified: %w", err)
	}

	return nil
}

// ResendVerification replaces the actor's verification token and emails
// the new one. A verified account yields ErrAlreadyVerified.
func (a *authService) ResendVerification(ctx context.Context, actor models.Identity) error {
	user, err := a.userRepository.FindUserByID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	return a.sendVerification(ctx, user)
}

// ForgotPassword issues a reset token for the account registered under
// email and sends it. Unknown emails are not reported.
func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, err := a.actionTokens.IssueResetToken(ctx, user.UserID)
	if err != nil {
		return err
	}

	if err = a.notifier.SendPasswordResetEmail(ctx, user, token); err != nil {
		log.Warn().Err(err).Int64("user_id", user.UserID).Msg("password reset email was not sent")
	}

	return nil
}

// ResetPassword redeems a reset-password token and stores the new
// password. The password is checked first so a short one does not burn
// the token.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, MinPasswordLength)
	}

	userID, err := a.actionTokens.Redeem(ctx, token, models.PurposeResetPassword)
	if err != nil {
		return err
	}

	passwordHash, err := utils.HashPassword(newPassword, a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = a.userRepository.UpdatePassword(ctx, userID, passwordHash)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("password update failed")
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}

// Logout revokes the token the actor authenticated with.
func (a *authService) Logout(ctx context.Context, actor models.Identity) error {
	return a.tokens.Revoke(ctx, actor)
}

func (a *authService) sendVerification(ctx context.Context, user models.User) error {
	token, err := a.actionTokens.IssueVerificationToken(ctx, user.UserID)
	if err != nil {
		return err
	}

	if err = a.notifier.SendVerificationEmail(ctx, user, token); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int64("user_id", user.UserID).Msg("verification email was not sent")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
