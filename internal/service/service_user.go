package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/authz"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type userService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		logger:         logger,
	}
}

func (s *userService) Profile(ctx context.Context, actor models.Identity) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, actor.UserID)
	if err != nil {
		return models.User{}, userError(ctx, err, "profile lookup failed")
	}

	return user.Public(), nil
}

// UpdateProfile changes the actor's username and/or email. At least one
// must be given; uniqueness is enforced by the repository.
func (s *userService) UpdateProfile(ctx context.Context, actor models.Identity, username, email *string) (models.User, error) {
	if username == nil && email == nil {
		return models.User{}, fmt.Errorf("%w: nothing to update", ErrInvalidDataProvided)
	}

	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			return models.User{}, fmt.Errorf("%w: empty username", ErrInvalidDataProvided)
		}
		username = &trimmed
	}
	if email != nil {
		normalized := normalizeEmail(*email)
		if normalized == "" {
			return models.User{}, fmt.Errorf("%w: empty email", ErrInvalidDataProvided)
		}
		email = &normalized
	}

	user, err := s.userRepository.UpdateProfile(ctx, actor.UserID, username, email)
	if err != nil {
		return models.User{}, userError(ctx, err, "profile update failed")
	}

	return user.Public(), nil
}

// List returns every account. Moderators and admins only.
func (s *userService) List(ctx context.Context, actor models.Identity) ([]models.User, error) {
	if !authz.CanManageUsers(actor, authz.UsersList) {
		return nil, ErrForbidden
	}

	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		return nil, userError(ctx, err, "user listing failed")
	}

	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// ChangeRole sets the role of the target account. Admins only.
func (s *userService) ChangeRole(ctx context.Context, actor models.Identity, targetUserID int64, role models.Role) (models.User, error) {
	if !authz.CanManageUsers(actor, authz.UsersChangeRole) {
		return models.User{}, ErrForbidden
	}
	if !role.IsValid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidDataProvided, role)
	}

	user, err := s.userRepository.UpdateRole(ctx, targetUserID, role)
	if err != nil {
		return models.User{}, userError(ctx, err, "role change failed")
	}

	logger.FromContext(ctx).Info().
		Int64("actor_id", actor.UserID).
		Int64("target_id", targetUserID).
		Str("role", role.String()).
		Msg("user role changed")

	return user.Public(), nil
}

// Delete removes the target account with its tasks and action tokens.
// Admins only.
func (s *userService) Delete(ctx context.Context, actor models.Identity, targetUserID int64) error {
	if !authz.CanManageUsers(actor, authz.UsersDelete) {
		return ErrForbidden
	}

	if err := s.userRepository.DeleteUser(ctx, targetUserID); err != nil {
		return userError(ctx, err, "user deletion failed")
	}

	logger.FromContext(ctx).Info().
		Int64("actor_id", actor.UserID).
		Int64("target_id", targetUserID).
		Msg("user deleted")

	return nil
}

// userError translates repository errors into service errors.
func userError(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrUserAlreadyExists):
		return fmt.Errorf("%w: %w", ErrDuplicateIdentity, err)
	default:
		logger.FromContext(ctx).Err(err).Msg(msg)
		return fmt.Errorf("%s: %w", msg, err)
	}
}
