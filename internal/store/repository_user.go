package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account persistence against the "users" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with the
// server-assigned UserID and CreatedAt.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUserAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, string(user.Role), user.EmailVerified)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrUserAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return created, nil
}

// FindUserByID retrieves the user with the given id or [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByEmail retrieves the user with the given email or [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	err := r.db.withRetry(ctx, func() error {
		row := r.db.QueryRowContext(ctx, query, arg)
		if err := row.Err(); err != nil {
			return err
		}

		user, err := scanUser(row)
		if err != nil {
			return err
		}
		found = user
		return nil
	})

	switch {
	case err == nil:
		return found, nil
	case errors.Is(err, ErrNoUserWasFound):
		return models.User{}, ErrNoUserWasFound
	default:
		log.Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}
}

// ListUsers returns every account ordered by id.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listUsers)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to execute query for listing users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.ListUsers").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.ListUsers").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return users, nil
}

// UpdateProfile changes username and/or email. Nil arguments are left as is;
// with both nil the current record is returned unchanged.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, username, email *string) (models.User, error) {
	if username == nil && email == nil {
		return r.FindUserByID(ctx, userID)
	}

	log := logger.FromContext(ctx).With().Int64("user_id", userID).Logger()

	query, args, err := buildUpdateProfileQuery(userID, username, email)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("failed to create query")
		return models.User{}, err
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error updating profile")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrUserAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	updated, err := scanUser(row)
	if err != nil {
		if !errors.Is(err, ErrNoUserWasFound) {
			log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error: scanning error")
		}
		return models.User{}, err
	}

	return updated, nil
}

// UpdateRole stores the new role of the user and returns the updated record.
func (r *userRepository) UpdateRole(ctx context.Context, userID int64, role models.Role) (models.User, error) {
	log := logger.FromContext(ctx)

	var updated models.User
	err := r.db.withRetry(ctx, func() error {
		row := r.db.QueryRowContext(ctx, updateUserRole, userID, string(role))
		if err := row.Err(); err != nil {
			return err
		}

		user, err := scanUser(row)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, ErrNoUserWasFound):
		return models.User{}, ErrNoUserWasFound
	default:
		log.Err(err).Str("func", "*userRepository.UpdateRole").Int64("user_id", userID).Msg("error updating role")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.execAffectingUser(ctx, "*userRepository.UpdatePassword", updateUserPassword, userID, passwordHash)
}

// MarkEmailVerified sets email_verified. Marking an already verified user
// is not an error.
func (r *userRepository) MarkEmailVerified(ctx context.Context, userID int64) error {
	return r.execAffectingUser(ctx, "*userRepository.MarkEmailVerified", markUserEmailVerified, userID)
}

// DeleteUser removes the user. Owned tasks and action tokens go with it
// through ON DELETE CASCADE, assigned_by references are nulled.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	return r.execAffectingUser(ctx, "*userRepository.DeleteUser", deleteUser, userID)
}

// execAffectingUser executes an idempotent statement keyed by user_id and
// reports [ErrNoUserWasFound] when no row was affected.
func (r *userRepository) execAffectingUser(ctx context.Context, funcName, query string, userID int64, args ...any) error {
	log := logger.FromContext(ctx)

	var affected int64
	err := r.db.withRetry(ctx, func() error {
		result, err := r.db.ExecContext(ctx, query, append([]any{userID}, args...)...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", funcName).Int64("user_id", userID).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.EmailVerified,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return user, nil
}
