package store

import (
	"context"
	"slices"

	"github.com/MKhiriev/go-task-keeper/models"
)

type memoryUserRepository struct {
	db *memoryDB
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.conflictLocked(0, user.Username, user.Email) {
		return models.User{}, ErrUserAlreadyExists
	}

	r.db.lastUserID++
	user.UserID = r.db.lastUserID
	user.CreatedAt = r.db.now()
	r.db.users[user.UserID] = user

	return user, nil
}

func (r *memoryUserRepository) FindUserByID(_ context.Context, userID int64) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[userID]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return user, nil
}

func (r *memoryUserRepository) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNoUserWasFound
}

func (r *memoryUserRepository) ListUsers(_ context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]models.User, 0, len(r.db.users))
	for _, user := range r.db.users {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b models.User) int {
		return compareInt64(a.UserID, b.UserID)
	})

	return users, nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, userID int64, username, email *string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[userID]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}

	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if r.conflictLocked(userID, user.Username, user.Email) {
		return models.User{}, ErrUserAlreadyExists
	}

	r.db.users[userID] = user
	return user, nil
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, userID int64, role models.Role) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[userID]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}

	user.Role = role
	r.db.users[userID] = user
	return user, nil
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	return r.update(userID, func(user *models.User) {
		user.PasswordHash = passwordHash
	})
}

func (r *memoryUserRepository) MarkEmailVerified(_ context.Context, userID int64) error {
	return r.update(userID, func(user *models.User) {
		user.EmailVerified = true
	})
}

// DeleteUser removes the user, its tasks and its action tokens, and clears
// AssignedBy on tasks it reassigned to others.
func (r *memoryUserRepository) DeleteUser(_ context.Context, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[userID]; !ok {
		return ErrNoUserWasFound
	}
	delete(r.db.users, userID)

	for id, task := range r.db.tasks {
		switch {
		case task.OwnerID == userID:
			delete(r.db.tasks, id)
		case task.AssignedBy != nil && *task.AssignedBy == userID:
			task.AssignedBy = nil
			r.db.tasks[id] = task
		}
	}

	for slot, token := range r.db.tokens {
		if slot.userID == userID {
			delete(r.db.tokenHashes, token.TokenHash)
			delete(r.db.tokens, slot)
		}
	}

	return nil
}

func (r *memoryUserRepository) update(userID int64, fn func(user *models.User)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[userID]
	if !ok {
		return ErrNoUserWasFound
	}
	fn(&user)
	r.db.users[userID] = user

	return nil
}

// conflictLocked reports whether another user than exceptID already holds
// username or email.
func (r *memoryUserRepository) conflictLocked(exceptID int64, username, email string) bool {
	for id, user := range r.db.users {
		if id == exceptID {
			continue
		}
		if user.Username == username || user.Email == email {
			return true
		}
	}
	return false
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
