package store

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

type tokenSlot struct {
	userID  int64
	purpose models.ActionPurpose
}

// memoryDB is the shared state behind the in-memory repositories. A single
// mutex guards all tables so that user deletion can cascade atomically.
type memoryDB struct {
	mu sync.RWMutex

	users  map[int64]models.User
	tasks  map[int64]models.Task
	tokens map[tokenSlot]models.ActionToken
	// tokenHashes indexes tokens by digest.
	tokenHashes map[string]tokenSlot

	lastUserID  int64
	lastTaskID  int64
	lastTokenID int64

	now func() time.Time
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:       make(map[int64]models.User),
		tasks:       make(map[int64]models.Task),
		tokens:      make(map[tokenSlot]models.ActionToken),
		tokenHashes: make(map[string]tokenSlot),
		now:         time.Now,
	}
}

// MemoryStorage bundles the in-memory repositories. It is used when no
// database DSN is configured and in tests.
type MemoryStorage struct {
	Users        UserRepository
	Tasks        TaskRepository
	ActionTokens ActionTokenRepository
}

// NewMemoryStorage creates empty in-memory repositories sharing one dataset.
func NewMemoryStorage() *MemoryStorage {
	db := newMemoryDB()
	return &MemoryStorage{
		Users:        &memoryUserRepository{db: db},
		Tasks:        &memoryTaskRepository{db: db},
		ActionTokens: &memoryActionTokenRepository{db: db},
	}
}

func cloneTask(t models.Task) models.Task {
	t.Tags = append(make([]string, 0, len(t.Tags)), t.Tags...)
	if t.AssignedBy != nil {
		id := *t.AssignedBy
		t.AssignedBy = &id
	}
	return t
}
