package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a process-local CredentialStore. It is used by tests and
// by the binary when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]*User{}}
}

// FindByUsername returns a copy of the record or ErrMemberNotFound
func (m *MemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return cloneUser(user), nil
}

// Save inserts a new record. Usernames are unique.
func (m *MemoryStore) Save(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return nil, ErrDuplicateIdentity
	}

	record := cloneUser(user)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.users[record.Username] = record

	return cloneUser(record), nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Authorities = append([]Authority(nil), u.Authorities...)
	return &c
}
