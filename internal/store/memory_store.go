package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rgehrsitz/finquest/internal/domain"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]domain.UserRecord
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]domain.UserRecord)}
}

func (s *MemoryStore) LoadUser(ctx context.Context, id string) (domain.UserRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserRecord{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.UserRecord{}, false, ErrClosed
	}
	u, ok := s.users[id]
	if !ok {
		return domain.UserRecord{}, false, nil
	}
	return u.Clone(), true, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user domain.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.ID == "" {
		return errors.New("user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return sortedKeys(s.users), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sortedKeys(users map[string]domain.UserRecord) []string {
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
