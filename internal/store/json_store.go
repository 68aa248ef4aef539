package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rgehrsitz/finquest/internal/domain"
)

const fileVersion = 1

type fileState struct {
	Version int                          `json:"version"`
	Users   map[string]domain.UserRecord `json:"users"`
}

// JSONStore keeps every user in one JSON document, rewritten atomically on
// each save
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
	closed   bool
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	if filePath == "" {
		return nil, errors.New("json store: path is required")
	}
	s := &JSONStore{
		filePath: filePath,
		state: fileState{
			Version: fileVersion,
			Users:   make(map[string]domain.UserRecord),
		},
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("json store %s: %w", filePath, err)
	}
	return s, nil
}

func (s *JSONStore) LoadUser(ctx context.Context, id string) (domain.UserRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserRecord{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.UserRecord{}, false, ErrClosed
	}
	u, ok := s.state.Users[id]
	if !ok {
		return domain.UserRecord{}, false, nil
	}
	return u.Clone(), true, nil
}

func (s *JSONStore) SaveUser(ctx context.Context, user domain.UserRecord) error {
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
	prev, existed := s.state.Users[user.ID]
	s.state.Users[user.ID] = user.Clone()
	if err := s.persistLocked(); err != nil {
		if existed {
			s.state.Users[user.ID] = prev
		} else {
			delete(s.state.Users, user.ID)
		}
		return err
	}
	return nil
}

func (s *JSONStore) ListUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return sortedKeys(s.state.Users), nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if state.Version > fileVersion {
		return fmt.Errorf("unsupported file version %d", state.Version)
	}
	if state.Users == nil {
		state.Users = make(map[string]domain.UserRecord)
	}
	for id, u := range state.Users {
		u.Gamification = u.Gamification.Clone()
		state.Users[id] = u
	}
	state.Version = fileVersion
	s.state = state
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
