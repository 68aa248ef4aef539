package store

import (
	"context"
	"errors"

	"github.com/rgehrsitz/finquest/internal/domain"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// Store persists one record per user. Callers hold exclusive access to a
// user for the duration of a load-modify-save cycle.
type Store interface {
	LoadUser(ctx context.Context, id string) (domain.UserRecord, bool, error)
	SaveUser(ctx context.Context, user domain.UserRecord) error
	ListUsers(ctx context.Context) ([]string, error)
	Close() error
}
