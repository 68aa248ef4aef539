package store

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/finquest/internal/config"
)

// NewByEngine opens the store named by engine at path
func NewByEngine(engine string, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case config.EngineMemory:
		return NewMemoryStore(), nil
	case "", config.EngineJSON:
		return NewJSONStore(path)
	case config.EngineSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store engine: %s", engine)
	}
}

// Open opens the store described by settings
func Open(s config.StoreSettings) (Store, error) {
	return NewByEngine(s.Engine, s.Path)
}
