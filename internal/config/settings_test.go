package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, EngineJSON, s.Store.Engine)
	assert.Equal(t, "finquest.json", filepath.Base(s.Store.Path))
	assert.Equal(t, "default", s.User)
	assert.NoError(t, s.Validate())
}

func TestSettings_WithEnv(t *testing.T) {
	s := DefaultSettings().WithEnv(envMap(map[string]string{
		EnvStoreEngine: "sqlite",
		EnvUser:        "asha",
		EnvTimezone:    "UTC",
	}))
	assert.Equal(t, EngineSQLite, s.Store.Engine)
	assert.Equal(t, "finquest.db", filepath.Base(s.Store.Path), "sqlite engine gets a database path")
	assert.Equal(t, "asha", s.User)

	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	s = DefaultSettings().WithEnv(envMap(map[string]string{
		EnvStoreEngine: "sqlite",
		EnvStorePath:   "/tmp/custom.db",
	}))
	assert.Equal(t, "/tmp/custom.db", s.Store.Path)

	unchanged := DefaultSettings().WithEnv(envMap(map[string]string{EnvUser: ""}))
	assert.Equal(t, DefaultSettings(), unchanged, "empty values are ignored")
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	s.Store.Engine = "mongo"
	assert.ErrorContains(t, s.Validate(), "unsupported store engine")

	s = DefaultSettings()
	s.Store.Path = ""
	assert.ErrorContains(t, s.Validate(), "store.path is required")

	s = DefaultSettings()
	s.Store = StoreSettings{Engine: EngineMemory}
	assert.NoError(t, s.Validate(), "memory engine needs no path")

	s = DefaultSettings()
	s.Timezone = "Mars/Olympus_Mons"
	assert.ErrorContains(t, s.Validate(), "invalid timezone")

	s = DefaultSettings()
	s.User = " "
	assert.ErrorContains(t, s.Validate(), "user is required")
}

func TestInputParser_LoadSettings(t *testing.T) {
	t.Setenv(EnvStoreEngine, "")
	t.Setenv(EnvStorePath, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvTimezone, "")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  engine: memory\nuser: ravi\ntimezone: UTC\n"), 0644))

	s, err := NewInputParser().LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, EngineMemory, s.Store.Engine)
	assert.Equal(t, "ravi", s.User)
	assert.Equal(t, "UTC", s.Timezone)

	t.Setenv(EnvUser, "meera")
	s, err = NewInputParser().LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "meera", s.User, "environment overrides the file")

	_, err = NewInputParser().LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	s, err = NewInputParser().LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, EngineJSON, s.Store.Engine)
}
