package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override settings file values
const (
	EnvStoreEngine = "FINQUEST_STORE_ENGINE"
	EnvStorePath   = "FINQUEST_STORE_PATH"
	EnvUser        = "FINQUEST_USER"
	EnvTimezone    = "FINQUEST_TZ"
)

// Store engine names
const (
	EngineMemory = "memory"
	EngineJSON   = "json"
	EngineSQLite = "sqlite"
)

// StoreSettings selects the persistence engine
type StoreSettings struct {
	Engine string `yaml:"engine"`
	Path   string `yaml:"path"`
}

// Settings are the runtime options of the CLI and TUI
type Settings struct {
	Store       StoreSettings `yaml:"store"`
	Timezone    string        `yaml:"timezone"`
	CatalogPath string        `yaml:"catalog_path"`
	User        string        `yaml:"user"`
}

// DefaultSettings keeps data under ~/.finquest in a JSON file
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			Engine: EngineJSON,
			Path:   defaultDataPath("finquest.json"),
		},
		Timezone: "Local",
		User:     "default",
	}
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".finquest", name)
	}
	return filepath.Join(home, ".finquest", name)
}

// LoadSettings reads settings from filename over the defaults, then applies
// environment overrides. A missing file is not an error when filename is empty.
func (ip *InputParser) LoadSettings(filename string) (Settings, error) {
	s := DefaultSettings()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	s = s.WithEnv(os.LookupEnv)
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

// WithEnv returns a copy with any set FINQUEST_* variables applied
func (s Settings) WithEnv(lookup func(string) (string, bool)) Settings {
	if v, ok := lookup(EnvStoreEngine); ok && v != "" {
		s.Store.Engine = v
		if p, _ := lookup(EnvStorePath); p == "" && strings.EqualFold(v, EngineSQLite) {
			s.Store.Path = defaultDataPath("finquest.db")
		}
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		s.Store.Path = v
	}
	if v, ok := lookup(EnvUser); ok && v != "" {
		s.User = v
	}
	if v, ok := lookup(EnvTimezone); ok && v != "" {
		s.Timezone = v
	}
	return s
}

// Validate checks the engine name, path and timezone
func (s Settings) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Store.Engine)) {
	case EngineMemory:
	case EngineJSON, EngineSQLite:
		if strings.TrimSpace(s.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the %s engine", s.Store.Engine)
		}
	default:
		return fmt.Errorf("unsupported store engine %q", s.Store.Engine)
	}
	if strings.TrimSpace(s.User) == "" {
		return errors.New("user is required")
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used to decide "today"
func (s Settings) Location() (*time.Location, error) {
	switch s.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
