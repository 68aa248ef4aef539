package config

import (
	_ "embed"
	"fmt"

	"github.com/rgehrsitz/finquest/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns a fresh copy of the built-in catalog
func DefaultCatalog() (*domain.Catalog, error) {
	catalog, err := NewInputParser().ParseCatalog(defaultCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return catalog, nil
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot recover
func MustDefaultCatalog() *domain.Catalog {
	catalog, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadCatalogOrDefault loads the catalog at path, or the built-in one when
// path is empty
func LoadCatalogOrDefault(path string) (*domain.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	return NewInputParser().LoadCatalog(path)
}
