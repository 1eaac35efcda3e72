package config

import (
	"fmt"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
)

// Loader reads the rules file and constructs the catalog
type Loader struct {
	RulesPath string
}

// Components holds the loaded catalog and where it came from
type Components struct {
	Catalog *catalog.Catalog
	Source  string
}

// Load builds the catalog from RulesPath, or from the embedded rules when
// RulesPath is empty.
func (l *Loader) Load() (*Components, error) {
	if l.RulesPath == "" {
		cat, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		return &Components{Catalog: cat, Source: "embedded"}, nil
	}

	entries, err := LoadRules(l.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	cat, err := catalog.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return &Components{Catalog: cat, Source: l.RulesPath}, nil
}
