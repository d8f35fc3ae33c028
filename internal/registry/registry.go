// Package registry loads and exposes the static list of configured SimpleTask
// projects (tenants). The list is immutable once loaded; identity is the
// internal project key, and the first entry is the implicit default tenant.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common errors.
var (
	ErrNoProjects = errors.New("no projects configured")
)

// Definition is one configured tenant: a customer workspace with its own
// credentials and remote project identifier.
type Definition struct {
	// Name is the human-readable display name.
	Name string `json:"name" koanf:"name"`

	// Key is the internal project key and the definition's identity.
	Key string `json:"projectName" koanf:"key"`

	// APIKey is the bearer credential for the remote API.
	APIKey string `json:"apiKey" koanf:"api_key"`

	// ProjectID is the remote project identifier used in request paths.
	ProjectID string `json:"projectId" koanf:"project_id"`

	// Description is optional free text, also matched by FindByIdentifier.
	Description string `json:"description,omitempty" koanf:"description"`
}

// Validate checks that the definition carries everything a call needs.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("project missing name")
	}
	if d.Key == "" {
		return fmt.Errorf("project %q missing key", d.Name)
	}
	if d.APIKey == "" {
		return fmt.Errorf("project %q missing api key", d.Name)
	}
	if d.ProjectID == "" {
		return fmt.Errorf("project %q missing remote project id", d.Name)
	}
	return nil
}

// Registry holds the loaded tenant list. Safe for concurrent reads; never
// mutated after construction.
type Registry struct {
	defs []Definition
}

// New builds a registry from definitions. Zero entries is a configuration
// error: the adapter cannot function without at least one tenant.
func New(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, ErrNoProjects
	}
	seen := make(map[string]struct{}, len(defs))
	for i, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		key := strings.ToLower(d.Key)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("projects[%d]: duplicate key %q", i, d.Key)
		}
		seen[key] = struct{}{}
	}
	out := make([]Definition, len(defs))
	copy(out, defs)
	return &Registry{defs: out}, nil
}

// LoadDefinitions reads a JSON array of project definitions, matching the
// standalone projects.json shape.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}
	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse projects file %s: %w", path, err)
	}
	return defs, nil
}

// LoadFile reads and validates a projects.json file into a registry.
func LoadFile(path string) (*Registry, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return nil, err
	}
	return New(defs)
}

// All returns the loaded definitions in configuration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of configured tenants.
func (r *Registry) Len() int { return len(r.defs) }

// Default returns the first configured tenant, the implicit default.
func (r *Registry) Default() Definition { return r.defs[0] }

// Names returns the display names in configuration order, for error messages.
func (r *Registry) Names() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Name
	}
	return out
}

// FindByIdentifier returns the projects matching a free-form identifier.
//
// A case-insensitive exact match on key or display name wins: when any exact
// match exists, only exact matches are returned. Otherwise the result is the
// set of projects whose name, key, or description contains the identifier or
// is contained by it, case-insensitively.
func (r *Registry) FindByIdentifier(text string) []Definition {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}

	var exact []Definition
	for _, d := range r.defs {
		if strings.EqualFold(d.Key, needle) || strings.EqualFold(d.Name, needle) {
			exact = append(exact, d)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var fuzzy []Definition
	for _, d := range r.defs {
		if containsEither(d.Name, needle) || containsEither(d.Key, needle) || containsEither(d.Description, needle) {
			fuzzy = append(fuzzy, d)
		}
	}
	return fuzzy
}

// containsEither reports whether either string contains the other,
// case-insensitively. Empty haystacks never match.
func containsEither(field, needle string) bool {
	if field == "" {
		return false
	}
	f := strings.ToLower(field)
	return strings.Contains(f, needle) || strings.Contains(needle, f)
}
