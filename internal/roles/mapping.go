// Package roles loads the industry role mapping and draws randomized generation inputs from it.
package roles

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jonathan/ats-resume-generator/internal/schemas"
)

//go:embed role_mapping.json
var defaultMapping []byte

// DefaultPath is read when no mapping path is configured
const DefaultPath = "data/role_mapping.json"

// Tier describes the role pools and weights for one industry
type Tier struct {
	Primary   []string   `json:"primary"`
	Secondary []string   `json:"secondary"`
	Weights   [2]float64 `json:"weights"`
}

// Mapping is the read-only industry -> roles table
type Mapping struct {
	industries map[string]Tier
	names      []string
}

// ConfigError reports missing or malformed role mapping data
type ConfigError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("role mapping %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("role mapping %s: %s", e.Source, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Default returns the mapping compiled into the binary.
func Default() *Mapping {
	m, err := Parse(defaultMapping, "(embedded)")
	if err != nil {
		panic(fmt.Sprintf("embedded role mapping is invalid: %v", err))
	}
	return m
}

// Load reads a mapping from disk.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data, path)
}

// LoadOrDefault reads an explicitly configured path and fails when it is missing.
// With no path it reads DefaultPath if present, else the embedded mapping.
func LoadOrDefault(path string) (*Mapping, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	return Default(), nil
}

// Parse validates and decodes a mapping document.
func Parse(data []byte, source string) (*Mapping, error) {
	if err := schemas.ValidateRoleMapping(data); err != nil {
		return nil, &ConfigError{Source: source, Message: "schema validation failed", Cause: err}
	}

	var industries map[string]Tier
	if err := json.Unmarshal(data, &industries); err != nil {
		return nil, &ConfigError{Source: source, Message: "failed to parse JSON", Cause: err}
	}

	return New(industries, source)
}

// New builds a mapping from already-decoded tiers.
func New(industries map[string]Tier, source string) (*Mapping, error) {
	if len(industries) == 0 {
		return nil, &ConfigError{Source: source, Message: "no industries defined"}
	}

	names := make([]string, 0, len(industries))
	for name, tier := range industries {
		if len(tier.Primary) == 0 || len(tier.Secondary) == 0 {
			return nil, &ConfigError{Source: source, Message: fmt.Sprintf("industry %q has an empty role pool", name)}
		}
		if tier.Weights[0] < 0 || tier.Weights[1] < 0 || tier.Weights[0]+tier.Weights[1] <= 0 {
			return nil, &ConfigError{Source: source, Message: fmt.Sprintf("industry %q needs non-negative weights with a positive sum", name)}
		}
		names = append(names, name)
	}
	// Stable order so seeded runs are reproducible
	sort.Strings(names)

	return &Mapping{industries: industries, names: names}, nil
}

// Industries returns the industry names in sorted order.
func (m *Mapping) Industries() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Tier returns the tier definition for an industry.
func (m *Mapping) Tier(industry string) (Tier, bool) {
	t, ok := m.industries[industry]
	return t, ok
}
