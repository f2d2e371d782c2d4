// Package fixtures holds the test accounts used by the login scenarios.
package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed credentials.yaml
var credentialsYAML []byte

var ErrUnknownCredentials = errors.New("unknown credentials")

type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Set maps a credential kind such as "valid" or "invalid-password" to an
// account.
type Set map[string]Credentials

// Parse reads a credential set from YAML.
func Parse(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return set, nil
}

// Default returns the built-in accounts.
func Default() Set {
	set, err := Parse(credentialsYAML)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup finds the account for kind. Spaces and underscores in kind are
// read as dashes so "invalid password" and "invalid-password" agree.
func (s Set) Lookup(kind string) (Credentials, error) {
	key := strings.ToLower(strings.TrimSpace(kind))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	c, ok := s[key]
	if !ok {
		return Credentials{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownCredentials, kind, strings.Join(s.Kinds(), ", "))
	}
	return c, nil
}

func (s Set) Kinds() []string {
	kinds := make([]string, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Lookup finds kind in the built-in accounts.
func Lookup(kind string) (Credentials, error) {
	return Default().Lookup(kind)
}
