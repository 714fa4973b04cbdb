// Package settings holds the user-editable wildlife limit and its persistence.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Bounds and default for the wild animal limit.
const (
	DefaultMaxWildAnimals = 100
	MinWildAnimals        = 0
	MaxWildAnimals        = 1000
)

// Category is the settings page title.
const Category = "Wildlife Control"

// Key is the persisted name of the limit.
const Key = "maxWildAnimals"

// ErrNotFound is returned by a Store when a key has never been saved.
var ErrNotFound = errors.New("settings: key not found")

// Store is a string key/value backend (the world database in production).
type Store interface {
	GetMeta(key string) (string, error)
	SaveMeta(key, value string) error
}

// Clamp forces n into [MinWildAnimals, MaxWildAnimals].
func Clamp(n int) int {
	if n < MinWildAnimals {
		return MinWildAnimals
	}
	if n > MaxWildAnimals {
		return MaxWildAnimals
	}
	return n
}

// Settings is safe for concurrent use: the tick loop reads while the API writes.
type Settings struct {
	mu             sync.RWMutex
	maxWildAnimals int
}

// New returns settings holding n, clamped.
func New(n int) *Settings {
	return &Settings{maxWildAnimals: Clamp(n)}
}

// Default returns settings at the default limit.
func Default() *Settings {
	return New(DefaultMaxWildAnimals)
}

// MaxWildAnimals returns the current limit.
func (s *Settings) MaxWildAnimals() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxWildAnimals
}

// SetMaxWildAnimals stores n clamped into bounds and returns the stored value.
func (s *Settings) SetMaxWildAnimals(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxWildAnimals = Clamp(n)
	return s.maxWildAnimals
}

// RestoreDefaults resets the limit to DefaultMaxWildAnimals.
func (s *Settings) RestoreDefaults() {
	s.SetMaxWildAnimals(DefaultMaxWildAnimals)
}

// Label is the caption shown next to the limit control.
func (s *Settings) Label() string {
	return fmt.Sprintf("Max Wild Animals: %d", s.MaxWildAnimals())
}

// Load reads the limit from store. A missing key yields the default; an
// unparsable value is an error.
func Load(store Store) (*Settings, error) {
	raw, err := store.GetMeta(Key)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", Key, err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s=%q: %w", Key, raw, err)
	}
	return New(n), nil
}

// Save writes the current limit to store.
func Save(store Store, s *Settings) error {
	if err := store.SaveMeta(Key, strconv.Itoa(s.MaxWildAnimals())); err != nil {
		return fmt.Errorf("save %s: %w", Key, err)
	}
	return nil
}
