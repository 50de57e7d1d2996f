// internal/fallback/fallback.go
//
// Provides the static puzzle served when the remote API is unavailable.
//
// Loading behavior (New):
//   1. If a path is given (FALLBACK_PUZZLE_FILE), read the puzzle JSON from disk.
//   2. Otherwise use the puzzle embedded in the assets package.
//
// The loaded puzzle is validated once. ForDate hands out a copy stamped with
// the requested day key so the embedded content never changes.

package fallback

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pollar/powiazania/assets"
	"github.com/pollar/powiazania/internal/puzzle"
)

// Source serves the fallback puzzle.
type Source struct {
	base *puzzle.Puzzle
}

var (
	defaultOnce sync.Once
	defaultSrc  *Source
	defaultErr  error
)

// New loads the fallback puzzle from path, or from the embedded asset when
// path is empty.
func New(path string) (*Source, error) {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = assets.FallbackPuzzle()
	}
	if err != nil {
		return nil, fmt.Errorf("fallback: read puzzle: %w", err)
	}
	var p puzzle.Puzzle
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("fallback: decode puzzle: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	return &Source{base: &p}, nil
}

// Default returns the embedded fallback source, loaded once.
func Default() (*Source, error) {
	defaultOnce.Do(func() {
		defaultSrc, defaultErr = New("")
	})
	return defaultSrc, defaultErr
}

// ForDate returns a copy of the fallback puzzle stamped with date.
func (s *Source) ForDate(date string) *puzzle.Puzzle {
	p := s.base.Clone()
	p.Date = date
	return p
}
