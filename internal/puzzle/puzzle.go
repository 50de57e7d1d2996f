// internal/puzzle/puzzle.go
//
// Puzzle data model for Powiązania.
// Defines:
//   - Category: one group of 4 words with a difficulty rank (1 = easiest).
//   - Puzzle:   the day's challenge, 4 categories that partition 16 words.
//
// Validate enforces the shape the engine relies on. Puzzles arriving from the
// remote API or from a fallback file are validated before use.

package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// CategoryCount is the number of categories in every puzzle.
	CategoryCount = 4
	// WordsPerCategory is the number of words in every category.
	WordsPerCategory = 4
	// DateLayout is the day key format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
)

// ErrInvalid is returned (wrapped) by Validate.
var ErrInvalid = errors.New("invalid puzzle")

// Category is a named group of words sharing a hidden connection.
type Category struct {
	Name       string   `json:"name"`
	Words      []string `json:"words"`
	Difficulty int      `json:"difficulty"` // 1..4, unique within a puzzle
	Color      string   `json:"color"`
}

// Puzzle is one day's word-categorization challenge.
type Puzzle struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"` // YYYY-MM-DD day key
	Categories []Category `json:"categories"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// Validate checks that p has exactly 4 categories of 4 words each,
// difficulties forming {1,2,3,4}, and that no word appears twice.
func (p *Puzzle) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	if _, err := time.Parse(DateLayout, p.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalid, p.Date)
	}
	if len(p.Categories) != CategoryCount {
		return fmt.Errorf("%w: want %d categories, got %d", ErrInvalid, CategoryCount, len(p.Categories))
	}
	seenDiff := make(map[int]bool, CategoryCount)
	seenWord := make(map[string]bool, CategoryCount*WordsPerCategory)
	for i, c := range p.Categories {
		if len(c.Words) != WordsPerCategory {
			return fmt.Errorf("%w: category %d has %d words", ErrInvalid, i, len(c.Words))
		}
		if c.Difficulty < 1 || c.Difficulty > CategoryCount || seenDiff[c.Difficulty] {
			return fmt.Errorf("%w: category %d difficulty %d", ErrInvalid, i, c.Difficulty)
		}
		seenDiff[c.Difficulty] = true
		for _, w := range c.Words {
			key := strings.TrimSpace(w)
			if key == "" {
				return fmt.Errorf("%w: category %d has an empty word", ErrInvalid, i)
			}
			if seenWord[key] {
				return fmt.Errorf("%w: word %q appears twice", ErrInvalid, key)
			}
			seenWord[key] = true
		}
	}
	return nil
}

// CategoryOf returns the index of the category containing word, or -1.
func (p *Puzzle) CategoryOf(word string) int {
	for i, c := range p.Categories {
		for _, w := range c.Words {
			if w == word {
				return i
			}
		}
	}
	return -1
}

// Clone returns a deep copy so callers can stamp or mutate freely.
func (p *Puzzle) Clone() *Puzzle {
	if p == nil {
		return nil
	}
	out := *p
	out.Categories = make([]Category, len(p.Categories))
	for i, c := range p.Categories {
		c.Words = append([]string(nil), c.Words...)
		out.Categories[i] = c
	}
	return &out
}
