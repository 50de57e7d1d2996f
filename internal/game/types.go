// internal/game/types.go
//
// Core type definitions for the Powiązania session engine.
// Defines:
//   - Status:  playing → won/lost.
//   - Word:    one of the 16 tiles, with selection/solved flags.
//   - Guess:   an immutable record of one submitted 4-word attempt.
//   - Session: the aggregate persisted under the fixed storage key.

package game

import (
	"errors"
	"fmt"

	"github.com/pollar/powiazania/internal/puzzle"
)

// ErrInvalidSession is returned (wrapped) by Session.Validate.
var ErrInvalidSession = errors.New("invalid session")

// Status is the coarse lifecycle state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

const (
	// MaxMistakes is the number of incorrect guesses that ends a session.
	MaxMistakes = 4
	// SelectionSize is both the selection cap and the guess size.
	SelectionSize = 4
)

// Word is a playable tile derived from a puzzle at session init.
type Word struct {
	ID            string `json:"id"` // "{categoryIndex}-{wordIndex}"
	Text          string `json:"text"`
	CategoryIndex int    `json:"categoryIndex"`
	IsSelected    bool   `json:"isSelected"`
	IsSolved      bool   `json:"isSolved"`
}

// Guess records one submitted attempt. CategoryIndex is nil when incorrect.
type Guess struct {
	Words         []string `json:"words"`
	IsCorrect     bool     `json:"isCorrect"`
	CategoryIndex *int     `json:"categoryIndex"`
	IsOneAway     bool     `json:"isOneAway"`
}

// Session holds the state of the single in-flight Powiązania game.
type Session struct {
	ID                string         `json:"id"`
	Puzzle            *puzzle.Puzzle `json:"puzzle"`
	Words             []Word         `json:"words"`
	SelectedWordIDs   []string       `json:"selectedWordIds"`
	SolvedCategories  []int          `json:"solvedCategories"` // in solve order
	Guesses           []Guess        `json:"guesses"`
	Mistakes          int            `json:"mistakes"`
	MaxMistakes       int            `json:"maxMistakes"`
	Status            Status         `json:"status"`
	HintUsed          bool           `json:"hintUsed"`
	HintCategoryIndex *int           `json:"hintCategoryIndex"`
	IsLoading         bool           `json:"isLoading"`
	IsMock            bool           `json:"isMock"`
}

// BuildWords derives the 16 tiles from p in category order.
func BuildWords(p *puzzle.Puzzle) []Word {
	out := make([]Word, 0, len(p.Categories)*puzzle.WordsPerCategory)
	for ci, c := range p.Categories {
		for wi, text := range c.Words {
			out = append(out, Word{
				ID:            fmt.Sprintf("%d-%d", ci, wi),
				Text:          text,
				CategoryIndex: ci,
			})
		}
	}
	return out
}

// ActiveWords returns the tiles that are not yet solved, in display order.
func (s *Session) ActiveWords() []Word {
	out := make([]Word, 0, len(s.Words))
	for _, w := range s.Words {
		if !w.IsSolved {
			out = append(out, w)
		}
	}
	return out
}

// Finished reports whether the session reached a terminal status.
func (s *Session) Finished() bool {
	return s.Status == StatusWon || s.Status == StatusLost
}

// Clone returns a deep copy suitable for handing to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Puzzle = s.Puzzle.Clone()
	out.Words = append([]Word(nil), s.Words...)
	out.SelectedWordIDs = append([]string{}, s.SelectedWordIDs...)
	out.SolvedCategories = append([]int{}, s.SolvedCategories...)
	out.Guesses = make([]Guess, len(s.Guesses))
	for i, g := range s.Guesses {
		g.Words = append([]string(nil), g.Words...)
		if g.CategoryIndex != nil {
			g.CategoryIndex = intPtr(*g.CategoryIndex)
		}
		out.Guesses[i] = g
	}
	if s.HintCategoryIndex != nil {
		out.HintCategoryIndex = intPtr(*s.HintCategoryIndex)
	}
	return &out
}

// Validate checks a stored session before it is resumed: the puzzle must be
// valid and every category index it carries must point into the puzzle.
func (s *Session) Validate() error {
	if err := s.Puzzle.Validate(); err != nil {
		return err
	}
	n := len(s.Puzzle.Categories)
	inRange := func(i int) bool { return i >= 0 && i < n }
	if s.HintCategoryIndex != nil && !inRange(*s.HintCategoryIndex) {
		return fmt.Errorf("%w: hint category %d", ErrInvalidSession, *s.HintCategoryIndex)
	}
	for _, ci := range s.SolvedCategories {
		if !inRange(ci) {
			return fmt.Errorf("%w: solved category %d", ErrInvalidSession, ci)
		}
	}
	for _, w := range s.Words {
		if !inRange(w.CategoryIndex) {
			return fmt.Errorf("%w: word %q category %d", ErrInvalidSession, w.ID, w.CategoryIndex)
		}
	}
	for i, g := range s.Guesses {
		if g.CategoryIndex != nil && !inRange(*g.CategoryIndex) {
			return fmt.Errorf("%w: guess %d category %d", ErrInvalidSession, i, *g.CategoryIndex)
		}
	}
	return nil
}

func (s *Session) wordByID(id string) *Word {
	for i := range s.Words {
		if s.Words[i].ID == id {
			return &s.Words[i]
		}
	}
	return nil
}

func (s *Session) isSolved(categoryIndex int) bool {
	for _, ci := range s.SolvedCategories {
		if ci == categoryIndex {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }
