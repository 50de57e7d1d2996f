// Package share renders a session's guess history as a shareable emoji grid.
//
// Layout:
//
//	Pollar Powiązania 2026-10-19
//	🟩🟩🟩🟩
//	🟦🟦🟧🟦
//
//	https://pollar.pl/powiazania
//
// A correct guess is four copies of its category's emoji; an incorrect guess
// has one emoji per submitted word in submission order.
package share

import (
	"strings"

	"github.com/pollar/powiazania/internal/game"
	"github.com/pollar/powiazania/internal/puzzle"
)

const (
	// Header prefixes the puzzle date on the first line.
	Header = "Pollar Powiązania"
	// FooterURL is the last line of every share text.
	FooterURL = "https://pollar.pl/powiazania"
	// Unknown marks a word that belongs to no category.
	Unknown = "⬜"
)

var difficultyEmoji = map[int]string{
	1: "🟩",
	2: "🟦",
	3: "🟧",
	4: "🟥",
}

// Emoji returns the square for a difficulty rank.
func Emoji(difficulty int) string {
	if e, ok := difficultyEmoji[difficulty]; ok {
		return e
	}
	return Unknown
}

// Text encodes guesses against p. It performs no I/O.
func Text(p *puzzle.Puzzle, guesses []game.Guess) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte(' ')
	b.WriteString(p.Date)
	b.WriteByte('\n')

	for _, g := range guesses {
		b.WriteString(Line(p, g))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(FooterURL)
	return b.String()
}

// Line encodes a single guess.
func Line(p *puzzle.Puzzle, g game.Guess) string {
	if g.IsCorrect && g.CategoryIndex != nil {
		ci := *g.CategoryIndex
		if ci >= 0 && ci < len(p.Categories) {
			return strings.Repeat(Emoji(p.Categories[ci].Difficulty), game.SelectionSize)
		}
	}
	var b strings.Builder
	for _, w := range g.Words {
		ci := p.CategoryOf(w)
		if ci < 0 {
			b.WriteString(Unknown)
			continue
		}
		b.WriteString(Emoji(p.Categories[ci].Difficulty))
	}
	return b.String()
}
