// internal/source/resolver.go
//
// Resolver decides which puzzle a session starts from.
//
// Precedence:
//   1. Cached puzzle dated today → refetch.
//        - fetch ok and dated today → fresh session from the fetched puzzle
//        - otherwise                → resume the cached session as-is
//   2. No usable cache → fetch.
//        - ok      → fresh session (Mock=false)
//        - failure → fallback puzzle stamped with today (Mock=true)
//
// Resolve never returns an error; every failure degrades.

package source

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pollar/powiazania/internal/puzzle"
)

// Fetcher retrieves today's puzzle. *Client implements it.
type Fetcher interface {
	Today(ctx context.Context) (*puzzle.Puzzle, error)
}

// Fallback supplies the embedded puzzle for a day key.
// *fallback.Source implements it.
type Fallback interface {
	ForDate(date string) *puzzle.Puzzle
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Puzzle *puzzle.Puzzle
	Mock   bool // Puzzle is the fallback, not server-sourced
	Resume bool // keep the cached session instead of starting fresh
}

// Resolver reconciles the remote API, the cached session and the fallback.
type Resolver struct {
	fetch    Fetcher
	fallback Fallback
}

// NewResolver wires a Resolver.
func NewResolver(f Fetcher, fb Fallback) *Resolver {
	return &Resolver{fetch: f, fallback: fb}
}

// Resolve picks the puzzle for today. cached is the puzzle of the stored
// session, or nil when there is none.
func (r *Resolver) Resolve(ctx context.Context, today string, cached *puzzle.Puzzle) Resolution {
	if cached != nil && cached.Date == today {
		p, err := r.fetch.Today(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("date", today).Msg("refetch failed, resuming cached session")
			return Resolution{Puzzle: cached, Resume: true}
		case p.Date != today:
			log.Warn().Str("date", today).Str("fetched", p.Date).Msg("refetch returned another day, resuming cached session")
			return Resolution{Puzzle: cached, Resume: true}
		}
		return Resolution{Puzzle: p}
	}

	p, err := r.fetch.Today(ctx)
	if err != nil {
		log.Warn().Err(err).Str("date", today).Msg("puzzle fetch failed, using fallback puzzle")
		return Resolution{Puzzle: r.fallback.ForDate(today), Mock: true}
	}
	return Resolution{Puzzle: p}
}
