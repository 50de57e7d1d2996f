// internal/game/engine.go
//
// Session engine for Powiązania.
// Responsibilities:
//   - Initialize a session from the resolved puzzle (fresh or resumed).
//   - Apply player actions: toggle a tile, submit a guess, take the hint.
//   - Track state transitions: playing → won/lost.
//   - Persist after every mutation and notify subscribers.
//
// Notes:
//   - Invalid actions (wrong status, unmet precondition) are silent no-ops.
//   - Persistence failures are logged and never surface to the player.
//   - Every method takes the engine lock; Init releases it while fetching.
//   - Init and Reset are serialized by a second lock, and the session is
//     marked loading before storage is touched, so no action can persist
//     the old session into a slot being reset.

package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pollar/powiazania/internal/daily"
	"github.com/pollar/powiazania/internal/puzzle"
	"github.com/pollar/powiazania/internal/source"
	"github.com/pollar/powiazania/pkg/realtime"
)

// Event names published to subscribers.
const (
	EventLoaded    = "loaded"
	EventSelection = "selection"
	EventGuess     = "guess"
	EventHint      = "hint"
	EventFinished  = "finished"
	EventReset     = "reset"
)

// Storage is the single-slot durable store for the session.
type Storage interface {
	// Load returns the stored session, or (nil, nil) when there is none.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// Resolver picks today's puzzle. *source.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, today string, cached *puzzle.Puzzle) source.Resolution
}

// Rand is the random source used to shuffle tiles. *rand.Rand implements it.
type Rand interface {
	Intn(n int) int
}

// Engine owns the session and serializes every action against it.
type Engine struct {
	initMu sync.Mutex // serializes Init and Reset
	mu     sync.Mutex
	s      *Session
	store  Storage
	src    Resolver
	rng    Rand
	clock  daily.Clock
	hub    *realtime.Broadcaster
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the shuffle source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithClock replaces the clock used to compute today's day key.
func WithClock(c daily.Clock) Option { return func(e *Engine) { e.clock = c } }

// New constructs an engine. The session stays in the loading state until Init.
func New(st Storage, src Resolver, opts ...Option) *Engine {
	e := &Engine{
		s:     loadingSession(),
		store: st,
		src:   src,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		hub:   realtime.NewBroadcaster(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func loadingSession() *Session {
	return &Session{
		Words:            []Word{},
		SelectedWordIDs:  []string{},
		SolvedCategories: []int{},
		Guesses:          []Guess{},
		MaxMistakes:      MaxMistakes,
		Status:           StatusPlaying,
		IsLoading:        true,
	}
}

// Subscribe returns a channel receiving an event name after every mutation.
func (e *Engine) Subscribe() chan string { return e.hub.Subscribe() }

// Unsubscribe stops delivery to ch and closes it.
func (e *Engine) Unsubscribe(ch chan string) { e.hub.Unsubscribe(ch) }

// State returns a copy of the current session.
func (e *Engine) State() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.Clone()
}

// Init loads the cached session, reconciles it with the puzzle source and
// leaves the engine with a playable session. It never fails.
func (e *Engine) Init(ctx context.Context) {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	e.markLoading()
	e.init(ctx)
}

// markLoading turns every action into a no-op until init installs a session.
func (e *Engine) markLoading() {
	e.mu.Lock()
	e.s.IsLoading = true
	e.mu.Unlock()
}

// init resolves and installs the session. Caller holds e.initMu and has
// marked the session loading.
func (e *Engine) init(ctx context.Context) {
	cached, err := e.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load cached session")
		cached = nil
	}
	var cachedPuzzle *puzzle.Puzzle
	if cached != nil {
		cachedPuzzle = cached.Puzzle
	}

	today := e.clock.Today()
	res := e.src.Resolve(ctx, today, cachedPuzzle)

	e.mu.Lock()
	if res.Resume && cached != nil {
		cached.IsLoading = false
		normalize(cached)
		e.s = cached
		log.Info().Str("session", cached.ID).Str("puzzle", cached.Puzzle.ID).Msg("resumed cached session")
	} else {
		e.s = e.freshSession(res.Puzzle, res.Mock)
		e.persist(ctx)
		log.Info().Str("session", e.s.ID).Str("puzzle", res.Puzzle.ID).
			Str("date", res.Puzzle.Date).Bool("mock", res.Mock).Msg("started session")
	}
	e.mu.Unlock()

	e.hub.Publish(EventLoaded)
}

// Reset clears the stored session and re-runs Init. The day key is not
// consulted, so on the same day this restarts today's puzzle from scratch.
func (e *Engine) Reset(ctx context.Context) {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	e.markLoading()
	if err := e.store.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("clear stored session")
	}
	e.hub.Publish(EventReset)
	e.init(ctx)
}

// ToggleWord selects or deselects a tile. It reports whether anything changed.
// Deselecting is always allowed; selecting is capped at SelectionSize.
func (e *Engine) ToggleWord(ctx context.Context, wordID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playable() {
		return false
	}
	w := e.s.wordByID(wordID)
	if w == nil || w.IsSolved {
		return false
	}

	if w.IsSelected {
		w.IsSelected = false
		e.s.SelectedWordIDs = without(e.s.SelectedWordIDs, wordID)
	} else {
		if len(e.s.SelectedWordIDs) >= SelectionSize {
			return false
		}
		w.IsSelected = true
		e.s.SelectedWordIDs = append(e.s.SelectedWordIDs, wordID)
	}

	e.persist(ctx)
	e.hub.Publish(EventSelection)
	return true
}

// SubmitGuess evaluates the current selection. It returns nil without
// touching state unless the session is playing with exactly 4 tiles selected.
func (e *Engine) SubmitGuess(ctx context.Context) *Guess {
	g, _ := e.SubmitGuessState(ctx)
	return g
}

// SubmitGuessState is SubmitGuess that also returns a copy of the session
// taken in the same critical section as the guess.
func (e *Engine) SubmitGuessState(ctx context.Context) (*Guess, *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.submit(ctx)
	return g, e.s.Clone()
}

// submit applies a guess. Caller holds e.mu.
func (e *Engine) submit(ctx context.Context) *Guess {
	if !e.playable() || len(e.s.SelectedWordIDs) != SelectionSize {
		return nil
	}

	selected := make([]*Word, 0, SelectionSize)
	for _, id := range e.s.SelectedWordIDs {
		if w := e.s.wordByID(id); w != nil {
			selected = append(selected, w)
		}
	}
	if len(selected) != SelectionSize {
		return nil
	}

	g := evaluate(selected)
	e.s.Guesses = append(e.s.Guesses, g)

	if g.IsCorrect {
		ci := *g.CategoryIndex
		for i := range e.s.Words {
			if e.s.Words[i].CategoryIndex == ci {
				e.s.Words[i].IsSolved = true
				e.s.Words[i].IsSelected = false
			}
		}
		e.s.SolvedCategories = append(e.s.SolvedCategories, ci)
		e.s.SelectedWordIDs = []string{}
		if len(e.s.SolvedCategories) == len(e.s.Puzzle.Categories) {
			e.s.Status = StatusWon
		}
	} else {
		for _, w := range selected {
			w.IsSelected = false
		}
		e.s.SelectedWordIDs = []string{}
		e.s.Mistakes++
		if e.s.Mistakes >= e.s.MaxMistakes {
			e.s.Status = StatusLost
		}
	}

	e.persist(ctx)
	e.hub.Publish(EventGuess)
	if e.s.Finished() {
		log.Info().Str("session", e.s.ID).Str("status", string(e.s.Status)).
			Int("mistakes", e.s.Mistakes).Int("guesses", len(e.s.Guesses)).Msg("session finished")
		e.hub.Publish(EventFinished)
	}

	out := g
	out.Words = append([]string(nil), g.Words...)
	if g.CategoryIndex != nil {
		out.CategoryIndex = intPtr(*g.CategoryIndex)
	}
	return &out
}

// UseHint reveals the lowest-difficulty unsolved category once per session.
// It returns the hinted category index; ok is false when no hint was given
// by this call or an earlier one.
func (e *Engine) UseHint(ctx context.Context) (index int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.HintUsed || !e.playable() {
		return 0, false
	}

	best := -1
	for i, c := range e.s.Puzzle.Categories {
		if e.s.isSolved(i) {
			continue
		}
		if best < 0 || c.Difficulty < e.s.Puzzle.Categories[best].Difficulty {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}

	e.s.HintUsed = true
	e.s.HintCategoryIndex = intPtr(best)
	e.persist(ctx)
	e.hub.Publish(EventHint)
	return best, true
}

// evaluate builds the Guess for four selected tiles.
func evaluate(selected []*Word) Guess {
	counts := make(map[int]int, SelectionSize)
	words := make([]string, 0, len(selected))
	for _, w := range selected {
		counts[w.CategoryIndex]++
		words = append(words, w.Text)
	}

	g := Guess{Words: words}
	if len(counts) == 1 {
		g.IsCorrect = true
		g.CategoryIndex = intPtr(selected[0].CategoryIndex)
		return g
	}
	for _, n := range counts {
		if n == SelectionSize-1 {
			g.IsOneAway = true
			break
		}
	}
	return g
}

// freshSession builds a new session for p with shuffled tiles.
func (e *Engine) freshSession(p *puzzle.Puzzle, mock bool) *Session {
	words := BuildWords(p)
	for i := len(words) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
	return &Session{
		ID:               uuid.NewString(),
		Puzzle:           p,
		Words:            words,
		SelectedWordIDs:  []string{},
		SolvedCategories: []int{},
		Guesses:          []Guess{},
		MaxMistakes:      MaxMistakes,
		Status:           StatusPlaying,
		IsMock:           mock,
	}
}

// playable reports whether actions are accepted. Caller holds e.mu.
func (e *Engine) playable() bool {
	return e.s.Puzzle != nil && !e.s.IsLoading && e.s.Status == StatusPlaying
}

// persist saves the session, logging failures. Caller holds e.mu.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.s); err != nil {
		log.Warn().Err(err).Str("session", e.s.ID).Msg("persist session")
	}
}

// normalize fills slices a hand-edited or older stored session may lack.
func normalize(s *Session) {
	if s.SelectedWordIDs == nil {
		s.SelectedWordIDs = []string{}
	}
	if s.SolvedCategories == nil {
		s.SolvedCategories = []int{}
	}
	if s.Guesses == nil {
		s.Guesses = []Guess{}
	}
	if s.MaxMistakes == 0 {
		s.MaxMistakes = MaxMistakes
	}
	if s.Status == "" {
		s.Status = StatusPlaying
	}
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
