package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollar/powiazania/assets"
	"github.com/pollar/powiazania/internal/daily"
	"github.com/pollar/powiazania/internal/game"
	"github.com/pollar/powiazania/internal/puzzle"
	"github.com/pollar/powiazania/internal/source"
	"github.com/pollar/powiazania/internal/store"
)

var clock = daily.Clock(func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local) })

type staticFetcher struct{ p *puzzle.Puzzle }

func (f staticFetcher) Today(context.Context) (*puzzle.Puzzle, error) { return f.p.Clone(), nil }

type noFallback struct{}

func (noFallback) ForDate(string) *puzzle.Puzzle { return nil }

func testPuzzle() *puzzle.Puzzle {
	return &puzzle.Puzzle{
		ID:   "srv-1",
		Date: "2026-10-19",
		Categories: []puzzle.Category{
			{Name: "Owoce", Words: []string{"JABŁKO", "GRUSZKA", "ŚLIWKA", "WIŚNIA"}, Difficulty: 1, Color: "green"},
			{Name: "Rzeki", Words: []string{"WISŁA", "ODRA", "WARTA", "BUG"}, Difficulty: 2, Color: "blue"},
			{Name: "Karty", Words: []string{"KIER", "KARO", "PIK", "TREFL"}, Difficulty: 3, Color: "orange"},
			{Name: "Zamki", Words: []string{"BŁYSKAWICZNY", "KRÓLEWSKI", "SZYFROWY", "CENTRALNY"}, Difficulty: 4, Color: "red"},
		},
	}
}

type fixture struct {
	srv    *Server
	engine *game.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "srv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, assets.Migrations()))

	e := game.New(
		store.NewSessionStore(store.NewSQLite(db)),
		source.NewResolver(staticFetcher{p: testPuzzle()}, noFallback{}),
		game.WithClock(clock),
	)
	e.Init(context.Background())
	return &fixture{
		srv:    New(e, daily.NewStore(db), Options{ClientOrigin: "https://pollar.pl", Clock: clock}),
		engine: e,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) solve(t *testing.T, ci int) guessRes {
	t.Helper()
	for wi := 0; wi < 4; wi++ {
		rec := f.do(t, http.MethodPost, "/powiazania/toggle", fmt.Sprintf(`{"wordId":"%d-%d"}`, ci, wi))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/powiazania/guess", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[guessRes](t, rec)
}

func TestHealthAndCORS(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "https://pollar.pl", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodOptions, "/powiazania/toggle", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNotFound(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
}

func TestState(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/powiazania/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[stateRes](t, rec)
	assert.Equal(t, "srv-1", res.State.Puzzle.ID)
	assert.Len(t, res.State.Words, 16)
	assert.False(t, res.State.IsLoading)
}

func TestToggle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/powiazania/toggle", `{"wordId":"1-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[toggleRes](t, rec)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"1-2"}, res.State.SelectedWordIDs)

	rec = f.do(t, http.MethodPost, "/powiazania/toggle", `{"wordId":"nope"}`)
	assert.False(t, decode[toggleRes](t, rec).Changed)

	rec = f.do(t, http.MethodPost, "/powiazania/toggle", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuess_NotAcceptedReturnsNull(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/powiazania/guess", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guess":null`)
}

func TestGuess_WinRecordsResult(t *testing.T) {
	f := newFixture(t)

	for _, ci := range []int{3, 1, 0, 2} {
		res := f.solve(t, ci)
		require.NotNil(t, res.Guess)
		assert.True(t, res.Guess.IsCorrect)
	}
	st := f.engine.State()
	require.Equal(t, game.StatusWon, st.Status)

	rec := f.do(t, http.MethodGet, "/daily/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[resultsRes](t, rec)
	assert.Equal(t, daily.Summary{Date: "2026-10-19", Played: 1, Won: 1}, res.Summary)
	require.Len(t, res.Results, 1)
	assert.Equal(t, st.ID, res.Results[0].SessionID)
	assert.Equal(t, 4, res.Results[0].Guesses)
}

func TestResults_BadDate(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/daily/results?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/powiazania/hint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[hintRes](t, rec)
	assert.True(t, res.HintUsed)
	require.NotNil(t, res.HintCategoryIndex)
	assert.Equal(t, 0, *res.HintCategoryIndex)
	assert.Equal(t, "Owoce", res.CategoryName)
}

func TestShare(t *testing.T) {
	f := newFixture(t)
	f.solve(t, 0)

	rec := f.do(t, http.MethodGet, "/powiazania/share", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Pollar Powiązania 2026-10-19\n🟩🟩🟩🟩\n\nhttps://pollar.pl/powiazania", rec.Body.String())
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.solve(t, 0)
	before := f.engine.State()

	rec := f.do(t, http.MethodPost, "/powiazania/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[stateRes](t, rec)
	assert.NotEqual(t, before.ID, res.State.ID)
	assert.Empty(t, res.State.Guesses)
	assert.Empty(t, res.State.SolvedCategories)
}

func TestEvents_StreamsEngineEvents(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/powiazania/events", nil)
	require.NoError(t, err)
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	sc := bufio.NewScanner(res.Body)
	require.True(t, sc.Scan())
	assert.Equal(t, ": connected", sc.Text())

	require.True(t, f.engine.ToggleWord(context.Background(), "0-0"))
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			assert.Equal(t, "data: "+game.EventSelection, line)
			break
		}
	}
}
