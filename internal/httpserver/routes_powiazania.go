// internal/httpserver/routes_powiazania.go
//
// HTTP routes exposing the session engine to the UI.
//   - GET  /powiazania/state  → current session
//   - POST /powiazania/toggle → select/deselect a tile
//   - POST /powiazania/guess  → submit the 4 selected tiles
//   - POST /powiazania/hint   → reveal the easiest unsolved category
//   - POST /powiazania/reset  → start today's puzzle over
//   - GET  /powiazania/share  → share text (text/plain)
//   - GET  /powiazania/events → SSE stream of engine events
//
// Invalid actions are not errors: they answer 200 with the unchanged state.

package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pollar/powiazania/internal/daily"
	"github.com/pollar/powiazania/internal/game"
	"github.com/pollar/powiazania/internal/share"
)

func (s *Server) mountPowiazania(r chi.Router) {
	r.Route("/powiazania", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/toggle", s.handleToggle)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Post("/reset", s.handleReset)
		r.Get("/share", s.handleShare)
	})
}

type stateRes struct {
	State *game.Session `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateRes{State: s.engine.State()})
}

type toggleReq struct {
	WordID string `json:"wordId"`
}
type toggleRes struct {
	Changed bool          `json:"changed"`
	State   *game.Session `json:"state"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WordID == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	changed := s.engine.ToggleWord(r.Context(), req.WordID)
	writeJSON(w, http.StatusOK, toggleRes{Changed: changed, State: s.engine.State()})
}

type guessRes struct {
	Guess *game.Guess   `json:"guess"` // null when the guess was not accepted
	State *game.Session `json:"state"`
}

// handleGuess submits the selection and, if it ended the session,
// records the result (best effort, non-fatal if it fails).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	g, st := s.engine.SubmitGuessState(r.Context())
	if g != nil && st.Finished() {
		s.recordResult(r, st)
	}
	writeJSON(w, http.StatusOK, guessRes{Guess: g, State: st})
}

func (s *Server) recordResult(r *http.Request, st *game.Session) {
	if s.results == nil {
		return
	}
	res := daily.Result{
		SessionID: st.ID,
		PuzzleID:  st.Puzzle.ID,
		Date:      st.Puzzle.Date,
		Status:    string(st.Status),
		Mistakes:  st.Mistakes,
		Guesses:   len(st.Guesses),
		HintUsed:  st.HintUsed,
		IsMock:    st.IsMock,
	}
	if err := s.results.InsertResult(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("session", st.ID).Msg("record result")
	}
}

type hintRes struct {
	HintUsed          bool          `json:"hintUsed"`
	HintCategoryIndex *int          `json:"hintCategoryIndex"`
	CategoryName      string        `json:"categoryName,omitempty"`
	State             *game.Session `json:"state"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	_, _ = s.engine.UseHint(r.Context())
	st := s.engine.State()
	res := hintRes{HintUsed: st.HintUsed, HintCategoryIndex: st.HintCategoryIndex, State: st}
	if hi := st.HintCategoryIndex; hi != nil && st.Puzzle != nil && *hi >= 0 && *hi < len(st.Puzzle.Categories) {
		res.CategoryName = st.Puzzle.Categories[*st.HintCategoryIndex].Name
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.Reset(r.Context())
	writeJSON(w, http.StatusOK, stateRes{State: s.engine.State()})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	st := s.engine.State()
	if st.Puzzle == nil {
		writeError(w, http.StatusServiceUnavailable, "loading")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(share.Text(st.Puzzle, st.Guesses)))
}

// handleEvents streams engine event names as Server-Sent Events until the
// client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.engine.Subscribe()
	defer s.engine.Unsubscribe(ch)

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
