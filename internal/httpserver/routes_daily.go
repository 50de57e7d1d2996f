// internal/httpserver/routes_daily.go
//
// HTTP routes for daily results.
//   - GET /daily/results → finished sessions and a summary for a date (default today)

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pollar/powiazania/internal/daily"
	"github.com/pollar/powiazania/internal/puzzle"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/results", s.handleResults)
	})
}

type resultsRes struct {
	Summary daily.Summary  `json:"summary"`
	Results []daily.Result `json:"results"`
}

// handleResults returns results for ?date=YYYY-MM-DD (default today), up to ?limit (default 50).
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, "results_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.clock.Today()
	} else if _, err := time.Parse(puzzle.DateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := s.results.Results(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("load results")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	sum, err := s.results.Summarize(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("summarize results")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, resultsRes{Summary: sum, Results: rows})
}
