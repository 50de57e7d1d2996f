package daily

import (
	"context"
	"database/sql"
)

// Result is one finished Powiązania session.
type Result struct {
	SessionID string `json:"sessionId"`
	PuzzleID  string `json:"puzzleId"`
	Date      string `json:"date"`
	Status    string `json:"status"` // won | lost
	Mistakes  int    `json:"mistakes"`
	Guesses   int    `json:"guesses"`
	HintUsed  bool   `json:"hintUsed"`
	IsMock    bool   `json:"isMock"`
}

// Summary aggregates the results of one day.
type Summary struct {
	Date        string  `json:"date"`
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	AvgMistakes float64 `json:"avgMistakes"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult records r. A second insert for the same session is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results
			(session_id, puzzle_id, date, status, mistakes, guesses, hint_used, is_mock)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.SessionID, r.PuzzleID, r.Date, r.Status, r.Mistakes, r.Guesses, r.HintUsed, r.IsMock,
	)
	return err
}

// Results lists a day's results, wins first, then by fewest mistakes and guesses.
func (s *Store) Results(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, puzzle_id, date, status, mistakes, guesses, hint_used, is_mock
		FROM daily_results
		WHERE date=?
		ORDER BY status='won' DESC, mistakes ASC, guesses ASC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.SessionID, &r.PuzzleID, &r.Date, &r.Status,
			&r.Mistakes, &r.Guesses, &r.HintUsed, &r.IsMock); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summarize aggregates the results recorded for date.
func (s *Store) Summarize(ctx context.Context, date string) (Summary, error) {
	sum := Summary{Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
			COALESCE(SUM(status='won'), 0),
			COALESCE(SUM(status='lost'), 0),
			COALESCE(AVG(mistakes), 0)
		FROM daily_results WHERE date=?`, date,
	).Scan(&sum.Played, &sum.Won, &sum.Lost, &sum.AvgMistakes)
	return sum, err
}
