// internal/source/client.go
//
// HTTP client for the puzzle API.
//   GET {API_BASE}/powiazania/today → 200 + Puzzle JSON
//
// Any network error, non-2xx status or body that fails validation is reported
// as an error; the Resolver decides how to degrade.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pollar/powiazania/internal/puzzle"
)

var (
	// ErrUnavailable covers network failures and non-2xx responses.
	ErrUnavailable = errors.New("puzzle source unavailable")
	// ErrMalformed covers bodies that do not decode to a valid puzzle.
	ErrMalformed = errors.New("puzzle source returned malformed puzzle")
)

// maxBody bounds how much of a response we are willing to decode.
const maxBody = 1 << 20

// Client fetches today's puzzle from the remote API.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for base (e.g. https://api.pollar.pl).
// A zero timeout leaves the request bounded only by the caller's context.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Today fetches and validates today's puzzle.
func (c *Client) Today(ctx context.Context) (*puzzle.Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/powiazania/today", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBody))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}

	var p puzzle.Puzzle
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBody)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &p, nil
}
