package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todayJSON = `{"id":"srv-1","date":"2026-10-19","categories":[
	{"name":"A","words":["a1","a2","a3","a4"],"difficulty":1,"color":"green"},
	{"name":"B","words":["b1","b2","b3","b4"],"difficulty":2,"color":"blue"},
	{"name":"C","words":["c1","c2","c3","c4"],"difficulty":3,"color":"orange"},
	{"name":"D","words":["d1","d2","d3","d4"],"difficulty":4,"color":"red"}],
	"reasoning":"test"}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/powiazania/today" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Today(t *testing.T) {
	srv := serve(t, http.StatusOK, todayJSON)
	p, err := NewClient(srv.URL+"/", time.Second).Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "srv-1", p.ID)
	assert.Equal(t, "2026-10-19", p.Date)
	assert.Equal(t, "test", p.Reasoning)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, p.Categories[2].Words)
}

func TestClient_Today_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{}`, ErrUnavailable},
		{"not found", http.StatusNotFound, ``, ErrUnavailable},
		{"bad json", http.StatusOK, `{"id":`, ErrMalformed},
		{"wrong shape", http.StatusOK, `{"id":"x","date":"2026-10-19","categories":[]}`, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.body)
			_, err := NewClient(srv.URL, time.Second).Today(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_Today_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Today(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Today_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	_, err := NewClient(srv.URL, 50*time.Millisecond).Today(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
