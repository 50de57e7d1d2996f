package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollar/powiazania/internal/puzzle"
)

func TestDefault_IsValidAndStable(t *testing.T) {
	src, err := Default()
	require.NoError(t, err)

	a := src.ForDate("2026-10-19")
	b := src.ForDate("2026-10-19")
	require.NoError(t, a.Validate())
	assert.Equal(t, "2026-10-19", a.Date)
	assert.Equal(t, a, b)

	// stamping must not leak into later copies
	a.Categories[0].Words[0] = "zmienione"
	c := src.ForDate("2026-10-20")
	assert.NotEqual(t, "zmienione", c.Categories[0].Words[0])
	assert.Equal(t, "2026-10-20", c.Date)
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.json")
	body := `{"id":"f","date":"2000-01-01","categories":[
		{"name":"A","words":["a1","a2","a3","a4"],"difficulty":2,"color":"blue"},
		{"name":"B","words":["b1","b2","b3","b4"],"difficulty":1,"color":"green"},
		{"name":"C","words":["c1","c2","c3","c4"],"difficulty":4,"color":"red"},
		{"name":"D","words":["d1","d2","d3","d4"],"difficulty":3,"color":"orange"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	src, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "f", src.ForDate("2026-10-19").ID)
}

func TestNew_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"x","date":"2000-01-01","categories":[]}`), 0o644))

	_, err := New(path)
	assert.ErrorIs(t, err, puzzle.ErrInvalid)

	_, err = New(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
