// Package assets embeds the static files the server needs at runtime:
// the fallback Powiązania puzzle and the SQLite migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed fallback_puzzle.json sql/*.sql
var FS embed.FS

// FallbackPuzzle returns the raw JSON of the embedded fallback puzzle.
func FallbackPuzzle() ([]byte, error) {
	return FS.ReadFile("fallback_puzzle.json")
}

// Migrations returns the embedded migration directory rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded at build time; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
