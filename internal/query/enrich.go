package query

import (
	"os"
	"path/filepath"
	"strings"
)

// enrich resolves a chunk_id to a Result by looking up its sidecar record
// and re-reading the surrounding lines from disk. Per spec, an unreadable
// file at enrichment time means the hit is dropped, not an error for the
// whole search.
func (e *Engine) enrich(chunkID uint64, score float64, mode Mode, contextLines int) (Result, bool) {
	c, ok := e.sidecar.Get(chunkID)
	if !ok {
		return Result{}, false
	}

	absPath := filepath.Join(e.root, filepath.FromSlash(c.Path))
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Result{}, false
	}

	lines := strings.Split(string(data), "\n")
	start := c.StartLine - contextLines
	if start < 1 {
		start = 1
	}
	end := c.EndLine + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return Result{}, false
	}

	snippet := strings.Join(lines[start-1:end], "\n")
	return Result{
		Path:      c.Path,
		StartLine: start,
		EndLine:   end,
		Score:     score,
		Mode:      mode,
		Snippet:   snippet,
	}, true
}
