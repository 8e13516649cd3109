package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seekr/seekr/internal/embedder"
)

// resolveRoot returns the absolute workspace root: args[0] if given,
// otherwise the current directory.
func resolveRoot(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving workspace path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %s is not a directory", abs)
	}
	return abs, nil
}

// newEmbedder returns the default embedder. The embedding model itself is
// an external collaborator; seekr only consumes it through the Embedder
// interface, so the CLI wires a cached static embedder until a model-backed
// implementation is plugged in.
func newEmbedder() embedder.Embedder {
	return embedder.NewCachedEmbedder(embedder.NewStaticEmbedder(), embedder.DefaultCacheSize)
}
