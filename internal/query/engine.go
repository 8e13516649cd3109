package query

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/embedder"
	seekrerrors "github.com/seekr/seekr/internal/errors"
	"github.com/seekr/seekr/internal/indexer"
	"github.com/seekr/seekr/internal/store"
)

// Engine answers search queries against an already-built index. It never
// mutates the lexical, semantic, or sidecar stores.
type Engine struct {
	root    string
	bm25    store.BM25Index
	vector  store.VectorStore
	sidecar *store.Sidecar
	embed   embedder.Embedder
}

// NewEngine wires an Engine from already-open stores.
func NewEngine(root string, bm25 store.BM25Index, vector store.VectorStore, sidecar *store.Sidecar, embed embedder.Embedder) *Engine {
	return &Engine{root: root, bm25: bm25, vector: vector, sidecar: sidecar, embed: embed}
}

// Open loads the stores for root's index in read-only fashion and returns a
// ready Engine. Returns IndexMissing if the workspace has never been indexed.
func Open(root string, cfg *config.Config, embed embedder.Embedder) (*Engine, func() error, error) {
	paths := indexer.NewPaths(root)

	if _, err := os.Stat(paths.SidecarFile); err != nil {
		return nil, nil, seekrerrors.IndexMissing("no index found for this workspace; run `seekr index` first", err)
	}

	bm25, err := store.NewBleveBM25Index(paths.BM25Dir, cfg.BM25)
	if err != nil {
		return nil, nil, seekrerrors.IndexCorrupt("failed to open lexical index", err)
	}

	vector := store.NewHNSWStore(embedder.Dimensions)
	if err := vector.Load(paths.VectorFile); err != nil {
		bm25.Close()
		return nil, nil, seekrerrors.IndexCorrupt("failed to load semantic index", err)
	}

	sidecar := store.NewSidecar()
	if err := sidecar.Load(paths.SidecarFile); err != nil {
		bm25.Close()
		return nil, nil, seekrerrors.IndexCorrupt("failed to load chunk sidecar", err)
	}

	engine := NewEngine(root, bm25, vector, sidecar, embed)
	closeFn := func() error { return bm25.Close() }
	return engine, closeFn, nil
}

// Search runs opts.Mode against the index and returns enriched results.
func (e *Engine) Search(ctx context.Context, opts Options) ([]Result, *Explain, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, nil, nil
	}
	if opts.K < 1 {
		opts.K = 10
	}

	switch opts.Mode {
	case ModeLexical:
		hits, err := e.bm25.Search(ctx, opts.Query, opts.K)
		if err != nil {
			return nil, nil, fmt.Errorf("query: lexical search: %w", err)
		}
		results := make([]Result, 0, len(hits))
		for _, h := range hits {
			r, ok := e.enrich(h.ChunkID, h.Score, ModeLexical, opts.ContextLines)
			if ok {
				results = append(results, r)
			}
		}
		return results, nil, nil

	case ModeSemantic:
		vec, err := e.embed.Embed(ctx, opts.Query)
		if err != nil {
			return nil, nil, fmt.Errorf("query: embed query: %w", err)
		}
		hits, err := e.vector.Search(ctx, vec, opts.K)
		if err != nil {
			return nil, nil, fmt.Errorf("query: semantic search: %w", err)
		}
		results := make([]Result, 0, len(hits))
		for _, h := range hits {
			r, ok := e.enrich(h.ChunkID, float64(h.Score), ModeSemantic, opts.ContextLines)
			if ok {
				results = append(results, r)
			}
		}
		return results, nil, nil

	case ModeHybrid, "":
		return e.searchHybrid(ctx, opts)

	default:
		return nil, nil, fmt.Errorf("query: unknown mode %q", opts.Mode)
	}
}

func (e *Engine) searchHybrid(ctx context.Context, opts Options) ([]Result, *Explain, error) {
	fetch := kFetch(opts.K)

	lexicalHits, err := e.bm25.Search(ctx, opts.Query, fetch)
	if err != nil {
		return nil, nil, fmt.Errorf("query: lexical search: %w", err)
	}

	vec, err := e.embed.Embed(ctx, opts.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: embed query: %w", err)
	}
	semanticHits, err := e.vector.Search(ctx, vec, fetch)
	if err != nil {
		return nil, nil, fmt.Errorf("query: semantic search: %w", err)
	}

	fused := fuse(lexicalHits, semanticHits, opts.Alpha)
	if len(fused) > opts.K {
		fused = fused[:opts.K]
	}

	results := make([]Result, 0, len(fused))
	for _, h := range fused {
		r, ok := e.enrich(h.chunkID, h.score, ModeHybrid, opts.ContextLines)
		if ok {
			results = append(results, r)
		}
	}

	var explain *Explain
	if opts.Explain {
		explain = &Explain{
			LexicalHits:  len(lexicalHits),
			SemanticHits: len(semanticHits),
			RRFConstant:  RRFConstant,
			Alpha:        opts.Alpha,
			KFetch:       fetch,
		}
	}
	return results, explain, nil
}
