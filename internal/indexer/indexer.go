// Package indexer orchestrates turning a workspace's files into the three
// persisted stores a query needs: the lexical index, the semantic index,
// and the sidecar chunk table.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/seekr/seekr/internal/chunk"
	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/embedder"
	seekrerrors "github.com/seekr/seekr/internal/errors"
	"github.com/seekr/seekr/internal/fingerprint"
	"github.com/seekr/seekr/internal/store"
	"github.com/seekr/seekr/internal/walker"
)

// dataDirName is the per-workspace directory holding everything the indexer
// persists, relative to the workspace root.
const dataDirName = ".seekr"

// Paths locates the on-disk layout of one workspace's index.
type Paths struct {
	Root            string
	DataDir         string
	BM25Dir         string
	VectorFile      string
	SidecarFile     string
	FingerprintFile string
	LockFile        string
}

func NewPaths(root string) Paths {
	dataDir := filepath.Join(root, dataDirName)
	return Paths{
		Root:            root,
		DataDir:         dataDir,
		BM25Dir:         filepath.Join(dataDir, "bm25"),
		VectorFile:      filepath.Join(dataDir, "vectors.hnsw"),
		SidecarFile:     filepath.Join(dataDir, "chunks.bin"),
		FingerprintFile: filepath.Join(dataDir, "file_cache.json"),
		LockFile:        filepath.Join(dataDir, "index.lock"),
	}
}

// Indexer drives a single workspace's full or incremental index build.
type Indexer struct {
	paths   Paths
	cfg     *config.Config
	embed   embedder.Embedder
	chunker chunk.Chunker
	bm25    store.BM25Index
	vector  *store.HNSWStore
	sidecar *store.Sidecar
	prints  *fingerprint.Store
	log     *slog.Logger
}

// Open loads (or creates) every store for root and returns a ready Indexer.
// Callers must call Close when done.
func Open(root string, cfg *config.Config, embed embedder.Embedder, log *slog.Logger) (*Indexer, error) {
	paths := NewPaths(root)
	if err := os.MkdirAll(paths.DataDir, 0o755); err != nil {
		return nil, seekrerrors.IoFailed(paths.DataDir, err)
	}

	bm25, err := store.NewBleveBM25Index(paths.BM25Dir, cfg.BM25)
	if err != nil {
		return nil, seekrerrors.IndexCorrupt("failed to open lexical index", err)
	}

	vector := store.NewHNSWStore(embedder.Dimensions)
	if _, statErr := os.Stat(paths.VectorFile); statErr == nil {
		if err := vector.Load(paths.VectorFile); err != nil {
			return nil, seekrerrors.IndexCorrupt("failed to load semantic index", err)
		}
	}

	sidecar := store.NewSidecar()
	if err := sidecar.Load(paths.SidecarFile); err != nil {
		return nil, seekrerrors.IndexCorrupt("failed to load chunk sidecar", err)
	}

	prints, err := fingerprint.Open(paths.FingerprintFile)
	if err != nil {
		return nil, seekrerrors.IndexCorrupt("failed to load fingerprint store", err)
	}

	if log == nil {
		log = slog.Default()
	}

	return &Indexer{
		paths:   paths,
		cfg:     cfg,
		embed:   embedder.NewRetryingEmbedder(embed),
		chunker: chunk.NewDispatcher(),
		bm25:    bm25,
		vector:  vector,
		sidecar: sidecar,
		prints:  prints,
		log:     log,
	}, nil
}

func (ix *Indexer) Close() error {
	if c, ok := ix.chunker.(interface{ Close() }); ok {
		c.Close()
	}
	if err := ix.embed.Close(); err != nil {
		ix.log.Warn("embedder close failed", slog.String("error", err.Error()))
	}
	return ix.bm25.Close()
}

// Result summarizes one Index call.
type Result struct {
	FilesAdded     int
	FilesModified  int
	FilesDeleted   int
	FilesUnchanged int
	ChunksIndexed  int
	Warnings       []error
}

type fileDiff struct {
	added     []walker.File
	modified  []walker.File
	unchanged int
	deleted   []string
}

// Index performs an incremental (or, with force, full) index build of the
// workspace. Only one Index call may run against a workspace at a time
// (StatusReport takes no lock); a second concurrent Index call fails fast
// with an IndexCorrupt error rather than corrupting the on-disk stores.
func (ix *Indexer) Index(ctx context.Context, force bool) (*Result, error) {
	lock := flock.New(ix.paths.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, seekrerrors.IoFailed(ix.paths.LockFile, err)
	}
	if !locked {
		return nil, seekrerrors.IndexCorrupt("another seekr process is indexing this workspace", nil)
	}
	defer lock.Unlock()

	files, err := walker.Walk(ix.paths.Root)
	if err != nil {
		return nil, err
	}

	diff := ix.classify(files, force)
	result := &Result{
		FilesAdded:     len(diff.added),
		FilesModified:  len(diff.modified),
		FilesDeleted:   len(diff.deleted),
		FilesUnchanged: diff.unchanged,
	}

	for _, path := range diff.deleted {
		ix.dropPath(path)
	}
	for _, f := range diff.modified {
		ix.dropPath(f.RelPath)
	}

	toChunk := append(append([]walker.File{}, diff.added...), diff.modified...)
	sort.Slice(toChunk, func(i, j int) bool { return toChunk[i].RelPath < toChunk[j].RelPath })

	chunks, warnings, err := ix.chunkFiles(ctx, toChunk)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		return result, err
	}

	if len(chunks) > 0 {
		n, warnings, err := ix.embedAndCommit(ctx, chunks)
		result.ChunksIndexed = n
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			return result, err
		}
	}

	for _, path := range diff.deleted {
		ix.prints.Delete(path)
	}
	for _, f := range toChunk {
		fp, err := fingerprint.ComputeFile(f.AbsPath)
		if err != nil {
			result.Warnings = append(result.Warnings, seekrerrors.IoFailed(f.AbsPath, err))
			continue
		}
		ix.prints.Set(f.RelPath, fp)
	}

	if err := ix.commitStores(); err != nil {
		return result, err
	}
	return result, nil
}

// classify splits the walked file set against the fingerprint store into
// added/modified/unchanged/deleted. force treats every walked file as
// modified and skips the unchanged short-circuit.
func (ix *Indexer) classify(files []walker.File, force bool) fileDiff {
	seen := make(map[string]bool, len(files))
	var diff fileDiff

	for _, f := range files {
		seen[f.RelPath] = true
		prior, existed := ix.prints.Get(f.RelPath)
		if !existed {
			diff.added = append(diff.added, f)
			continue
		}
		if force {
			diff.modified = append(diff.modified, f)
			continue
		}
		current, err := fingerprint.ComputeFile(f.AbsPath)
		if err != nil || !current.Equal(prior) {
			diff.modified = append(diff.modified, f)
			continue
		}
		diff.unchanged++
	}

	for _, path := range ix.prints.Paths() {
		if !seen[path] {
			diff.deleted = append(diff.deleted, path)
		}
	}
	sort.Strings(diff.deleted)
	return diff
}

// dropPath removes every chunk recorded for path from all three stores,
// ahead of re-chunking (for a modification) or permanently (for a deletion).
func (ix *Indexer) dropPath(path string) {
	ids := ix.sidecar.DeletePath(path)
	if len(ids) == 0 {
		return
	}
	ctx := context.Background()
	if err := ix.bm25.DeleteByPath(ctx, path); err != nil {
		ix.log.Warn("bm25 delete failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	if err := ix.vector.Delete(ctx, ids); err != nil {
		ix.log.Warn("vector delete failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func (ix *Indexer) chunkFiles(ctx context.Context, files []walker.File) ([]chunk.Chunk, []error, error) {
	var (
		mu       sync.Mutex
		warnings []error
		result   []chunk.Chunk
	)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, warnings, seekrerrors.Cancelled()
		}

		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			warnings = append(warnings, seekrerrors.IoFailed(f.AbsPath, err))
			continue
		}

		chunks, err := ix.chunker.Chunk(chunk.FileInput{
			Path:        f.RelPath,
			Content:     content,
			LanguageTag: f.LanguageTag,
		})
		if err != nil {
			warnings = append(warnings, seekrerrors.ParseFailed(f.AbsPath, err))
			continue
		}
		mu.Lock()
		result = append(result, chunks...)
		mu.Unlock()
	}
	return result, warnings, nil
}

// embedAndCommit embeds chunks in bounded batches across a worker pool, then
// commits in the fixed order lexical -> semantic -> sidecar so a crash
// partway through never leaves the sidecar pointing at chunk_ids the search
// indexes don't have.
//
// A batch whose embedder calls fail (the retry policy already lives in
// RetryingEmbedder) degrades to lexical-only indexing for that batch rather
// than aborting the run: the chunks are still searchable by keyword, and a
// warning reports the gap instead of losing the whole run's progress.
func (ix *Indexer) embedAndCommit(ctx context.Context, chunks []chunk.Chunk) (int, []error, error) {
	batches := batchChunks(chunks, embedder.BatchSize)

	type embedded struct {
		chunks  []chunk.Chunk
		vectors [][]float32
		err     error
	}
	results := make([]embedded, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.Indexer.Workers)

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return seekrerrors.Cancelled()
			}
			texts := make([]string, len(batch))
			for j, c := range batch {
				texts[j] = c.Text
			}
			vectors, err := ix.embed.EmbedBatch(gctx, texts)
			results[i] = embedded{chunks: batch, vectors: vectors, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	var warnings []error
	total := 0
	for _, r := range results {
		docs := make([]store.Document, len(r.chunks))
		for j, c := range r.chunks {
			docs[j] = store.Document{ChunkID: c.ChunkID, Path: c.Path, Content: c.Text}
		}
		if err := ix.bm25.Index(ctx, docs); err != nil {
			return total, warnings, fmt.Errorf("indexer: commit lexical batch: %w", err)
		}

		if r.err != nil {
			warnings = append(warnings, seekrerrors.EmbedderFailed(
				fmt.Sprintf("embedding failed for %d chunks, indexed lexically only", len(r.chunks)), r.err))
			ix.sidecar.Put(r.chunks)
			total += len(r.chunks)
			continue
		}

		ids := make([]uint64, len(r.chunks))
		for j, c := range r.chunks {
			ids[j] = c.ChunkID
		}
		if err := ix.vector.Add(ctx, ids, r.vectors); err != nil {
			return total, warnings, fmt.Errorf("indexer: commit semantic batch: %w", err)
		}
		ix.sidecar.Put(r.chunks)
		total += len(r.chunks)
	}
	return total, warnings, nil
}

func batchChunks(chunks []chunk.Chunk, size int) [][]chunk.Chunk {
	var batches [][]chunk.Chunk
	for i := 0; i < len(chunks); i += size {
		end := i + size
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, chunks[i:end])
	}
	return batches
}

// commitStores persists the semantic index, sidecar, and fingerprint store
// to disk, in that order, after every in-memory store reflects this run.
// The lexical index (bleve) is disk-backed already and persists on Index.
func (ix *Indexer) commitStores() error {
	if err := ix.vector.Save(ix.paths.VectorFile); err != nil {
		return fmt.Errorf("indexer: save semantic index: %w", err)
	}
	if err := ix.sidecar.Save(ix.paths.SidecarFile); err != nil {
		return fmt.Errorf("indexer: save chunk sidecar: %w", err)
	}
	if err := ix.prints.Save(); err != nil {
		return fmt.Errorf("indexer: save fingerprint store: %w", err)
	}
	return nil
}

// Status reports the current on-disk index state without modifying it,
// per spec.md §4.6's status() operation.
type Status struct {
	Workspace         string
	FilesTracked      int
	ChunksStored      int
	VectorsStored     int
	LexicalSizeBytes  int64
	SemanticSizeBytes int64
	LastIndexTime     time.Time
}

func (ix *Indexer) StatusReport() Status {
	status := Status{
		Workspace:         ix.paths.Root,
		FilesTracked:      ix.prints.Len(),
		ChunksStored:      ix.sidecar.Len(),
		VectorsStored:     ix.vector.Count(),
		LexicalSizeBytes:  dirSize(ix.paths.BM25Dir),
		SemanticSizeBytes: fileSize(ix.paths.VectorFile),
	}
	if info, err := os.Stat(ix.paths.SidecarFile); err == nil {
		status.LastIndexTime = info.ModTime()
	}
	return status
}

func dirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
