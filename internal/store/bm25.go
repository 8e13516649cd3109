package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/seekr/seekr/internal/config"
)

const (
	codeTokenizerName = "seekr_code_tokenizer"
	codeAnalyzerName  = "seekr_code_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(codeTokenizerName, codeTokenizerConstructor)
}

// bleveDoc is the document body Bleve indexes. Scoring uses bleve's own
// defaults: NewBleveBM25Index accepts a config.BM25Config but does not apply
// its k1/b values to the index mapping.
type bleveDoc struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

// BleveBM25Index wraps bleve/v2 as the lexical half of the hybrid index.
type BleveBM25Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewBleveBM25Index opens (or creates) a bleve index at path using the
// code-aware analyzer as default. An empty path creates an in-memory index,
// used by tests.
func NewBleveBM25Index(path string, cfg config.BM25Config) (*BleveBM25Index, error) {
	indexMapping, err := buildMapping()
	if err != nil {
		return nil, fmt.Errorf("build index mapping: %w", err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open/create bm25 index at %s: %w", path, err)
	}

	return &BleveBM25Index{index: idx}, nil
}

func buildMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	if err := im.AddCustomAnalyzer(codeAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": codeTokenizerName,
		"token_filters": []string{
			lowercase.Name,
		},
	}); err != nil {
		return nil, err
	}
	im.DefaultAnalyzer = codeAnalyzerName

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("path", pathField)
	im.DefaultMapping = docMapping

	return im, nil
}

func docID(chunkID uint64) string {
	return strconv.FormatUint(chunkID, 10)
}

// Index implements BM25Index.
func (b *BleveBM25Index) Index(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.index.NewBatch()
	for _, d := range docs {
		if err := batch.Index(docID(d.ChunkID), bleveDoc{Content: d.Content, Path: d.Path}); err != nil {
			return fmt.Errorf("index chunk %d: %w", d.ChunkID, err)
		}
	}
	return b.index.Batch(batch)
}

// Search implements BM25Index. An empty query returns an empty, non-error
// result set.
func (b *BleveBM25Index) Search(ctx context.Context, query string, limit int) ([]BM25Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	q := bleve.NewMatchQuery(query)
	q.SetField("content")

	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}

	out := make([]BM25Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, BM25Result{ChunkID: id, Score: hit.Score})
	}
	return out, nil
}

// DeleteByPath removes every document whose content originated from path.
// Bleve has no native "delete by field value", so this runs an exact term
// query on the keyword-analyzed path field and deletes the returned IDs.
func (b *BleveBM25Index) DeleteByPath(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := bleve.NewTermQuery(path)
	q.SetField("path")
	req := bleve.NewSearchRequest(q)
	req.Size = 100000

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return fmt.Errorf("bm25 search by path: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil
	}

	batch := b.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	return b.index.Batch(batch)
}

// Delete implements BM25Index.
func (b *BleveBM25Index) Delete(ctx context.Context, chunkIDs []uint64) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.index.NewBatch()
	for _, id := range chunkIDs {
		batch.Delete(docID(id))
	}
	return b.index.Batch(batch)
}

// Count implements BM25Index.
func (b *BleveBM25Index) Count() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, err := b.index.DocCount()
	return int(n), err
}

// Close implements BM25Index.
func (b *BleveBM25Index) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}

var _ BM25Index = (*BleveBM25Index)(nil)

func codeTokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return &codeTokenizer{}, nil
}

// codeTokenizer adapts TokenizeCode to bleve's analysis.Tokenizer, so
// camelCase/snake_case splitting and the joined-token duplication happen at
// index time as well as at query time (the same MatchQuery analyzer runs
// over both).
type codeTokenizer struct{}

func (t *codeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := TokenizeCode(text)

	stream := make(analysis.TokenStream, 0, len(tokens))
	offset := 0
	for i, tok := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), tok)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(tok)
		stream = append(stream, &analysis.Token{
			Term:     []byte(tok),
			Start:    start,
			End:      end,
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
	}
	return stream
}
