package chunk

import (
	"context"
	"strings"
)

// CodeChunker produces one chunk per top-level declaration using a
// tree-sitter grammar, falling back to a sliding window when a language has
// no registered grammar or the source fails to parse.
type CodeChunker struct {
	parser   *parser
	registry *LanguageRegistry
	window   *WindowChunker
}

// NewCodeChunker builds a CodeChunker against the process-wide language
// registry.
func NewCodeChunker() *CodeChunker {
	return NewCodeChunkerWithRegistry(DefaultRegistry())
}

func NewCodeChunkerWithRegistry(registry *LanguageRegistry) *CodeChunker {
	return &CodeChunker{
		parser:   newParser(registry),
		registry: registry,
		window:   NewWindowChunker(),
	}
}

func (c *CodeChunker) Close() {
	c.parser.close()
}

// Chunk implements Chunker.
func (c *CodeChunker) Chunk(file FileInput) ([]Chunk, error) {
	if len(strings.TrimSpace(string(file.Content))) == 0 {
		return nil, nil
	}

	cfg, _, ok := c.registry.Get(file.LanguageTag)
	if !ok {
		return c.window.Chunk(file)
	}

	tree, err := c.parser.parse(context.Background(), file.Content, cfg.Name)
	if err != nil {
		return c.window.Chunk(file)
	}

	decls := topLevelDecls(tree.Root, cfg.declNodeTypes())
	if len(decls) == 0 {
		return c.window.Chunk(file)
	}

	chunks := make([]Chunk, 0, len(decls))
	for _, n := range decls {
		chunks = append(chunks, splitOversized(file, tree.Source, n)...)
	}
	return mergeUndersized(file, chunks), nil
}

// topLevelDecls walks the tree and returns the outermost nodes matching
// declTypes, skipping into a matched node's subtree so nested declarations
// (e.g. a method inside a class already chosen as a chunk) don't also
// become their own top-level chunk.
func topLevelDecls(root *Node, declTypes map[string]bool) []*Node {
	var out []*Node
	root.Walk(func(n *Node) bool {
		if declTypes[n.Type] {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// splitOversized turns one declaration node into one chunk, or several
// consecutive line-based chunks if its source exceeds MaxChunkBytes.
func splitOversized(file FileInput, source []byte, n *Node) []Chunk {
	text := n.Content(source)
	startLine := int(n.StartPoint.Row) + 1
	endLine := int(n.EndPoint.Row) + 1

	if len(text) <= MaxChunkBytes {
		return []Chunk{newChunk(file, text, startLine, endLine)}
	}

	lines := strings.Split(text, "\n")
	var out []Chunk
	lineIdx := 0
	for lineIdx < len(lines) {
		end := lineIdx
		size := 0
		for end < len(lines) && (size == 0 || size+len(lines[end])+1 <= MaxChunkBytes) {
			size += len(lines[end]) + 1
			end++
		}
		if end == lineIdx {
			end = lineIdx + 1 // always make progress even on one huge line
		}
		sub := strings.Join(lines[lineIdx:end], "\n")
		out = append(out, newChunk(file, sub, startLine+lineIdx, startLine+end-1))
		lineIdx = end
	}
	return out
}

// mergeUndersized folds a chunk under MinChunkBytes into its successor,
// provided the successor is also under MinChunkBytes, the combination still
// fits under MaxChunkBytes, and both chunks are contiguous (the successor
// starts on the line right after the chunk ends).
func mergeUndersized(file FileInput, chunks []Chunk) []Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	var out []Chunk
	i := 0
	for i < len(chunks) {
		cur := chunks[i]
		for i+1 < len(chunks) && len(cur.Text) < MinChunkBytes {
			next := chunks[i+1]
			if len(next.Text) >= MinChunkBytes || next.StartLine != cur.EndLine+1 {
				break
			}
			combined := cur.Text + "\n" + next.Text
			if len(combined) > MaxChunkBytes {
				break
			}
			cur = newChunk(file, combined, cur.StartLine, next.EndLine)
			i++
		}
		out = append(out, cur)
		i++
	}
	return out
}

func newChunk(file FileInput, text string, startLine, endLine int) Chunk {
	return Chunk{
		ChunkID:     ID(file.Path, startLine, endLine),
		Path:        file.Path,
		StartLine:   startLine,
		EndLine:     endLine,
		Text:        text,
		LanguageTag: file.LanguageTag,
	}
}
