package chunk

import "strings"

// WindowChunker cuts a file into overlapping fixed-size line windows. It is
// used directly for languages without a tree-sitter grammar (java,
// c_family, ruby, markdown, config) and as the fallback when AST-aware
// chunking fails or yields nothing.
type WindowChunker struct {
	windowLines  int
	overlapLines int
}

func NewWindowChunker() *WindowChunker {
	return &WindowChunker{windowLines: WindowLines, overlapLines: OverlapLines}
}

// Chunk implements Chunker.
func (w *WindowChunker) Chunk(file FileInput) ([]Chunk, error) {
	content := string(file.Content)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) == 0 {
		return nil, nil
	}

	step := w.windowLines - w.overlapLines
	if step <= 0 {
		step = w.windowLines
	}

	var chunks []Chunk
	for start := 0; start < len(lines); start += step {
		end := start + w.windowLines
		if end > len(lines) {
			end = len(lines)
		}
		startLine := start + 1
		endLine := end
		chunks = append(chunks, newChunk(file, strings.Join(lines[start:end], "\n"), startLine, endLine))
		if end == len(lines) {
			break
		}
	}
	return chunks, nil
}
