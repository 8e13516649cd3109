package chunk

// astAwareLanguages are the language tags routed through CodeChunker; every
// other tag recognized by the walker falls back to the sliding window.
var astAwareLanguages = map[string]bool{
	"rust":       true,
	"python":     true,
	"typescript": true,
	"javascript": true,
	"go":         true,
}

// Dispatcher routes a file to the AST-aware chunker or the sliding-window
// chunker by its language tag.
type Dispatcher struct {
	code   *CodeChunker
	window *WindowChunker
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{code: NewCodeChunker(), window: NewWindowChunker()}
}

func (d *Dispatcher) Close() {
	d.code.Close()
}

// Chunk implements Chunker.
func (d *Dispatcher) Chunk(file FileInput) ([]Chunk, error) {
	if astAwareLanguages[file.LanguageTag] {
		return d.code.Chunk(file)
	}
	return d.window.Chunk(file)
}
