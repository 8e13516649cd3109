package errors

// Category classifies a SeekrError for metrics and CLI exit-code mapping.
type Category string

const (
	CategoryWorkspace Category = "WORKSPACE"
	CategoryIndex     Category = "INDEX"
	CategoryParse     Category = "PARSE"
	CategoryEmbedder  Category = "EMBEDDER"
	CategoryIO        Category = "IO"
	CategoryCancelled Category = "CANCELLED"
)

// Severity reports how seekr should react to an error.
type Severity string

const (
	SeverityFatal   Severity = "FATAL"   // aborts the current run
	SeverityWarning Severity = "WARNING" // logged, run continues
)

var categoryByKind = map[Kind]Category{
	KindWorkspaceMissing: CategoryWorkspace,
	KindIndexMissing:     CategoryIndex,
	KindIndexCorrupt:     CategoryIndex,
	KindParseError:       CategoryParse,
	KindEmbedderError:    CategoryEmbedder,
	KindIoError:          CategoryIO,
	KindCancelled:        CategoryCancelled,
}

func (k Kind) Category() Category {
	if c, ok := categoryByKind[k]; ok {
		return c
	}
	return CategoryIO
}

func (k Kind) Severity() Severity {
	if k.fatal() {
		return SeverityFatal
	}
	return SeverityWarning
}
