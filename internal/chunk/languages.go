package chunk

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageConfig names the tree-sitter node types that mark a top-level
// declaration worth cutting a chunk at, for one AST-aware language.
type LanguageConfig struct {
	Name           string
	FunctionTypes  []string
	ClassTypes     []string
	InterfaceTypes []string
	MethodTypes    []string
	TypeDefTypes   []string
	ConstantTypes  []string
	VariableTypes  []string
}

// declNodeTypes flattens a LanguageConfig into the set of tree-sitter node
// types that should each become their own chunk.
func (c *LanguageConfig) declNodeTypes() map[string]bool {
	set := make(map[string]bool)
	for _, group := range [][]string{
		c.FunctionTypes, c.ClassTypes, c.InterfaceTypes,
		c.MethodTypes, c.TypeDefTypes, c.ConstantTypes, c.VariableTypes,
	} {
		for _, t := range group {
			set[t] = true
		}
	}
	return set
}

// LanguageRegistry maps the language tags produced by the walker to a
// tree-sitter grammar and the node types that delimit top-level chunks.
type LanguageRegistry struct {
	mu      sync.RWMutex
	configs map[string]*LanguageConfig
	ts      map[string]*sitter.Language
}

// NewLanguageRegistry builds a registry covering the AST-aware languages:
// rust, python, typescript (+tsx), javascript (+jsx), go.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		configs: make(map[string]*LanguageConfig),
		ts:      make(map[string]*sitter.Language),
	}
	r.register(&LanguageConfig{
		Name:          "go",
		FunctionTypes: []string{"function_declaration"},
		MethodTypes:   []string{"method_declaration"},
		TypeDefTypes:  []string{"type_declaration"},
		ConstantTypes: []string{"const_declaration"},
		VariableTypes: []string{"var_declaration"},
	}, golang.GetLanguage())

	r.register(&LanguageConfig{
		Name:           "python",
		FunctionTypes:  []string{"function_definition"},
		ClassTypes:     []string{"class_definition"},
		VariableTypes:  []string{"assignment"},
	}, python.GetLanguage())

	tsConfig := &LanguageConfig{
		Name:           "typescript",
		FunctionTypes:  []string{"function_declaration"},
		MethodTypes:    []string{"method_definition"},
		ClassTypes:     []string{"class_declaration"},
		InterfaceTypes: []string{"interface_declaration"},
		TypeDefTypes:   []string{"type_alias_declaration"},
		ConstantTypes:  []string{"lexical_declaration"},
		VariableTypes:  []string{"variable_declaration"},
	}
	r.register(tsConfig, typescript.GetLanguage())
	r.register(tsConfig, tsx.GetLanguage()) // .tsx reuses the typescript config

	jsConfig := &LanguageConfig{
		Name:          "javascript",
		FunctionTypes: []string{"function_declaration", "function"},
		MethodTypes:   []string{"method_definition"},
		ClassTypes:    []string{"class_declaration"},
		ConstantTypes: []string{"lexical_declaration"},
		VariableTypes: []string{"variable_declaration"},
	}
	r.register(jsConfig, javascript.GetLanguage())

	r.register(&LanguageConfig{
		Name:          "rust",
		FunctionTypes: []string{"function_item"},
		ClassTypes:    []string{"struct_item", "enum_item"},
		InterfaceTypes: []string{"trait_item"},
		TypeDefTypes:  []string{"type_item", "impl_item"},
		ConstantTypes: []string{"const_item", "static_item"},
	}, rust.GetLanguage())

	return r
}

func (r *LanguageRegistry) register(cfg *LanguageConfig, tsLang *sitter.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.Name] = cfg
	r.ts[cfg.Name] = tsLang
}

// Get returns the config and grammar registered for a language tag as
// produced by the walker (e.g. "typescript" covers both .ts and .tsx).
func (r *LanguageRegistry) Get(languageTag string) (*LanguageConfig, *sitter.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[strings.ToLower(languageTag)]
	if !ok {
		return nil, nil, false
	}
	return cfg, r.ts[cfg.Name], true
}

var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the process-wide language registry.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
