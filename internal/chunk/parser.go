package chunk

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// parser wraps a tree-sitter parser for one of the registry's languages.
type parser struct {
	p        *sitter.Parser
	registry *LanguageRegistry
}

func newParser(registry *LanguageRegistry) *parser {
	return &parser{p: sitter.NewParser(), registry: registry}
}

func (p *parser) close() {
	p.p.Close()
}

// parse runs tree-sitter over source and flattens the result into a Tree.
func (p *parser) parse(ctx context.Context, source []byte, language string) (*Tree, error) {
	_, tsLang, ok := p.registry.Get(language)
	if !ok {
		return nil, fmt.Errorf("chunk: no grammar registered for language %q", language)
	}
	p.p.SetLanguage(tsLang)

	tsTree, err := p.p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("chunk: parse failed: %w", err)
	}
	if tsTree == nil {
		return nil, fmt.Errorf("chunk: parse produced nil tree")
	}

	return &Tree{
		Root:     convert(tsTree.RootNode()),
		Source:   source,
		Language: language,
	}, nil
}

func convert(n *sitter.Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:       n.Type(),
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		StartPoint: Point{Row: n.StartPoint().Row, Column: n.StartPoint().Column},
		EndPoint:   Point{Row: n.EndPoint().Row, Column: n.EndPoint().Column},
	}
	count := int(n.ChildCount())
	if count > 0 {
		out.Children = make([]*Node, 0, count)
		for i := 0; i < count; i++ {
			if child := convert(n.Child(i)); child != nil {
				out.Children = append(out.Children, child)
			}
		}
	}
	return out
}
