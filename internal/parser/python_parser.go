package parser

import (
	"errors"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

var (
	errSyntax     = errors.New("invalid syntax")
	errMissing    = errors.New("missing token")
	errNoTree     = errors.New("parser produced no syntax tree")
	errNoLanguage = errors.New("python grammar unavailable")
)

// PythonParser wraps a tree-sitter parser bound to the Python grammar.
// A PythonParser is not safe for concurrent use; take one per worker from the pool.
type PythonParser struct {
	parser *tree_sitter.Parser
	err    error
}

// NewPythonParser creates a parser for Python source
func NewPythonParser() *PythonParser {
	parser := tree_sitter.NewParser()
	languagePtr := tree_sitter_python.Language()
	language := tree_sitter.NewLanguage(languagePtr)
	if err := parser.SetLanguage(language); err != nil {
		parser.Close()
		return &PythonParser{err: errNoLanguage}
	}
	return &PythonParser{parser: parser}
}

// Parse parses one source unit. The caller owns the returned tree and must Close it.
// Source that tree-sitter can only recover with ERROR or MISSING nodes is rejected with a
// *errors.ParseError pointing at the first offending node.
func (p *PythonParser) Parse(content []byte) (*tree_sitter.Tree, error) {
	if p.err != nil {
		return nil, auditerrors.NewParseError("", 0, 0, "", p.err)
	}

	tree := p.parser.Parse(content, nil)
	if tree == nil {
		return nil, auditerrors.NewParseError("", 0, 0, "", errNoTree)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, auditerrors.NewParseError("", 0, 0, "", errNoTree)
	}

	if root.HasError() {
		bad := firstErrorNode(root)
		tree.Close()
		if bad == nil {
			return nil, auditerrors.NewParseError("", 1, 1, "", errSyntax)
		}
		pos := bad.StartPosition()
		cause := errSyntax
		if bad.IsMissing() {
			cause = errMissing
		}
		return nil, auditerrors.NewParseError("", int(pos.Row)+1, int(pos.Column)+1, tokenText(bad, content), cause)
	}

	return tree, nil
}

// Close releases the underlying tree-sitter parser
func (p *PythonParser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// firstErrorNode finds the first ERROR or MISSING node in document order
func firstErrorNode(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// tokenText returns a short excerpt of the node text for error messages
func tokenText(node *tree_sitter.Node, content []byte) string {
	if node.IsMissing() {
		return node.Kind()
	}
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(content)) || end > uint(len(content)) || start >= end {
		return ""
	}
	text := content[start:end]
	if len(text) > 32 {
		text = text[:32]
	}
	for i, b := range text {
		if b == '\n' {
			text = text[:i]
			break
		}
	}
	return string(text)
}

// Parsers are pooled so that each extraction worker reuses one tree-sitter parser
var pythonParserPool = sync.Pool{
	New: func() any {
		return NewPythonParser()
	},
}

// GetPythonParser takes a parser from the pool
func GetPythonParser() *PythonParser {
	return pythonParserPool.Get().(*PythonParser)
}

// ReleasePythonParser returns a parser to the pool
func ReleasePythonParser(p *PythonParser) {
	if p == nil {
		return
	}
	pythonParserPool.Put(p)
}
