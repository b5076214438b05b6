package symbollinker

import (
	"errors"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codeaudit/internal/analysis"
	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/parser"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// PythonExtractor turns one Python source unit into a Module inventory
type PythonExtractor struct{}

// NewPythonExtractor creates a new Python symbol extractor
func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{}
}

// Extract parses a unit and records its classes, functions, imports and docstrings.
// Function complexity is scored here because the syntax tree does not outlive the call.
// Malformed syntax yields a *errors.ParseError carrying the unit path.
func (pe *PythonExtractor) Extract(unit types.SourceUnit, p *parser.PythonParser) (*types.Module, error) {
	tree, err := p.Parse(unit.Content)
	if err != nil {
		if perr, ok := asParseError(err); ok {
			return nil, perr.WithPath(unit.Path)
		}
		return nil, err
	}
	defer tree.Close()

	builder := NewModuleBuilder(unit.Path, unit.Content)
	root := tree.RootNode()

	module := builder.Build()
	module.ContentHash = xxhash.Sum64(unit.Content)
	module.Docstring = docstringOf(root, unit.Content)

	pe.visitChildren(builder, root, scope{})

	debug.Log("EXTRACT", "%s: %d classes, %d functions, %d imports",
		module.ID, len(module.Classes), len(module.Functions), len(module.Imports))

	return module, nil
}

func (pe *PythonExtractor) visitChildren(b *ModuleBuilder, node *sitter.Node, sc scope) {
	if node == nil {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		pe.visit(b, node.Child(i), sc)
	}
}

// visit dispatches one node. Imports are collected at any depth, definitions open a scope.
func (pe *PythonExtractor) visit(b *ModuleBuilder, node *sitter.Node, sc scope) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "import_statement":
		pe.extractImportStatement(b, node)
		return

	case "import_from_statement":
		pe.extractImportFromStatement(b, node)
		return

	case "future_import_statement":
		pe.extractFutureImport(b, node)
		return

	case "decorated_definition":
		pe.visit(b, node.ChildByFieldName("definition"), sc)
		return

	case "function_definition":
		pe.extractFunction(b, node, sc)
		return

	case "class_definition":
		pe.extractClass(b, node, sc)
		return

	case "if_statement":
		if sc.moduleLevel() && isMainGuard(node, b.content) {
			b.module.HasMainGuard = true
		}
	}

	pe.visitChildren(b, node, sc)
}

// extractFunction records a function or method, then walks its body for nested
// definitions and local imports
func (pe *PythonExtractor) extractFunction(b *ModuleBuilder, node *sitter.Node, sc scope) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := GetNodeText(nameNode, b.content)
	body := node.ChildByFieldName("body")

	fn := &types.FunctionEntity{
		Name:       name,
		Owner:      sc.owner(b.ID()),
		Complexity: analysis.EstimateComplexity(node),
		Line:       GetNodeLine(node),
		Async:      FindChildByType(node, "async") != nil,
		Docstring:  docstringOf(body, b.content),
	}
	b.AddFunction(fn, sc)

	pe.visitChildren(b, body, scope{qual: sc.child(name), fn: fn})
}

// extractClass records a class under its module-qualified name and walks its body
func (pe *PythonExtractor) extractClass(b *ModuleBuilder, node *sitter.Node, sc scope) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	qual := sc.child(GetNodeText(nameNode, b.content))
	body := node.ChildByFieldName("body")

	class := &types.ClassEntity{
		Name:      qual,
		Module:    b.ID(),
		Role:      types.ClassRoleUnclassified,
		Line:      GetNodeLine(node),
		Docstring: docstringOf(body, b.content),
		Methods:   []*types.FunctionEntity{},
	}
	b.AddClass(class)

	pe.visitChildren(b, body, scope{qual: qual, class: class})
}

// extractImportStatement handles: import a.b, c as d
func (pe *PythonExtractor) extractImportStatement(b *ModuleBuilder, node *sitter.Node) {
	line := GetNodeLine(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if path := importedName(child, b.content); path != "" {
			b.AddImport(types.ImportStatement{Path: path, Line: line})
		}
	}
}

// extractImportFromStatement handles: from x.y import p, q as r / from ..pkg import m / from x import *
func (pe *PythonExtractor) extractImportFromStatement(b *ModuleBuilder, node *sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	base := types.ImportStatement{Line: GetNodeLine(node)}
	switch moduleNode.Kind() {
	case "relative_import":
		prefix := FindChildByType(moduleNode, "import_prefix")
		base.Level = strings.Count(GetNodeText(prefix, b.content), ".")
		base.Path = GetNodeText(FindChildByType(moduleNode, "dotted_name"), b.content)
	default:
		base.Path = GetNodeText(moduleNode, b.content)
	}

	var names []string
	wildcard := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.StartByte() == moduleNode.StartByte() {
			continue
		}
		if child.Kind() == "wildcard_import" {
			wildcard = true
			continue
		}
		if name := importedName(child, b.content); name != "" {
			names = append(names, name)
		}
	}

	if wildcard || len(names) == 0 {
		b.AddImport(base)
		return
	}
	for _, name := range names {
		imp := base
		imp.Name = name
		b.AddImport(imp)
	}
}

// extractFutureImport handles: from __future__ import annotations
func (pe *PythonExtractor) extractFutureImport(b *ModuleBuilder, node *sitter.Node) {
	line := GetNodeLine(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		if name := importedName(node.Child(i), b.content); name != "" {
			b.AddImport(types.ImportStatement{Path: "__future__", Name: name, Line: line})
		}
	}
}

func asParseError(err error) (*auditerrors.ParseError, bool) {
	var perr *auditerrors.ParseError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// importedName returns the dotted name of an import list entry, ignoring any alias
func importedName(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "dotted_name":
		return GetNodeText(node, content)
	case "aliased_import":
		return GetNodeText(node.ChildByFieldName("name"), content)
	}
	return ""
}

// isMainGuard matches: if __name__ == "__main__": (either operand order)
func isMainGuard(node *sitter.Node, content []byte) bool {
	cond := node.ChildByFieldName("condition")
	if cond == nil || cond.Kind() != "comparison_operator" || cond.ChildCount() != 3 {
		return false
	}
	if cond.Child(1).Kind() != "==" {
		return false
	}

	left, right := cond.Child(0), cond.Child(2)
	if left.Kind() == "string" {
		left, right = right, left
	}
	return left.Kind() == "identifier" && GetNodeText(left, content) == "__name__" &&
		right.Kind() == "string" && strings.Trim(GetNodeText(right, content), `"'`) == "__main__"
}

// docstringOf returns the leading string literal of a module or block, trimmed
func docstringOf(block *sitter.Node, content []byte) string {
	if block == nil {
		return ""
	}

	var first *sitter.Node
	for i := uint(0); i < block.ChildCount(); i++ {
		child := block.Child(i)
		if child != nil && child.IsNamed() && child.Kind() != "comment" {
			first = child
			break
		}
	}
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}

	str := FindChildByType(first, "string")
	if str == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range FindChildrenByType(str, "string_content") {
		sb.WriteString(GetNodeText(part, content))
	}
	return strings.TrimSpace(sb.String())
}
