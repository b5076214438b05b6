package symbollinker

import (
	"bytes"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codeaudit/internal/types"
	"github.com/standardbeagle/codeaudit/pkg/pathutil"
)

// scope is the lexical position of the walk inside a module
type scope struct {
	qual  string                // qualified name inside the module, "" at module level
	class *types.ClassEntity    // enclosing class when directly in a class body
	fn    *types.FunctionEntity // enclosing named function
}

// owner returns the owner string for entities declared in this scope
func (s scope) owner(moduleID string) string {
	if s.qual == "" {
		return moduleID
	}
	return moduleID + "." + s.qual
}

// child returns the scope nested under name
func (s scope) child(name string) string {
	if s.qual == "" {
		return name
	}
	return s.qual + "." + name
}

// moduleLevel reports whether the walk is at the top of the module
func (s scope) moduleLevel() bool {
	return s.qual == ""
}

// ModuleBuilder accumulates the inventory of one source unit. Every unit gets its own
// builder, so extraction workers never share mutable state.
type ModuleBuilder struct {
	module  *types.Module
	content []byte
}

// NewModuleBuilder creates a builder for the unit at relPath
func NewModuleBuilder(relPath string, content []byte) *ModuleBuilder {
	return &ModuleBuilder{
		module: &types.Module{
			ID:        pathutil.ModuleID(relPath, types.PythonSourceSuffix),
			Path:      relPath,
			Lines:     countLines(content),
			Classes:   []*types.ClassEntity{},
			Functions: []*types.FunctionEntity{},
			Imports:   []types.ImportStatement{},
		},
		content: content,
	}
}

// ID returns the canonical identifier of the module being built
func (mb *ModuleBuilder) ID() string {
	return mb.module.ID
}

// AddImport records an import statement as written
func (mb *ModuleBuilder) AddImport(imp types.ImportStatement) {
	mb.module.Imports = append(mb.module.Imports, imp)
}

// AddClass records a class. Nested classes are stored flat with qualified names.
func (mb *ModuleBuilder) AddClass(c *types.ClassEntity) {
	mb.module.Classes = append(mb.module.Classes, c)
}

// AddFunction attaches a function to the innermost enclosing function, class or module
func (mb *ModuleBuilder) AddFunction(fn *types.FunctionEntity, sc scope) {
	switch {
	case sc.fn != nil:
		sc.fn.Nested = append(sc.fn.Nested, fn)
	case sc.class != nil:
		sc.class.Methods = append(sc.class.Methods, fn)
	default:
		mb.module.Functions = append(mb.module.Functions, fn)
	}
}

// Build returns the finished module
func (mb *ModuleBuilder) Build() *types.Module {
	return mb.module
}

// GetNodeText extracts text content from an AST node
func GetNodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()

	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}

	return string(content[start:end])
}

// GetNodeLine returns the 1-based line of a node
func GetNodeLine(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

// FindChildByType finds the first child node of the given type
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}

	return nil
}

// FindChildrenByType finds all child nodes of the given type
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	if node == nil {
		return nil
	}

	var children []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			children = append(children, child)
		}
	}

	return children
}

// countLines counts lines the way an editor does: a trailing newline does not start a line
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
