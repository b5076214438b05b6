package symbollinker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeaudit/internal/parser"
	"github.com/standardbeagle/codeaudit/internal/types"
)

func TestModuleBuilder(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		mb := NewModuleBuilder("src/utils/math.py", []byte("x = 1\ny = 2"))
		assert.Equal(t, "src.utils.math", mb.ID())

		m := mb.Build()
		assert.Equal(t, "src/utils/math.py", m.Path)
		assert.Equal(t, 2, m.Lines)
		assert.NotNil(t, m.Classes)
		assert.NotNil(t, m.Functions)
		assert.NotNil(t, m.Imports)
	})

	t.Run("package init", func(t *testing.T) {
		assert.Equal(t, "pkg.__init__", NewModuleBuilder("pkg/__init__.py", nil).ID())
	})

	t.Run("function attachment", func(t *testing.T) {
		mb := NewModuleBuilder("a.py", nil)
		cls := &types.ClassEntity{Name: "C"}
		mb.AddClass(cls)

		outer := &types.FunctionEntity{Name: "outer"}
		mb.AddFunction(outer, scope{})
		mb.AddFunction(&types.FunctionEntity{Name: "method"}, scope{qual: "C", class: cls})
		mb.AddFunction(&types.FunctionEntity{Name: "inner"}, scope{qual: "outer", fn: outer})

		m := mb.Build()
		require.Len(t, m.Functions, 1)
		require.Len(t, cls.Methods, 1)
		assert.Equal(t, "method", cls.Methods[0].Name)
		require.Len(t, outer.Nested, 1)
		assert.Equal(t, "inner", outer.Nested[0].Name)
	})
}

func TestScope(t *testing.T) {
	top := scope{}
	assert.True(t, top.moduleLevel())
	assert.Equal(t, "m", top.owner("m"))
	assert.Equal(t, "C", top.child("C"))

	nested := scope{qual: top.child("C")}
	assert.False(t, nested.moduleLevel())
	assert.Equal(t, "m.C", nested.owner("m"))
	assert.Equal(t, "C.run", nested.child("run"))
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\n\n", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines([]byte(tt.in)), "%q", tt.in)
	}
}

func TestNodeHelpers(t *testing.T) {
	src := []byte("import os\nimport sys\n\ndef f():\n    pass\n")
	p := parser.GetPythonParser()
	defer parser.ReleasePythonParser(p)

	tree, err := p.Parse(src)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	imports := FindChildrenByType(root, "import_statement")
	require.Len(t, imports, 2)
	assert.Equal(t, "import sys", GetNodeText(imports[1], src))
	assert.Equal(t, 2, GetNodeLine(imports[1]))

	fn := FindChildByType(root, "function_definition")
	require.NotNil(t, fn)
	assert.Equal(t, 4, GetNodeLine(fn))
	assert.Nil(t, FindChildByType(root, "class_definition"))

	assert.Empty(t, GetNodeText(nil, src))
	assert.Zero(t, GetNodeLine(nil))
}
