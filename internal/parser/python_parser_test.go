package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

func TestPythonParser_ValidSource(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	tree, err := p.Parse([]byte("import os\n\ndef main():\n    return os.getcwd()\n"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "module", tree.RootNode().Kind())
}

func TestPythonParser_EmptySource(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	tree, err := p.Parse([]byte(""))
	require.NoError(t, err)
	defer tree.Close()
}

func TestPythonParser_MalformedSource(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	tests := []struct {
		name string
		code string
	}{
		{"unclosed paren", "def broken(:\n    pass\n"},
		{"dangling operator", "x = 1 +\n"},
		{"bad class header", "class :\n    pass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := p.Parse([]byte(tt.code))
			assert.Nil(t, tree)
			require.Error(t, err)

			var parseErr *auditerrors.ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
			assert.GreaterOrEqual(t, parseErr.Line, 1)
			assert.Equal(t, auditerrors.ErrorTypeParse, parseErr.Type)
		})
	}
}

func TestPythonParser_Pool(t *testing.T) {
	p := GetPythonParser()
	require.NotNil(t, p)

	tree, err := p.Parse([]byte("class A:\n    pass\n"))
	require.NoError(t, err)
	tree.Close()

	ReleasePythonParser(p)
	ReleasePythonParser(nil)
}
