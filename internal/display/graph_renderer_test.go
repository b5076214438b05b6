package display

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
)

func sampleGraph() *types.DependencyGraph {
	return &types.DependencyGraph{
		Nodes:   []string{"app", "src", "src.utils"},
		Edges:   []types.Edge{{Source: "app", Target: "src"}, {Source: "app", Target: "src.utils"}},
		Phantom: []string{"src"},
	}
}

func TestDOTSource(t *testing.T) {
	want := `digraph dependencies {
  rankdir=LR;
  node [shape=box, fontname="Helvetica", fontsize=10];
  "app";
  "src" [style=dashed];
  "src.utils";
  "app" -> "src";
  "app" -> "src.utils";
}
`
	assert.Equal(t, want, DOTSource(sampleGraph()))
}

func TestSelectGraphRenderer(t *testing.T) {
	assert.Equal(t, GraphRendererNone, SelectGraphRenderer("none", "", "").Name())
	assert.Equal(t, GraphRendererText, SelectGraphRenderer("text", "", "").Name())
	assert.Equal(t, GraphRendererGraphviz, SelectGraphRenderer("dot", "g.png", "g.png").Name())

	auto := SelectGraphRenderer("auto", "g.png", "g.png").Name()
	assert.Contains(t, []string{GraphRendererGraphviz, GraphRendererText}, auto)
}

func TestGraphvizRenderer_MissingBinary(t *testing.T) {
	r := &GraphvizRenderer{Binary: filepath.Join(t.TempDir(), "dot"), OutputPath: filepath.Join(t.TempDir(), "g.png")}
	_, err := r.Render(context.Background(), sampleGraph())

	var renderErr *auditerrors.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, GraphRendererGraphviz, renderErr.Renderer)
}

func TestGraphvizRenderer_WritesImage(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for dot")
	}
	dir := t.TempDir()
	fakeDot := filepath.Join(dir, "dot")
	script := "#!/bin/sh\ncat >/dev/null\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-o\" ]; then shift; echo png > \"$1\"; fi\n  shift\ndone\n"
	require.NoError(t, os.WriteFile(fakeDot, []byte(script), 0755))

	out := filepath.Join(dir, "report", "map.png")
	r := &GraphvizRenderer{Binary: fakeDot, OutputPath: out, Link: "map.png"}
	res, err := r.Render(context.Background(), sampleGraph())
	require.NoError(t, err)

	assert.Equal(t, "map.png", res.ImageLink)
	assert.FileExists(t, out)
}

func TestTextGraphRenderer(t *testing.T) {
	res, err := TextGraphRenderer{}.Render(context.Background(), sampleGraph())
	require.NoError(t, err)
	assert.Empty(t, res.ImageLink)
	assert.Equal(t, DOTSource(sampleGraph()), res.DOT)
}
