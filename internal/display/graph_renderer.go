package display

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// Graph renderer names, matching the report.graph config values
const (
	GraphRendererGraphviz = "dot"
	GraphRendererText     = "text"
	GraphRendererNone     = "none"
)

// GraphResult is what a renderer contributes to the report
type GraphResult struct {
	ImageLink string // link to a written image, relative to the report
	DOT       string // DOT source to embed as a code block
}

// GraphRenderer renders the dependency graph for the report
type GraphRenderer interface {
	Name() string
	Render(ctx context.Context, g *types.DependencyGraph) (GraphResult, error)
}

// SelectGraphRenderer picks a renderer for the report.graph mode. "auto" uses Graphviz
// when a dot binary is on PATH and falls back to embedded DOT text otherwise.
func SelectGraphRenderer(mode, imagePath, imageLink string) GraphRenderer {
	switch mode {
	case GraphRendererNone:
		return NoGraphRenderer{}
	case GraphRendererText:
		return TextGraphRenderer{}
	case GraphRendererGraphviz:
		return &GraphvizRenderer{Binary: "dot", OutputPath: imagePath, Link: imageLink}
	}

	if bin, err := exec.LookPath("dot"); err == nil {
		return &GraphvizRenderer{Binary: bin, OutputPath: imagePath, Link: imageLink}
	}
	return TextGraphRenderer{}
}

// DOTSource renders the graph in Graphviz DOT. Phantom package nodes are dashed.
func DOTSource(g *types.DependencyGraph) string {
	phantom := make(map[string]bool, len(g.Phantom))
	for _, id := range g.Phantom {
		phantom[id] = true
	}

	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, fontname=\"Helvetica\", fontsize=10];\n")
	for _, id := range g.Nodes {
		if phantom[id] {
			fmt.Fprintf(&sb, "  %q [style=dashed];\n", id)
		} else {
			fmt.Fprintf(&sb, "  %q;\n", id)
		}
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %q -> %q;\n", e.Source, e.Target)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GraphvizRenderer writes a PNG through the dot binary
type GraphvizRenderer struct {
	Binary     string
	OutputPath string
	Link       string
}

func (r *GraphvizRenderer) Name() string { return GraphRendererGraphviz }

func (r *GraphvizRenderer) Render(ctx context.Context, g *types.DependencyGraph) (GraphResult, error) {
	if r.OutputPath == "" {
		return GraphResult{}, auditerrors.NewRenderError(r.Name(), errors.New("no output path for graph image"))
	}
	if err := os.MkdirAll(filepath.Dir(r.OutputPath), 0755); err != nil {
		return GraphResult{}, auditerrors.NewRenderError(r.Name(), err)
	}

	cmd := exec.CommandContext(ctx, r.Binary, "-Tpng", "-o", r.OutputPath)
	cmd.Stdin = strings.NewReader(DOTSource(g))
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return GraphResult{}, auditerrors.NewRenderError(r.Name(), err)
	}

	link := r.Link
	if link == "" {
		link = filepath.Base(r.OutputPath)
	}
	return GraphResult{ImageLink: filepath.ToSlash(link)}, nil
}

// TextGraphRenderer embeds the DOT source in the report
type TextGraphRenderer struct{}

func (TextGraphRenderer) Name() string { return GraphRendererText }

func (TextGraphRenderer) Render(_ context.Context, g *types.DependencyGraph) (GraphResult, error) {
	return GraphResult{DOT: DOTSource(g)}, nil
}

// NoGraphRenderer leaves the graph out
type NoGraphRenderer struct{}

func (NoGraphRenderer) Name() string { return GraphRendererNone }

func (NoGraphRenderer) Render(context.Context, *types.DependencyGraph) (GraphResult, error) {
	return GraphResult{}, nil
}
