package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codeaudit/internal/audit"
	"github.com/standardbeagle/codeaudit/internal/config"
	"github.com/standardbeagle/codeaudit/internal/discovery"
	"github.com/standardbeagle/codeaudit/internal/display"
	"github.com/standardbeagle/codeaudit/internal/metrics"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" && c.Args().Present() {
		root = c.Args().First()
	}

	cfg, err := config.Load(c.String("config"), root)
	if err != nil {
		return nil, err
	}

	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		cfg.Project.Root = absRoot
	}
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Discovery.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, excludeFlags...)
	}
	if c.IsSet("workers") {
		cfg.Analysis.Workers = c.Int("workers")
	}
	if v := c.String("output"); v != "" {
		cfg.Report.Output = v
	}
	if v := c.String("format"); v != "" {
		cfg.Report.Format = v
	}
	if v := c.String("graph"); v != "" {
		cfg.Report.Graph = v
	}
	if v := c.String("tables"); v != "" {
		cfg.Report.Tables = v
	}
	if c.IsSet("debounce") {
		cfg.Watch.DebounceMs = c.Int("debounce")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func auditCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	console := display.NewConsole(c.App.ErrWriter, c.Bool("quiet"))
	scanner, err := discovery.NewScanner(cfg)
	if err != nil {
		return err
	}

	_, err = runAudit(c.Context, cfg, scanner, console, c.App.Writer)
	return err
}

// runAudit performs one discovery, analysis and report cycle and returns the report path
func runAudit(ctx context.Context, cfg *config.Config, scanner *discovery.Scanner, console *display.Console, stdout io.Writer) (string, error) {
	start := time.Now()
	console.Step("1. Discovering project files in %s...", scanner.Root())
	res, err := scanner.Scan(ctx)
	if err != nil {
		return "", err
	}
	if len(res.Skipped) > 0 {
		console.Warn("Skipped %d files (size or count limits)", len(res.Skipped))
	}

	engine := audit.NewEngine(cfg.Analysis.Workers)
	console.Step("2. Analyzing %d Python files with %d workers...", len(res.Units), engine.Workers())
	project, warnings, err := engine.Run(ctx, audit.Request{
		Root:      scanner.Root(),
		Name:      cfg.Project.Name,
		Units:     res.Units,
		DataFiles: res.DataFiles,
	})
	if err != nil {
		return "", err
	}

	console.Step("3. Generating %s report...", cfg.Report.Format)
	path, err := writeReport(ctx, cfg, scanner.Root(), project, warnings, stdout)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(metrics.FormatSummary(project.Stats), "\n") {
		console.Step("   %s", line)
	}
	for _, w := range warnings {
		console.Warn("warning: %s (%s): %s", w.Path, w.Kind, w.Message)
	}

	if path == "" {
		console.Success("Audit complete in %.2f seconds.", time.Since(start).Seconds())
	} else {
		console.Success("Audit complete in %.2f seconds. Report saved to %s", time.Since(start).Seconds(), path)
	}
	return path, nil
}

// writeReport renders the project in the configured format. An output of "-" writes to
// stdout and returns an empty path.
func writeReport(ctx context.Context, cfg *config.Config, root string, p *types.Project, warnings []types.Warning, stdout io.Writer) (string, error) {
	toStdout := cfg.Report.Output == "-"
	outPath := cfg.ReportPath(root)

	var content strings.Builder
	switch cfg.Report.Format {
	case config.FormatJSON, config.FormatYAML:
		if err := display.Export(&content, cfg.Report.Format, p, warnings); err != nil {
			return "", err
		}
	default:
		imagePath := cfg.GraphImagePath(root)
		graph := cfg.Report.Graph
		if toStdout && graph != config.GraphNone {
			// No report directory to put an image next to
			graph = config.GraphText
		}
		gen := display.NewReportGenerator(
			display.SelectTableRenderer(cfg.Report.Tables),
			display.SelectGraphRenderer(graph, imagePath, filepath.ToSlash(cfg.Report.GraphImage)),
		)
		content.WriteString(gen.Generate(ctx, p, warnings))
	}

	if toStdout {
		_, err := io.WriteString(stdout, content.String())
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, []byte(content.String()), 0644); err != nil {
		return "", err
	}
	return outPath, nil
}
