package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/codeaudit/internal/types"
)

// Renderer selections accepted in the report section
const (
	GraphAuto = "auto" // Graphviz when available, DOT text otherwise
	GraphDot  = "dot"
	GraphText = "text"
	GraphNone = "none"

	TablesMarkdown = "markdown"
	TablesPlain    = "plain"

	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

type Config struct {
	Version   int
	Project   Project
	Discovery Discovery
	Analysis  Analysis
	Report    Report
	Watch     Watch
}

type Project struct {
	Root string
	Name string
}

type Discovery struct {
	Include          []string // doublestar patterns a source unit must match
	Exclude          []string // doublestar patterns that drop files and directories
	DataExtensions   []string // suffixes reported as data files
	MaxFileSize      int64
	MaxFileCount     int
	RespectGitignore bool // Process .gitignore files for additional exclusions
}

type Analysis struct {
	Workers int // 0 = auto-detect
}

type Report struct {
	Output     string // Markdown report path, relative to the project root
	GraphImage string // PNG written next to the report when Graphviz is available
	Graph      string // auto | dot | text | none
	Tables     string // markdown | plain
	Format     string // markdown | json | yaml
}

type Watch struct {
	DebounceMs int // Debounce time for file change events
}

// Load resolves the configuration for a run. An explicit path must exist; otherwise the
// project's .codeaudit.kdl is used when present. A global ~/.codeaudit.kdl is applied first
// so the project file overrides it.
func Load(path string, rootDir string) (*Config, error) {
	homeDir, _ := os.UserHomeDir()
	return loadWithHome(path, rootDir, homeDir)
}

func loadWithHome(path, rootDir, homeDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	absRoot, err := filepath.Abs(searchDir)
	if err != nil {
		absRoot = searchDir
	}
	cfg := Default(absRoot)

	// Step 1: global base config
	if homeDir != "" && filepath.Clean(homeDir) != absRoot {
		if _, err := overlayKDLFile(cfg, filepath.Join(homeDir, types.DefaultConfigFile), false); err != nil {
			return nil, err
		}
		cfg.Project.Root = absRoot
	}

	// Step 2: project config on top
	if path != "" {
		if _, err := overlayKDLFile(cfg, path, true); err != nil {
			return nil, err
		}
	} else if _, err := overlayKDLFile(cfg, filepath.Join(searchDir, types.DefaultConfigFile), false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReportPath resolves the report output against root. Machine-readable formats swap the
// .md suffix for their own.
func (c *Config) ReportPath(root string) string {
	return reportPathFor(c.Report.Output, c.Report.Format, root)
}

// GraphImagePath is the PNG written next to the report
func (c *Config) GraphImagePath(root string) string {
	return filepath.Join(filepath.Dir(c.ReportPath(root)), c.Report.GraphImage)
}

// ReportArtifacts lists every file a run may write under root: the report in each format
// and the graph image. Discovery never treats them as project input.
func (c *Config) ReportArtifacts(root string) []string {
	if c.Report.Output == "-" {
		return nil
	}
	out := make([]string, 0, 4)
	for _, format := range []string{FormatMarkdown, FormatJSON, FormatYAML} {
		out = append(out, reportPathFor(c.Report.Output, format, root))
	}
	if c.Report.GraphImage != "" {
		out = append(out, c.GraphImagePath(root))
	}
	return DeduplicatePatterns(out)
}

func reportPathFor(output, format, root string) string {
	if format != FormatMarkdown && strings.HasSuffix(output, ".md") {
		output = strings.TrimSuffix(output, ".md") + "." + format
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, output)
	}
	return output
}

// Default returns the configuration used when no file overrides it
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{
			Root: root,
		},
		Discovery: Discovery{
			Include:          []string{"**/*" + types.PythonSourceSuffix},
			Exclude:          DefaultExclusions(),
			DataExtensions:   []string{".csv", ".xlsx", ".json", ".yaml", ".yml"},
			MaxFileSize:      types.DefaultMaxFileSize,
			MaxFileCount:     types.DefaultMaxFileCount,
			RespectGitignore: true,
		},
		Analysis: Analysis{
			Workers: 0,
		},
		Report: Report{
			Output:     types.DefaultReportFile,
			GraphImage: types.DefaultGraphImage,
			Graph:      GraphAuto,
			Tables:     TablesMarkdown,
			Format:     FormatMarkdown,
		},
		Watch: Watch{
			DebounceMs: types.DefaultWatchDebounceMs,
		},
	}
}

// DefaultExclusions lists directories that never hold project sources
func DefaultExclusions() []string {
	return []string{
		// VCS metadata
		"**/.git/**",
		"**/.hg/**",

		// Python caches & environments
		"**/__pycache__/**",
		"**/.pytest_cache/**",
		"**/.mypy_cache/**",
		"**/.ruff_cache/**",
		"**/.venv/**",
		"**/venv/**",
		"**/site-packages/**",
		"**/.tox/**",
		"**/.nox/**",
		"**/*.egg-info/**",

		// Build output
		"**/_build/**", // Sphinx
		"**/build/**",
		"**/dist/**",

		// Other ecosystems
		"**/node_modules/**",
	}
}

// DeduplicatePatterns removes duplicate patterns, keeping the first occurrence
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
