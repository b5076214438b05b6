package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// LoadKDL loads .codeaudit.kdl from projectRoot over the defaults.
// Returns nil, nil when the file does not exist.
func LoadKDL(projectRoot string) (*Config, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		absRoot = projectRoot
	}

	cfg := Default(absRoot)
	found, err := overlayKDLFile(cfg, filepath.Join(projectRoot, types.DefaultConfigFile), false)
	if err != nil || !found {
		return nil, err
	}
	return cfg, nil
}

// overlayKDLFile applies the file at path onto cfg. A missing file is an error only when
// required is set.
func overlayKDLFile(cfg *Config, path string, required bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return false, nil
		}
		return false, auditerrors.NewFileError("read", path, err)
	}

	if err := parseKDL(cfg, string(content)); err != nil {
		return false, auditerrors.NewConfigError(path, "", err)
	}

	// Resolve relative roots against the directory holding the file
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Project.Root))
	}

	return true, nil
}

// parseKDL overlays a KDL document onto cfg. Scalars replace the current value, include
// replaces the pattern list, exclude extends it.
func parseKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children { // project { root "." name "foo" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "discovery":
			parseDiscovery(cfg, n)
		case "analysis":
			for _, cn := range n.Children {
				if nodeName(cn) == "workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.Workers = v
					}
				}
			}
		case "report":
			for _, cn := range n.Children {
				assignSimpleString(cn, "output", func(v string) { cfg.Report.Output = v })
				assignSimpleString(cn, "graph_image", func(v string) { cfg.Report.GraphImage = v })
				assignSimpleString(cn, "graph", func(v string) { cfg.Report.Graph = v })
				assignSimpleString(cn, "tables", func(v string) { cfg.Report.Tables = v })
				assignSimpleString(cn, "format", func(v string) { cfg.Report.Format = v })
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "include":
			cfg.Discovery.Include = collectStringArgs(n)
		case "exclude":
			cfg.Discovery.Exclude = DeduplicatePatterns(append(cfg.Discovery.Exclude, collectStringArgs(n)...))
		default:
			log.Printf("WARNING: unknown section '%s' in KDL config ignored", nodeName(n))
		}
	}

	return nil
}

func parseDiscovery(cfg *Config, n *document.Node) {
	includeSeen := false
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "include":
			if !includeSeen {
				cfg.Discovery.Include = nil
				includeSeen = true
			}
			cfg.Discovery.Include = append(cfg.Discovery.Include, collectStringArgs(cn)...)
		case "exclude":
			cfg.Discovery.Exclude = DeduplicatePatterns(append(cfg.Discovery.Exclude, collectStringArgs(cn)...))
		case "data_extensions":
			cfg.Discovery.DataExtensions = collectStringArgs(cn)
		case "max_file_size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Discovery.MaxFileSize = int64(v)
			}
			if s, ok := firstStringArg(cn); ok {
				if sz, err := parseSize(s); err == nil {
					cfg.Discovery.MaxFileSize = sz
				} else {
					log.Printf("WARNING: invalid max_file_size %q in KDL config: %v", s, err)
				}
			}
		case "max_file_count":
			if v, ok := firstIntArg(cn); ok {
				cfg.Discovery.MaxFileCount = v
			}
		case "respect_gitignore":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Discovery.RespectGitignore = b
			}
		}
	}
}

// Helper functions over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline format: include "a" "b"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "pattern" }, where each child node is named by the string
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
