// Package discovery walks a project root and hands the audit engine its source units and
// data files. It is the only part of the audit that touches the file system on input.
package discovery

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/codeaudit/internal/config"
	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
	"github.com/standardbeagle/codeaudit/pkg/pathutil"
)

// Skip reasons recorded in Result.Skipped
const (
	SkipOversized  = "exceeds max file size"
	SkipUnreadable = "unreadable"
	SkipFileLimit  = "file count limit reached"
)

// dirProbe stands in for "some entry below this directory" when testing directory exclusions
const dirProbe = "__codeaudit_probe__"

var dataFileTypes = map[string]string{
	".csv":  "Tabular Data",
	".xlsx": "Excel Sheet",
	".yaml": "Config",
	".yml":  "Config",
	".json": "JSON Data",
}

// SkippedFile is a candidate source file left out of the run
type SkippedFile struct {
	Path   string
	Reason string
}

// Result is the outcome of one scan
type Result struct {
	Units     []types.SourceUnit
	DataFiles []types.DataFile
	Skipped   []SkippedFile
	Truncated bool // MaxFileCount was reached
}

// Scanner applies the discovery section of the configuration to a directory tree
type Scanner struct {
	root      string
	cfg       config.Discovery
	gitignore *config.GitignoreParser
	outputs   map[string]bool // report artifacts written by the audit itself
}

// NewScanner creates a scanner for cfg.Project.Root, loading .gitignore when enabled
func NewScanner(cfg *config.Config) (*Scanner, error) {
	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return nil, auditerrors.NewFileError("resolve", cfg.Project.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, auditerrors.NewFileError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, auditerrors.NewFileError("scan", root, fs.ErrInvalid)
	}

	s := &Scanner{root: root, cfg: cfg.Discovery, outputs: make(map[string]bool)}
	for _, path := range cfg.ReportArtifacts(root) {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		s.outputs[filepath.ToSlash(rel)] = true
	}
	if cfg.Discovery.RespectGitignore {
		s.gitignore = config.NewGitignoreParser()
		if err := s.gitignore.LoadGitignore(root); err != nil {
			return nil, auditerrors.NewFileError("read", filepath.Join(root, ".gitignore"), err)
		}
		debug.LogDiscovery("loaded %d gitignore patterns", s.gitignore.Len())
	}
	return s, nil
}

// Root returns the absolute root being scanned
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the root. Units are sorted by path and carry their content.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	defer debug.Track("DISCOVERY", "scan")()
	res := &Result{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			debug.LogDiscovery("walk error at %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := pathutil.ToSlashRelative(path, s.root)
		if d.IsDir() {
			if rel != "." && s.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 || s.Excluded(rel) {
			return nil
		}

		if s.IsSource(rel) {
			s.addUnit(res, path, rel, d)
			return nil
		}
		if kind, ok := s.DataFileType(rel); ok {
			res.DataFiles = append(res.DataFiles, types.DataFile{Path: rel, Type: kind})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(res.Units, func(i, j int) bool { return res.Units[i].Path < res.Units[j].Path })
	sort.Slice(res.DataFiles, func(i, j int) bool { return res.DataFiles[i].Path < res.DataFiles[j].Path })

	debug.LogDiscovery("found %d source units, %d data files, skipped %d", len(res.Units), len(res.DataFiles), len(res.Skipped))
	return res, nil
}

func (s *Scanner) addUnit(res *Result, path, rel string, d fs.DirEntry) {
	if len(res.Units) >= s.cfg.MaxFileCount {
		if !res.Truncated {
			log.Printf("WARNING: stopped collecting source files at %d (max_file_count)", s.cfg.MaxFileCount)
			res.Truncated = true
		}
		res.Skipped = append(res.Skipped, SkippedFile{Path: rel, Reason: SkipFileLimit})
		return
	}

	info, err := d.Info()
	if err == nil && info.Size() > s.cfg.MaxFileSize {
		debug.LogDiscovery("skipping oversized file %s (%d bytes > %d limit)", rel, info.Size(), s.cfg.MaxFileSize)
		res.Skipped = append(res.Skipped, SkippedFile{Path: rel, Reason: SkipOversized})
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Skipped = append(res.Skipped, SkippedFile{Path: rel, Reason: SkipUnreadable})
		return
	}
	res.Units = append(res.Units, types.SourceUnit{Path: rel, Content: content})
}

// Excluded reports whether a slash-separated relative file path is dropped by exclusion
// patterns, .gitignore, or because the audit writes it
func (s *Scanner) Excluded(rel string) bool {
	if s.outputs[rel] || matchAny(s.cfg.Exclude, rel) {
		return true
	}
	return s.gitignore != nil && s.gitignore.ShouldIgnore(rel, false)
}

// ExcludedDir reports whether a directory and everything below it is dropped
func (s *Scanner) ExcludedDir(rel string) bool {
	if matchAny(s.cfg.Exclude, rel) || matchAny(s.cfg.Exclude, rel+"/"+dirProbe) {
		return true
	}
	return s.gitignore != nil && s.gitignore.ShouldIgnore(rel, true)
}

// IsSource reports whether rel matches an include pattern
func (s *Scanner) IsSource(rel string) bool {
	return matchAny(s.cfg.Include, rel)
}

// DataFileType returns the display type of rel when its suffix is a configured data extension
func (s *Scanner) DataFileType(rel string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(rel))
	for _, e := range s.cfg.DataExtensions {
		if strings.ToLower(e) != ext {
			continue
		}
		if kind, ok := dataFileTypes[ext]; ok {
			return kind, true
		}
		return strings.ToUpper(strings.TrimPrefix(ext, ".")) + " Data", true
	}
	return "", false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
