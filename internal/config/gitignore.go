package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser handles parsing and matching .gitignore files
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool

	glob string // doublestar form, relative to the root
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{
		patterns: make([]GitignorePattern, 0),
	}
}

// LoadGitignore loads patterns from the .gitignore at rootPath
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		// .gitignore file doesn't exist, which is fine
		return nil
	}
	defer file.Close()

	return gp.scanAndParsePatterns(file)
}

func (gp *GitignoreParser) scanAndParsePatterns(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if gp.shouldSkipLine(line) {
			continue
		}

		gp.AddPattern(line)
	}

	return scanner.Err()
}

// shouldSkipLine checks if a line should be skipped (empty or comment)
func (gp *GitignoreParser) shouldSkipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// AddPattern adds a single pattern line
func (gp *GitignoreParser) AddPattern(line string) {
	pattern := GitignorePattern{}
	line = gp.extractPatternModifiers(&pattern, line)
	if line == "" {
		return
	}
	pattern.Pattern = line

	// A slash inside the pattern anchors it to the root, like a leading one
	if pattern.Absolute || strings.Contains(line, "/") {
		pattern.glob = line
	} else {
		pattern.glob = "**/" + line
	}

	gp.patterns = append(gp.patterns, pattern)
}

// extractPatternModifiers strips negation, directory and anchor markers into pattern.
// Returns the cleaned pattern string
func (gp *GitignoreParser) extractPatternModifiers(pattern *GitignorePattern, line string) string {
	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}

	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}

	return line
}

// ShouldIgnore reports whether the slash-separated relative path is ignored. The last
// matching pattern wins, so a negation re-includes an earlier match.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	ignored := false
	for _, pattern := range gp.patterns {
		if gp.matchesPattern(pattern, path, isDir) {
			ignored = !pattern.Negate
		}
	}
	return ignored
}

// matchesPattern matches the path itself or any of its parent directories
func (gp *GitignoreParser) matchesPattern(pattern GitignorePattern, path string, isDir bool) bool {
	if (!pattern.Directory || isDir) && match(pattern.glob, path) {
		return true
	}

	for i := 0; i < len(path); i++ {
		if path[i] == '/' && match(pattern.glob, path[:i]) {
			return true
		}
	}
	return false
}

// Len returns the number of loaded patterns
func (gp *GitignoreParser) Len() int {
	return len(gp.patterns)
}

func match(glob, path string) bool {
	ok, err := doublestar.Match(glob, path)
	return err == nil && ok
}
