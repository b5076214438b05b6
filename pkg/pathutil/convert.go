// Package pathutil converts between file system paths and the identifiers used in the audit model.
//
// Discovery works with absolute paths; the model works with slash-separated paths relative to the
// project root and with dotted module identifiers derived from them.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.py", "/home/user/project") → "src/main.py"
//   - ToRelative("/other/location/file.py", "/home/user/project") → "/other/location/file.py" (outside root)
//   - ToRelative("src/main.py", "/home/user/project") → "src/main.py" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// Outside the root: the absolute path is clearer
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return relPath
}

// ToSlashRelative is ToRelative with forward slashes, the form used for unit paths
func ToSlashRelative(absPath, rootDir string) string {
	return filepath.ToSlash(ToRelative(absPath, rootDir))
}

// ModuleID derives the canonical dotted module identifier from a unit path relative to the
// project root: separators become dots and the source suffix is stripped.
//
//	ModuleID("src/strategies/genetic.py", ".py") → "src.strategies.genetic"
//	ModuleID("pkg/__init__.py", ".py")           → "pkg.__init__"
func ModuleID(relPath, suffix string) string {
	p := filepath.ToSlash(relPath)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, suffix)
	return strings.ReplaceAll(p, "/", ".")
}
