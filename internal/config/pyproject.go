// Project metadata from Python packaging files
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// PyProject holds the pyproject.toml fields the audit uses
type PyProject struct {
	Name      string
	OutputDir string // tool.poetry.build.target-dir, excluded from discovery
}

// ReadPyProject parses pyproject.toml under root. ok is false when the file is absent or invalid.
func ReadPyProject(root string) (PyProject, bool) {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return PyProject{}, false
	}

	var pyproject map[string]interface{}
	if toml.Unmarshal(data, &pyproject) != nil {
		return PyProject{}, false
	}

	var out PyProject
	// PEP 621
	if project, ok := pyproject["project"].(map[string]interface{}); ok {
		if name, ok := project["name"].(string); ok {
			out.Name = name
		}
	}

	if tool, ok := pyproject["tool"].(map[string]interface{}); ok {
		// Poetry
		if poetry, ok := tool["poetry"].(map[string]interface{}); ok {
			if name, ok := poetry["name"].(string); ok && out.Name == "" {
				out.Name = name
			}
			if build, ok := poetry["build"].(map[string]interface{}); ok {
				if targetDir, ok := build["target-dir"].(string); ok {
					out.OutputDir = targetDir
				}
			}
		}
	}

	return out, true
}

// ProjectName returns the pyproject.toml name of the project at root, falling back to the
// directory name.
func ProjectName(root string) string {
	if py, ok := ReadPyProject(root); ok && strings.TrimSpace(py.Name) != "" {
		return strings.TrimSpace(py.Name)
	}
	return filepath.Base(filepath.Clean(root))
}

// BuildOutputExclusions returns exclusion patterns for declared build output directories
func BuildOutputExclusions(root string) []string {
	py, ok := ReadPyProject(root)
	if !ok || py.OutputDir == "" {
		return nil
	}
	return []string{"**/" + strings.Trim(filepath.ToSlash(py.OutputDir), "/") + "/**"}
}
