package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePyProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0644))
	return dir
}

func TestProjectName(t *testing.T) {
	t.Run("pep 621", func(t *testing.T) {
		dir := writePyProject(t, "[project]\nname = \"quant-engine\"\nversion = \"0.1.0\"\n")
		assert.Equal(t, "quant-engine", ProjectName(dir))
	})

	t.Run("poetry", func(t *testing.T) {
		dir := writePyProject(t, "[tool.poetry]\nname = \"poetry-app\"\n")
		assert.Equal(t, "poetry-app", ProjectName(dir))
	})

	t.Run("pep 621 wins over poetry", func(t *testing.T) {
		dir := writePyProject(t, "[project]\nname = \"a\"\n\n[tool.poetry]\nname = \"b\"\n")
		assert.Equal(t, "a", ProjectName(dir))
	})

	t.Run("invalid toml falls back to directory", func(t *testing.T) {
		dir := writePyProject(t, "[project\nname=")
		assert.Equal(t, filepath.Base(dir), ProjectName(dir))
	})

	t.Run("no pyproject", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, filepath.Base(dir), ProjectName(dir))
	})
}

func TestBuildOutputExclusions(t *testing.T) {
	dir := writePyProject(t, "[tool.poetry]\nname = \"x\"\n\n[tool.poetry.build]\ntarget-dir = \"out/\"\n")
	assert.Equal(t, []string{"**/out/**"}, BuildOutputExclusions(dir))

	assert.Nil(t, BuildOutputExclusions(t.TempDir()))
}
