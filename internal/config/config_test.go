package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".codeaudit.kdl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MergesGlobalAndProjectConfigs(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	writeConfig(t, tmpHome, `
exclude {
    "**/vendor/**"
}
discovery {
    max_file_size "5MB"
}
report {
    tables "plain"
}
`)
	writeConfig(t, tmpProject, `
project {
    name "test-project"
}
exclude {
    "**/dist_local/**"
}
discovery {
    max_file_size "1MB"
}
`)

	cfg, err := loadWithHome("", tmpProject, tmpHome)
	require.NoError(t, err)

	assert.Contains(t, cfg.Discovery.Exclude, "**/vendor/**", "global exclusion kept")
	assert.Contains(t, cfg.Discovery.Exclude, "**/dist_local/**", "project exclusion added")
	assert.Equal(t, int64(1024*1024), cfg.Discovery.MaxFileSize, "project overrides global")
	assert.Equal(t, TablesPlain, cfg.Report.Tables, "global setting survives when project is silent")
	assert.Equal(t, "test-project", cfg.Project.Name)
	assert.Equal(t, tmpProject, cfg.Project.Root)
}

func TestLoad_DefaultFallback(t *testing.T) {
	tmpProject := t.TempDir()

	cfg, err := loadWithHome("", tmpProject, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(tmpProject), cfg)
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmpProject := t.TempDir()
	cfgDir := t.TempDir()
	path := writeConfig(t, cfgDir, "analysis {\n    workers 3\n}\n")

	cfg, err := loadWithHome(path, tmpProject, "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, tmpProject, cfg.Project.Root)

	_, err = loadWithHome(filepath.Join(cfgDir, "missing.kdl"), tmpProject, "")
	var fileErr *auditerrors.FileError
	assert.True(t, errors.As(err, &fileErr))
}

func TestLoad_MalformedIsConfigError(t *testing.T) {
	tmpProject := t.TempDir()
	writeConfig(t, tmpProject, "report {")

	_, err := loadWithHome("", tmpProject, "")
	var cfgErr *auditerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Field, ".codeaudit.kdl")
}

func TestDeduplicatePatterns(t *testing.T) {
	got := DeduplicatePatterns([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestReportPath(t *testing.T) {
	cfg := Default("/p")
	assert.Equal(t, filepath.Join("/p", "codebase_audit_report.md"), cfg.ReportPath("/p"))
	assert.Equal(t, filepath.Join("/p", "codebase_dependency_map.png"), cfg.GraphImagePath("/p"))

	cfg.Report.Format = FormatYAML
	assert.Equal(t, filepath.Join("/p", "codebase_audit_report.yaml"), cfg.ReportPath("/p"))

	cfg.Report.Output = "/abs/out.json"
	assert.Equal(t, "/abs/out.json", cfg.ReportPath("/p"))
	assert.Equal(t, "/abs/codebase_dependency_map.png", cfg.GraphImagePath("/p"))
}

func TestReportArtifacts(t *testing.T) {
	cfg := Default("/p")
	cfg.Report.Output = "reports/audit.md"

	assert.Equal(t, []string{
		filepath.Join("/p", "reports", "audit.md"),
		filepath.Join("/p", "reports", "audit.json"),
		filepath.Join("/p", "reports", "audit.yaml"),
		filepath.Join("/p", "reports", "codebase_dependency_map.png"),
	}, cfg.ReportArtifacts("/p"))

	cfg.Report.Output = "-"
	assert.Empty(t, cfg.ReportArtifacts("/p"))
}
