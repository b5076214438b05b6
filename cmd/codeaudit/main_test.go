package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codeaudit/internal/config"
	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DEBUG", "")
	t.Setenv("DEBUG_LOG", "")
	enabled, quiet := debug.EnableDebug, debug.QuietMode
	t.Cleanup(func() {
		debug.EnableDebug, debug.QuietMode = enabled, quiet
		debug.SetDebugOutput(nil)
	})

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(context.Background(), append([]string{"codeaudit"}, args...))
	return stdout.String(), err
}

var demoProject = map[string]string{
	"app.py":                    "from src.strategies import genetic\n\nif __name__ == '__main__':\n    pass\n",
	"src/strategies/genetic.py": "class GeneticStrategy:\n    def evolve(self):\n        pass\n",
	"data/prices.csv":           "a,b\n",
}

func TestAuditCommand_WritesMarkdownReport(t *testing.T) {
	root := writeProject(t, demoProject)

	_, err := runCLI(t, "--quiet", "audit", "--graph", "text", root)
	require.NoError(t, err)

	report, err := os.ReadFile(filepath.Join(root, "codebase_audit_report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Codebase Audit Report")
	assert.Contains(t, string(report), "`src.strategies.genetic.GeneticStrategy`")
	assert.Contains(t, string(report), "`data/prices.csv`")
}

func TestAuditCommand_DefaultActionWithDirectory(t *testing.T) {
	root := writeProject(t, demoProject)

	_, err := runCLI(t, "--quiet", root)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "codebase_audit_report.md"))
}

func TestAuditCommand_JSONToStdout(t *testing.T) {
	root := writeProject(t, demoProject)

	out, err := runCLI(t, "-q", "--root", root, "audit", "--format", "json", "-o", "-")
	require.NoError(t, err)

	var doc struct {
		Project struct {
			Modules []struct {
				ID string `json:"id"`
			} `json:"modules"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Project.Modules, 2)
	assert.Equal(t, "app", doc.Project.Modules[0].ID)
	assert.NoFileExists(t, filepath.Join(root, "codebase_audit_report.md"))
}

func TestAuditCommand_RerunIgnoresOwnReport(t *testing.T) {
	root := writeProject(t, demoProject)
	reportFile := filepath.Join(root, "codebase_audit_report.json")

	readReport := func() string {
		_, err := runCLI(t, "-q", "--root", root, "audit", "--format", "json", "--graph", "none")
		require.NoError(t, err)
		data, err := os.ReadFile(reportFile)
		require.NoError(t, err)
		return string(data)
	}

	first := readReport()
	second := readReport()
	assert.Equal(t, first, second)

	var doc struct {
		Project struct {
			DataFiles []struct {
				Path string `json:"path"`
			} `json:"data_files"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal([]byte(second), &doc))
	require.Len(t, doc.Project.DataFiles, 1)
	assert.Equal(t, "data/prices.csv", doc.Project.DataFiles[0].Path)
}

func TestDebugLogFlag(t *testing.T) {
	root := writeProject(t, demoProject)
	logPath := filepath.Join(t.TempDir(), "debug.log")

	_, err := runCLI(t, "--debug-log", logPath, "audit", "--graph", "none", root)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG:DISCOVERY]")
	assert.Contains(t, string(data), "[DEBUG:AUDIT]")
}

func TestQuietSuppressesDebugLog(t *testing.T) {
	root := writeProject(t, demoProject)
	logPath := filepath.Join(t.TempDir(), "debug.log")

	_, err := runCLI(t, "--quiet", "--debug-log", logPath, "audit", "--graph", "none", root)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.True(t, debug.QuietMode)
}

func TestAuditCommand_EmptyProject(t *testing.T) {
	root := writeProject(t, map[string]string{"README.md": "# nothing\n"})

	_, err := runCLI(t, "-q", "audit", root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, auditerrors.ErrEmptyProject))
	assert.Equal(t, exitFatal, exitCode(err))
	assert.NoFileExists(t, filepath.Join(root, "codebase_audit_report.md"))
}

func TestAuditCommand_InvalidConfigValue(t *testing.T) {
	root := writeProject(t, demoProject)

	_, err := runCLI(t, "-q", "audit", "--graph", "svg", root)
	var cfgErr *auditerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestConfigInitCommand(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "--root", root, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	cfg, err := config.LoadKDL(root)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, config.GraphAuto, cfg.Report.Graph)

	_, err = runCLI(t, "--root", root, "config", "init")
	assert.Error(t, err, "refuses to overwrite without --force")

	_, err = runCLI(t, "--root", root, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFatal, exitCode(errors.New("boom")))
	assert.Equal(t, exitUsage, exitCode(cli.Exit("bad flag", exitUsage)))
	assert.Equal(t, exitUsage, exitCode(auditerrors.NewConfigError("report", "x", errors.New("bad"))))
}
