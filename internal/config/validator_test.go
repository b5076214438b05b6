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

func TestValidateAndSetDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "trading-bot")
	require.NoError(t, os.Mkdir(root, 0755))

	cfg := Default(root)
	require.NoError(t, ValidateConfig(cfg))

	assert.Positive(t, cfg.Analysis.Workers, "workers resolved from CPU count")
	assert.Equal(t, "trading-bot", cfg.Project.Name, "name falls back to directory")
}

func TestValidateAndSetDefaults_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project"},
		{"no include", func(c *Config) { c.Discovery.Include = nil }, "discovery"},
		{"bad glob", func(c *Config) { c.Discovery.Exclude = append(c.Discovery.Exclude, "[") }, "discovery"},
		{"bare extension", func(c *Config) { c.Discovery.DataExtensions = []string{"csv"} }, "discovery"},
		{"zero size", func(c *Config) { c.Discovery.MaxFileSize = 0 }, "discovery"},
		{"huge size", func(c *Config) { c.Discovery.MaxFileSize = 200 * 1024 * 1024 }, "discovery"},
		{"zero count", func(c *Config) { c.Discovery.MaxFileCount = 0 }, "discovery"},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, "analysis"},
		{"unknown graph", func(c *Config) { c.Report.Graph = "svg" }, "report"},
		{"unknown tables", func(c *Config) { c.Report.Tables = "html" }, "report"},
		{"unknown format", func(c *Config) { c.Report.Format = "xml" }, "report"},
		{"empty output", func(c *Config) { c.Report.Output = "" }, "report"},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, "watch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/p")
			tt.mutate(cfg)

			err := NewValidator().ValidateAndSetDefaults(cfg)
			var cfgErr *auditerrors.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.section, cfgErr.Field)
		})
	}
}

func TestSetSmartDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Analysis.Workers = 2
	cfg.Project.Name = "explicit"

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, "explicit", cfg.Project.Name)
}
