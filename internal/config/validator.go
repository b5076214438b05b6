package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return auditerrors.NewConfigError("project", cfg.Project.Root, err)
	}

	if err := v.validateDiscoveryConfig(&cfg.Discovery); err != nil {
		return auditerrors.NewConfigError("discovery", "", err)
	}

	if err := v.validateAnalysisConfig(&cfg.Analysis); err != nil {
		return auditerrors.NewConfigError("analysis", fmt.Sprint(cfg.Analysis.Workers), err)
	}

	if err := v.validateReportConfig(&cfg.Report); err != nil {
		return auditerrors.NewConfigError("report", "", err)
	}

	if cfg.Watch.DebounceMs < 0 || cfg.Watch.DebounceMs > 60000 {
		return auditerrors.NewConfigError("watch", fmt.Sprint(cfg.Watch.DebounceMs),
			fmt.Errorf("debounce_ms must be between 0 and 60000, got %d", cfg.Watch.DebounceMs))
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateDiscoveryConfig(d *Discovery) error {
	if len(d.Include) == 0 {
		return errors.New("at least one include pattern is required")
	}

	for _, p := range append(append([]string{}, d.Include...), d.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	for _, ext := range d.DataExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("data extension %q must start with a dot", ext)
		}
	}

	if d.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", d.MaxFileSize)
	}

	if d.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", d.MaxFileSize)
	}

	if d.MaxFileCount <= 0 {
		return fmt.Errorf("MaxFileCount must be positive, got %d", d.MaxFileCount)
	}

	return nil
}

func (v *Validator) validateAnalysisConfig(a *Analysis) error {
	if a.Workers < 0 || a.Workers > 1024 {
		return fmt.Errorf("workers must be between 0 and 1024, got %d", a.Workers)
	}
	return nil
}

func (v *Validator) validateReportConfig(r *Report) error {
	if err := oneOf("graph", r.Graph, GraphAuto, GraphDot, GraphText, GraphNone); err != nil {
		return err
	}
	if err := oneOf("tables", r.Tables, TablesMarkdown, TablesPlain); err != nil {
		return err
	}
	if err := oneOf("format", r.Format, FormatMarkdown, FormatJSON, FormatYAML); err != nil {
		return err
	}
	if r.Output == "" {
		return errors.New("report output path cannot be empty")
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Use cores-1 to leave headroom for the system, minimum of 1
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Project.Name == "" {
		cfg.Project.Name = ProjectName(cfg.Project.Root)
	}

	cfg.Discovery.Exclude = DeduplicatePatterns(append(cfg.Discovery.Exclude, BuildOutputExclusions(cfg.Project.Root)...))
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
