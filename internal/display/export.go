package display

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/codeaudit/internal/types"
)

// ExportDocument is the machine-readable form of a run
type ExportDocument struct {
	Project  *types.Project  `json:"project" yaml:"project"`
	Warnings []types.Warning `json:"warnings" yaml:"warnings"`
}

// Export writes the project model as "json" or "yaml"
func Export(w io.Writer, format string, p *types.Project, warnings []types.Warning) error {
	if warnings == nil {
		warnings = []types.Warning{}
	}
	doc := ExportDocument{Project: p, Warnings: warnings}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
