package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/standardbeagle/codeaudit/internal/symbollinker"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// Calculate derives the statistics of a Project whose modules, dependencies and graph are
// already in place. filesAnalyzed counts every submitted unit, parse failures included.
func Calculate(p *types.Project, filesAnalyzed, unresolved int) types.ProjectStats {
	stats := types.ProjectStats{
		FilesAnalyzed:     filesAnalyzed,
		Modules:           len(p.Modules),
		UnresolvedImports: unresolved,
		ModulesByRole:     make(map[types.ModuleRole]int, len(types.ModuleRoles)),
	}
	for _, role := range types.ModuleRoles {
		stats.ModulesByRole[role] = 0
	}

	totalComplexity := 0
	for _, m := range p.Modules {
		stats.ModulesByRole[m.Role]++
		stats.Classes += len(m.Classes)
		if m.EntryPoint {
			stats.EntryPoints++
		}
		for _, c := range m.Classes {
			if c.Role == types.ClassRoleStrategy {
				stats.StrategyClasses++
			}
		}
		m.WalkFunctions(func(f *types.FunctionEntity) {
			stats.Functions++
			totalComplexity += f.Complexity
			if f.Complexity > stats.MaxComplexity {
				stats.MaxComplexity = f.Complexity
			}
		})
	}
	if stats.Functions > 0 {
		stats.AverageComplexity = round2(float64(totalComplexity) / float64(stats.Functions))
	}

	if p.Graph != nil {
		stats.InternalLinks = len(p.Graph.Edges)
		stats.Cycles = len(p.Graph.Cycles)
		if len(p.Modules) > 0 {
			stats.AverageFanOut = round2(float64(len(p.Graph.Edges)) / float64(len(p.Modules)))
		}
	}

	for target, refs := range p.External {
		stats.ExternalImports += refs
		if symbollinker.IsStandardLibrary(target) {
			stats.StdlibImports += refs
		} else {
			stats.ThirdPartyImports += refs
		}
	}

	return stats
}

// round2 keeps averages stable across platforms in serialized output
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatSummary renders a one-paragraph summary for console output
func FormatSummary(s types.ProjectStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d files, %d modules, %d classes (%d strategy), %d functions\n",
		s.FilesAnalyzed, s.Modules, s.Classes, s.StrategyClasses, s.Functions)
	fmt.Fprintf(&sb, "complexity avg %.2f max %d, %d entry points\n",
		s.AverageComplexity, s.MaxComplexity, s.EntryPoints)
	fmt.Fprintf(&sb, "%d internal links, %d cycles, %d external references (%d stdlib, %d third-party), %d unresolved",
		s.InternalLinks, s.Cycles, s.ExternalImports, s.StdlibImports, s.ThirdPartyImports, s.UnresolvedImports)
	return sb.String()
}
