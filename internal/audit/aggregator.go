package audit

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/codeaudit/internal/analysis"
	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/graph"
	"github.com/standardbeagle/codeaudit/internal/metrics"
	"github.com/standardbeagle/codeaudit/internal/symbollinker"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// Input is everything the aggregator composes into a Project
type Input struct {
	Root      string
	Name      string
	Modules   []*types.Module
	Warnings  []types.Warning // raised before aggregation, parse errors among them
	DataFiles []types.DataFile
}

// Aggregate composes extracted modules into the final Project. It classifies every module,
// resolves imports against the full module set, builds the dependency graph, computes the
// statistics and fingerprints the result. It performs no I/O and is deterministic: the same
// input yields an identical Project.
//
// Duplicate module IDs keep the unit with the smallest path and warn about the rest.
// Zero surviving modules is an *errors.EmptyProjectError; the warnings are still returned.
func Aggregate(in Input) (*types.Project, []types.Warning, error) {
	warnings := append([]types.Warning(nil), in.Warnings...)

	parseFails := 0
	for _, w := range warnings {
		if w.Kind == types.WarningParseError {
			parseFails++
		}
	}
	filesAnalyzed := len(in.Modules) + parseFails

	modules, dupWarnings := dedupeModules(in.Modules)
	warnings = append(warnings, dupWarnings...)

	if len(modules) == 0 {
		sortWarnings(warnings)
		return nil, warnings, auditerrors.NewEmptyProjectError(in.Root, filesAnalyzed, parseFails)
	}

	ids := make([]string, len(modules))
	for i, m := range modules {
		analysis.Classify(m)
		ids[i] = m.ID
	}

	resolver := symbollinker.NewPythonResolver(ids)
	deps := []types.ResolvedDependency{}
	external := make(map[string]int)
	unresolved := 0
	for _, m := range modules {
		resolved, unresolvedWarnings := resolver.Resolve(m)
		for _, d := range resolved {
			if d.Kind == types.DependencyExternal {
				external[d.Target]++
			}
		}
		deps = append(deps, resolved...)
		for _, w := range unresolvedWarnings {
			unresolved++
			warnings = append(warnings, types.Warning{
				Path:    w.FilePath,
				Kind:    types.WarningUnresolvedImport,
				Message: w.Error(),
			})
		}
	}
	sort.SliceStable(deps, func(i, j int) bool {
		a, b := deps[i], deps[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Target < b.Target
	})

	dataFiles := append([]types.DataFile{}, in.DataFiles...)
	sort.Slice(dataFiles, func(i, j int) bool { return dataFiles[i].Path < dataFiles[j].Path })

	project := &types.Project{
		Root:         in.Root,
		Name:         in.Name,
		Modules:      modules,
		Dependencies: deps,
		External:     external,
		Graph:        graph.Build(ids, deps),
		DataFiles:    dataFiles,
	}
	project.Stats = metrics.Calculate(project, filesAnalyzed, unresolved)

	fp, err := Fingerprint(project)
	if err != nil {
		return nil, warnings, fmt.Errorf("fingerprint project: %w", err)
	}
	project.Fingerprint = fp

	sortWarnings(warnings)

	debug.LogAudit("aggregated %d modules, %d dependencies, %d warnings (fingerprint %016x)",
		len(modules), len(deps), len(warnings), fp)

	return project, warnings, nil
}

// Fingerprint hashes the canonical JSON encoding of a project with its own Fingerprint
// field zeroed. Two runs over the same input produce the same value.
func Fingerprint(p *types.Project) (uint64, error) {
	clone := *p
	clone.Fingerprint = 0
	data, err := json.Marshal(&clone)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// dedupeModules orders modules by ID and drops later units that map to an ID already seen
func dedupeModules(in []*types.Module) ([]*types.Module, []types.Warning) {
	sorted := make([]*types.Module, 0, len(in))
	for _, m := range in {
		if m != nil {
			sorted = append(sorted, m)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ID != sorted[j].ID {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Path < sorted[j].Path
	})

	var warnings []types.Warning
	out := sorted[:0]
	for _, m := range sorted {
		if n := len(out); n > 0 && out[n-1].ID == m.ID {
			warnings = append(warnings, types.Warning{
				Path:    m.Path,
				Kind:    types.WarningDuplicateModule,
				Message: fmt.Sprintf("module %s is already defined by %s; %s ignored", m.ID, out[n-1].Path, m.Path),
			})
			continue
		}
		out = append(out, m)
	}
	return out, warnings
}

func sortWarnings(ws []types.Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Path != ws[j].Path {
			return ws[i].Path < ws[j].Path
		}
		if ws[i].Kind != ws[j].Kind {
			return ws[i].Kind < ws[j].Kind
		}
		return ws[i].Message < ws[j].Message
	})
}
