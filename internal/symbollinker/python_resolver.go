package symbollinker

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// Reasons attached to unresolved import warnings
const (
	ReasonAboveRoot    = "ascends above project root"
	ReasonNoSuchModule = "resolves to no known module"
)

// suggestionThreshold is the minimum Jaro-Winkler similarity for a "did you mean" hint
const suggestionThreshold = 0.8

// PythonResolver maps import statements onto the set of modules known to the run.
// It is built after every unit was extracted and is read-only afterwards.
type PythonResolver struct {
	// known holds every module ID of the run
	known map[string]bool

	// packages holds every proper segment-aligned prefix of a known ID
	packages map[string]bool

	// ids is the sorted known set, used for suggestions
	ids []string
}

// NewPythonResolver creates a resolver over the given module IDs
func NewPythonResolver(moduleIDs []string) *PythonResolver {
	pr := &PythonResolver{
		known:    make(map[string]bool, len(moduleIDs)),
		packages: make(map[string]bool),
		ids:      make([]string, 0, len(moduleIDs)),
	}

	for _, id := range moduleIDs {
		if pr.known[id] {
			continue
		}
		pr.known[id] = true
		pr.ids = append(pr.ids, id)

		parts := strings.Split(id, ".")
		for i := 1; i < len(parts); i++ {
			pr.packages[strings.Join(parts[:i], ".")] = true
		}
	}
	sort.Strings(pr.ids)

	return pr
}

// IsKnown reports whether id is exactly a module of the run
func (pr *PythonResolver) IsKnown(id string) bool {
	return pr.known[id]
}

// IsInternal reports whether target is a known module or a segment-aligned prefix of one.
// "src.utils" prefixes "src.utils.math" but "src.utilsx" does not.
func (pr *PythonResolver) IsInternal(target string) bool {
	return pr.IsKnown(target) || pr.packages[target]
}

// Resolve resolves every import of a module. Self references are dropped; relative imports
// that cannot be placed are returned as warnings and produce no dependency.
func (pr *PythonResolver) Resolve(m *types.Module) ([]types.ResolvedDependency, []*auditerrors.UnresolvedImportWarning) {
	var deps []types.ResolvedDependency
	var warnings []*auditerrors.UnresolvedImportWarning

	for _, imp := range m.Imports {
		target, warn := pr.ResolveImport(m.ID, imp)
		if warn != nil {
			warn.FilePath = m.Path
			warnings = append(warnings, warn)
			continue
		}
		if target == "" || target == m.ID {
			continue
		}

		kind := types.DependencyExternal
		if pr.IsInternal(target) {
			kind = types.DependencyInternal
		}
		deps = append(deps, types.ResolvedDependency{
			Source: m.ID,
			Target: target,
			Kind:   kind,
			Line:   imp.Line,
		})
	}

	debug.Log("RESOLVE", "%s: %d dependencies, %d unresolved", m.ID, len(deps), len(warnings))
	return deps, warnings
}

// ResolveImport computes the canonical target of one statement issued by moduleID.
//
// Absolute: Path when it is a known module, else Path.Name when that is, else Path.
// Relative: the last Level segments of moduleID are dropped to form the base, which is
// joined with Path and refined by Name the same way. With no Path the name is always
// joined, so "from .. import config" in a.b.c targets a.config.
func (pr *PythonResolver) ResolveImport(moduleID string, imp types.ImportStatement) (string, *auditerrors.UnresolvedImportWarning) {
	if !imp.IsRelative() {
		return pr.refine(imp.Path, imp.Name), nil
	}

	segments := strings.Split(moduleID, ".")
	if imp.Level > len(segments) {
		return "", auditerrors.NewUnresolvedImportWarning(moduleID, imp.String(), imp.Line, ReasonAboveRoot)
	}
	base := strings.Join(segments[:len(segments)-imp.Level], ".")

	var target string
	if imp.Path == "" {
		target = join(base, imp.Name)
	} else {
		target = pr.refine(join(base, imp.Path), imp.Name)
	}

	if target == "" || !pr.IsInternal(target) {
		warn := auditerrors.NewUnresolvedImportWarning(moduleID, imp.String(), imp.Line, ReasonNoSuchModule)
		if s := pr.Suggest(target); s != "" {
			warn.WithSuggestion(s)
		}
		return "", warn
	}
	return target, nil
}

// refine appends name to path when that names a known module and path itself does not
func (pr *PythonResolver) refine(path, name string) string {
	if pr.IsKnown(path) || name == "" {
		return path
	}
	if candidate := join(path, name); pr.IsKnown(candidate) {
		return candidate
	}
	return path
}

// Suggest returns the known module closest to target, or "" when nothing is close
func (pr *PythonResolver) Suggest(target string) string {
	if target == "" {
		return ""
	}

	best, bestScore := "", float32(suggestionThreshold)
	for _, id := range pr.ids {
		score, err := edlib.StringsSimilarity(target, id, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

func join(base, name string) string {
	switch {
	case base == "":
		return name
	case name == "":
		return base
	}
	return base + "." + name
}
