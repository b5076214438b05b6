package types

import "strings"

// Architectural model types produced by the audit engine and consumed read-only by reporting.

// ModuleRole is the architectural role assigned to a module
type ModuleRole string

const (
	ModuleRoleStrategy  ModuleRole = "strategy"
	ModuleRolePipeline  ModuleRole = "pipeline"
	ModuleRoleUI        ModuleRole = "ui"
	ModuleRoleDataModel ModuleRole = "data_model"
	ModuleRoleUtility   ModuleRole = "utility"
)

// ModuleRoles lists module roles in classification priority order
var ModuleRoles = []ModuleRole{
	ModuleRoleStrategy,
	ModuleRolePipeline,
	ModuleRoleUI,
	ModuleRoleDataModel,
	ModuleRoleUtility,
}

// ClassRole is the role assigned to a class
type ClassRole string

const (
	ClassRoleUnclassified ClassRole = "unclassified"
	ClassRoleStrategy     ClassRole = "strategy"
)

// FunctionRole is the role assigned to a function or method
type FunctionRole string

const (
	FunctionRoleEntryPoint FunctionRole = "entry_point"
	FunctionRolePipeline   FunctionRole = "pipeline"
	FunctionRoleDataFlow   FunctionRole = "data_flow"
	FunctionRolePlain      FunctionRole = "plain"
)

// SourceUnit is one source file handed to the engine by the discovery layer
type SourceUnit struct {
	Path    string // slash-separated, relative to the project root
	Content []byte
}

// ImportStatement is an import as written in the source, before resolution
type ImportStatement struct {
	Path  string `json:"path" yaml:"path"`                     // module path token, empty for "from . import x"
	Name  string `json:"name,omitempty" yaml:"name,omitempty"` // imported name token
	Level int    `json:"level" yaml:"level"`                   // 0 = absolute, N = parents to ascend
	Line  int    `json:"line" yaml:"line"`
}

// IsRelative reports whether the statement uses relative addressing
func (s ImportStatement) IsRelative() bool {
	return s.Level > 0
}

// String renders the statement in source form
func (s ImportStatement) String() string {
	prefix := strings.Repeat(".", s.Level)
	if s.Name == "" {
		if s.Level == 0 {
			return "import " + s.Path
		}
		return "from " + prefix + s.Path + " import *"
	}
	return "from " + prefix + s.Path + " import " + s.Name
}

// FunctionEntity is a named function or method
type FunctionEntity struct {
	Name       string            `json:"name" yaml:"name"`
	Owner      string            `json:"owner" yaml:"owner"` // module ID, "module.Class" or "module.func"
	Complexity int               `json:"complexity" yaml:"complexity"`
	Role       FunctionRole      `json:"role" yaml:"role"`
	Line       int               `json:"line" yaml:"line"`
	Async      bool              `json:"async,omitempty" yaml:"async,omitempty"`
	Docstring  string            `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	Nested     []*FunctionEntity `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// QualifiedName returns Owner.Name
func (f *FunctionEntity) QualifiedName() string {
	return f.Owner + "." + f.Name
}

// IsPrivate reports whether the name follows the underscore helper convention
func (f *FunctionEntity) IsPrivate() bool {
	return strings.HasPrefix(f.Name, "_")
}

// ClassEntity is a class declaration
type ClassEntity struct {
	Name      string            `json:"name" yaml:"name"` // qualified within the module, e.g. Outer.Inner
	Module    string            `json:"module" yaml:"module"`
	Role      ClassRole         `json:"role" yaml:"role"`
	Line      int               `json:"line" yaml:"line"`
	Docstring string            `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	Methods   []*FunctionEntity `json:"methods" yaml:"methods"`
}

// QualifiedName returns Module.Name
func (c *ClassEntity) QualifiedName() string {
	return c.Module + "." + c.Name
}

// MethodNames returns method names in declaration order
func (c *ClassEntity) MethodNames() []string {
	names := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	return names
}

// Module is the symbol inventory of one source unit
type Module struct {
	ID           string            `json:"id" yaml:"id"`
	Path         string            `json:"path" yaml:"path"`
	Role         ModuleRole        `json:"role" yaml:"role"`
	EntryPoint   bool              `json:"entry_point" yaml:"entry_point"`
	HasMainGuard bool              `json:"has_main_guard" yaml:"has_main_guard"`
	Lines        int               `json:"lines" yaml:"lines"`
	Docstring    string            `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	ContentHash  uint64            `json:"content_hash" yaml:"content_hash"`
	Classes      []*ClassEntity    `json:"classes" yaml:"classes"`
	Functions    []*FunctionEntity `json:"functions" yaml:"functions"`
	Imports      []ImportStatement `json:"imports" yaml:"imports"`
}

// HasFunction reports whether a module-level function with the given name exists
func (m *Module) HasFunction(name string) bool {
	for _, f := range m.Functions {
		if f.Name == name {
			return true
		}
	}
	return false
}

// WalkFunctions visits every named function in the module: module-level functions,
// methods, and the functions nested in either.
func (m *Module) WalkFunctions(visit func(*FunctionEntity)) {
	var walk func(fns []*FunctionEntity)
	walk = func(fns []*FunctionEntity) {
		for _, f := range fns {
			visit(f)
			walk(f.Nested)
		}
	}
	walk(m.Functions)
	for _, c := range m.Classes {
		walk(c.Methods)
	}
}

// DependencyKind classifies a resolved dependency target
type DependencyKind string

const (
	DependencyInternal DependencyKind = "internal"
	DependencyExternal DependencyKind = "external"
)

// ResolvedDependency is an import statement resolved to a canonical target
type ResolvedDependency struct {
	Source string         `json:"source" yaml:"source"`
	Target string         `json:"target" yaml:"target"`
	Kind   DependencyKind `json:"kind" yaml:"kind"`
	Line   int            `json:"line" yaml:"line"`
}

// Edge is a directed internal dependency between two graph nodes
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// DependencyGraph is the internal module dependency graph
type DependencyGraph struct {
	Nodes     []string       `json:"nodes" yaml:"nodes"`
	Edges     []Edge         `json:"edges" yaml:"edges"`
	Phantom   []string       `json:"phantom,omitempty" yaml:"phantom,omitempty"` // internal targets with no module of their own
	InDegree  map[string]int `json:"in_degree" yaml:"in_degree"`
	OutDegree map[string]int `json:"out_degree" yaml:"out_degree"`
	HasCycle  bool           `json:"has_cycle" yaml:"has_cycle"`
	Cycles    [][]string     `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// HasNode reports whether id is a node of the graph
func (g *DependencyGraph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// Targets returns the targets of edges leaving source, in edge order
func (g *DependencyGraph) Targets(source string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == source {
			out = append(out, e.Target)
		}
	}
	return out
}

// WarningKind categorizes a non-fatal problem found during a run
type WarningKind string

const (
	WarningParseError       WarningKind = "parse_error"
	WarningUnresolvedImport WarningKind = "unresolved_import"
	WarningDuplicateModule  WarningKind = "duplicate_module"
)

// Warning is a non-fatal (unit path, message) pair surfaced to the caller
type Warning struct {
	Path    string      `json:"path" yaml:"path"`
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// DataFile is a non-source data artifact found next to the code
type DataFile struct {
	Path string `json:"path" yaml:"path"`
	Type string `json:"type" yaml:"type"`
}

// ProjectStats holds aggregate statistics of a Project
type ProjectStats struct {
	FilesAnalyzed     int                `json:"files_analyzed" yaml:"files_analyzed"`
	Modules           int                `json:"modules" yaml:"modules"`
	Classes           int                `json:"classes" yaml:"classes"`
	Functions         int                `json:"functions" yaml:"functions"`
	StrategyClasses   int                `json:"strategy_classes" yaml:"strategy_classes"`
	EntryPoints       int                `json:"entry_points" yaml:"entry_points"`
	AverageComplexity float64            `json:"average_complexity" yaml:"average_complexity"`
	MaxComplexity     int                `json:"max_complexity" yaml:"max_complexity"`
	InternalLinks     int                `json:"internal_links" yaml:"internal_links"`
	AverageFanOut     float64            `json:"average_fan_out" yaml:"average_fan_out"`
	Cycles            int                `json:"cycles" yaml:"cycles"`
	ExternalImports   int                `json:"external_imports" yaml:"external_imports"`
	StdlibImports     int                `json:"stdlib_imports" yaml:"stdlib_imports"`
	ThirdPartyImports int                `json:"third_party_imports" yaml:"third_party_imports"`
	UnresolvedImports int                `json:"unresolved_imports" yaml:"unresolved_imports"`
	ModulesByRole     map[ModuleRole]int `json:"modules_by_role" yaml:"modules_by_role"`
}

// Project is the complete architectural model of one run
type Project struct {
	Root         string               `json:"root" yaml:"root"`
	Name         string               `json:"name" yaml:"name"`
	Modules      []*Module            `json:"modules" yaml:"modules"`
	Dependencies []ResolvedDependency `json:"dependencies" yaml:"dependencies"`
	External     map[string]int       `json:"external" yaml:"external"`
	Graph        *DependencyGraph     `json:"graph" yaml:"graph"`
	Stats        ProjectStats         `json:"stats" yaml:"stats"`
	DataFiles    []DataFile           `json:"data_files,omitempty" yaml:"data_files,omitempty"`
	Fingerprint  uint64               `json:"fingerprint" yaml:"fingerprint"`
}

// Module returns the module with the given ID, or nil
func (p *Project) Module(id string) *Module {
	for _, m := range p.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// ModulesByRole groups module IDs by role, each group in model order
func (p *Project) ModulesByRole() map[ModuleRole][]string {
	groups := make(map[ModuleRole][]string)
	for _, m := range p.Modules {
		groups[m.Role] = append(groups[m.Role], m.ID)
	}
	return groups
}

// EntryPoints returns IDs of modules tagged as entry points
func (p *Project) EntryPoints() []string {
	var out []string
	for _, m := range p.Modules {
		if m.EntryPoint {
			out = append(out, m.ID)
		}
	}
	return out
}
