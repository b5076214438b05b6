package display

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/codeaudit/internal/debug"
	"github.com/standardbeagle/codeaudit/internal/graph"
	"github.com/standardbeagle/codeaudit/internal/symbollinker"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// ReportTitle heads every generated report
const ReportTitle = "Codebase Audit Report"

// Rows shown in the fan-in and fan-out tables
const maxCouplingRows = 10

var roleTitles = map[types.ModuleRole]string{
	types.ModuleRoleStrategy:  "Optimization Strategies",
	types.ModuleRolePipeline:  "Business Logic / Pipelines",
	types.ModuleRoleUI:        "User Interface",
	types.ModuleRoleDataModel: "Data Models & Schemas",
	types.ModuleRoleUtility:   "Support Utilities",
}

// ReportGenerator renders a Project as a Markdown report. It never mutates the project.
type ReportGenerator struct {
	tables TableRenderer
	graph  GraphRenderer
}

// NewReportGenerator creates a generator. Nil renderers fall back to plain tables and
// embedded DOT text.
func NewReportGenerator(tables TableRenderer, graph GraphRenderer) *ReportGenerator {
	if tables == nil {
		tables = PlainTableRenderer{}
	}
	if graph == nil {
		graph = TextGraphRenderer{}
	}
	return &ReportGenerator{tables: tables, graph: graph}
}

// Generate renders the full report
func (r *ReportGenerator) Generate(ctx context.Context, p *types.Project, warnings []types.Warning) string {
	defer debug.Track("REPORT", "generate")()
	md := &markdown{tables: r.tables}
	md.title(1, ReportTitle)
	md.paragraph(fmt.Sprintf("Project **%s**, fingerprint `%016x`.", p.Name, p.Fingerprint))

	r.writeStatistics(md, p)
	r.writeArchitecture(md, p)
	r.writeLogicalFlow(md, p)
	r.writeDataFlow(md, p)
	r.writeDependencyMap(ctx, md, p)
	r.writeExternal(md, p)
	r.writeWarnings(md, warnings)

	debug.LogReport("rendered report for %s with %s tables and %s graph", p.Name, r.tables.Name(), r.graph.Name())
	return md.String()
}

func (r *ReportGenerator) writeStatistics(md *markdown, p *types.Project) {
	s := p.Stats
	md.title(2, "Project Statistics")
	md.table([]string{"Metric", "Value"}, [][]string{
		{"Python Files Analyzed", fmt.Sprint(s.FilesAnalyzed)},
		{"Project Modules", fmt.Sprint(s.Modules)},
		{"Total Functions", fmt.Sprint(s.Functions)},
		{"Total Classes", fmt.Sprint(s.Classes)},
		{"Optimization Strategies", fmt.Sprint(s.StrategyClasses)},
		{"Entry Points", fmt.Sprint(s.EntryPoints)},
		{"Avg. Function Complexity", fmt.Sprintf("%.2f", s.AverageComplexity)},
		{"Max Function Complexity", fmt.Sprint(s.MaxComplexity)},
		{"Internal Dependency Links", fmt.Sprint(s.InternalLinks)},
		{"Avg. Internal Fan-out", fmt.Sprintf("%.2f", s.AverageFanOut)},
		{"Dependency Cycles", fmt.Sprint(s.Cycles)},
		{"External Import References", fmt.Sprintf("%d (%d standard library, %d third party)", s.ExternalImports, s.StdlibImports, s.ThirdPartyImports)},
		{"Unresolved Imports", fmt.Sprint(s.UnresolvedImports)},
	})
}

func (r *ReportGenerator) writeArchitecture(md *markdown, p *types.Project) {
	md.title(2, "Architecture Overview")
	groups := p.ModulesByRole()
	for _, role := range types.ModuleRoles {
		ids := groups[role]
		if len(ids) == 0 {
			continue
		}
		md.title(3, fmt.Sprintf("%s (%d %s)", roleTitles[role], len(ids), plural(len(ids), "module", "modules")))
		md.list(codeAll(ids))
	}
}

func (r *ReportGenerator) writeLogicalFlow(md *markdown, p *types.Project) {
	md.title(2, "Logical & Execution Flow")

	md.title(3, "Detected Entry Points")
	if entries := p.EntryPoints(); len(entries) > 0 {
		md.list(codeAll(entries))
	} else {
		md.list([]string{"(No entry points detected)"})
	}

	var strategies []*types.ClassEntity
	for _, m := range p.Modules {
		for _, c := range m.Classes {
			if c.Role == types.ClassRoleStrategy {
				strategies = append(strategies, c)
			}
		}
	}
	if len(strategies) > 0 {
		sort.Slice(strategies, func(i, j int) bool { return strategies[i].QualifiedName() < strategies[j].QualifiedName() })
		rows := make([][]string, 0, len(strategies))
		for _, c := range strategies {
			rows = append(rows, []string{code(c.QualifiedName()), keyMethods(c.MethodNames())})
		}
		md.title(3, "Optimization Strategies")
		md.table([]string{"Strategy Class", "Key Methods"}, rows)
	}

	if pipeline := functionsWithRole(p, types.FunctionRolePipeline); len(pipeline) > 0 {
		rows := make([][]string, 0, len(pipeline))
		for _, f := range pipeline {
			rows = append(rows, []string{code(f.QualifiedName()), fmt.Sprint(f.Complexity)})
		}
		md.title(3, "Key Pipeline Functions")
		md.table([]string{"Function", "Estimated Complexity"}, rows)
	}
}

func (r *ReportGenerator) writeDataFlow(md *markdown, p *types.Project) {
	md.title(2, "Data Flow Analysis")

	if len(p.DataFiles) > 0 {
		rows := make([][]string, 0, len(p.DataFiles))
		for _, f := range p.DataFiles {
			rows = append(rows, []string{code(f.Path), f.Type})
		}
		md.title(3, "Identified Data Files")
		md.table([]string{"File Path", "Type"}, rows)
	}

	if fns := functionsWithRole(p, types.FunctionRoleDataFlow); len(fns) > 0 {
		names := make([]string, 0, len(fns))
		for _, f := range fns {
			names = append(names, code(f.QualifiedName()))
		}
		md.title(3, "Data Manipulation Functions")
		md.list(names)
	}

	if len(p.DataFiles) == 0 && len(functionsWithRole(p, types.FunctionRoleDataFlow)) == 0 {
		md.paragraph("No data files or data manipulation functions found.")
	}
}

func (r *ReportGenerator) writeDependencyMap(ctx context.Context, md *markdown, p *types.Project) {
	g := p.Graph
	md.title(2, "Internal Dependency Map")

	r.writeGraph(ctx, md, g)

	md.title(3, "Textual Dependency Report")
	for _, m := range p.Modules {
		md.paragraph(fmt.Sprintf("**%s** depends on:", code(m.ID)))
		if targets := g.Targets(m.ID); len(targets) > 0 {
			md.list(codeAll(targets))
		} else {
			md.list([]string{"(No internal dependencies)"})
		}
	}

	if fanIn := graph.TopFanIn(g, maxCouplingRows); len(fanIn) > 0 {
		md.title(3, "Most Depended-Upon Modules")
		md.table([]string{"Module", "Fan-in"}, degreeRows(fanIn))
	}
	if fanOut := graph.TopFanOut(g, maxCouplingRows); len(fanOut) > 0 {
		md.title(3, "Most Dependent Modules")
		md.table([]string{"Module", "Fan-out"}, degreeRows(fanOut))
	}

	if g.HasCycle {
		md.title(3, "Dependency Cycles")
		cycles := make([]string, 0, len(g.Cycles))
		for _, c := range g.Cycles {
			cycles = append(cycles, strings.Join(codeAll(c), " ↔ "))
		}
		md.list(cycles)
	}

	if isolated := graph.Isolated(g); len(isolated) > 0 {
		md.title(3, "Isolated Modules")
		md.list(codeAll(isolated))
	}

	if len(g.Phantom) > 0 {
		md.title(3, "Package References")
		md.paragraph("Internal import targets with no module file of their own:")
		md.list(codeAll(g.Phantom))
	}
}

func (r *ReportGenerator) writeGraph(ctx context.Context, md *markdown, g *types.DependencyGraph) {
	if _, disabled := r.graph.(NoGraphRenderer); disabled {
		return
	}

	res, err := r.graph.Render(ctx, g)
	if err != nil {
		debug.LogReport("graph renderer %s failed: %v", r.graph.Name(), err)
		md.paragraph(fmt.Sprintf("**Warning:** Could not generate visual graph. Error: %v", err))
		res, _ = TextGraphRenderer{}.Render(ctx, g)
	}

	md.title(3, "Visual Dependency Graph")
	if res.ImageLink != "" {
		md.image(res.ImageLink, "Dependency map of the project modules")
	}
	if res.DOT != "" {
		md.paragraph("Render with `dot -Tpng` to visualize:")
		md.codeBlock(res.DOT, "dot")
	}
}

func (r *ReportGenerator) writeExternal(md *markdown, p *types.Project) {
	md.title(2, "External Dependencies")
	if len(p.External) == 0 {
		md.paragraph("No external imports.")
		return
	}

	names := make([]string, 0, len(p.External))
	for name := range p.External {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p.External[names[i]] != p.External[names[j]] {
			return p.External[names[i]] > p.External[names[j]]
		}
		return names[i] < names[j]
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		kind := "third party"
		if symbollinker.IsStandardLibrary(name) {
			kind = "standard library"
		}
		rows = append(rows, []string{code(name), kind, fmt.Sprint(p.External[name])})
	}
	md.table([]string{"Module", "Kind", "References"}, rows)
}

func (r *ReportGenerator) writeWarnings(md *markdown, warnings []types.Warning) {
	md.title(2, "Warnings")
	if len(warnings) == 0 {
		md.paragraph("No warnings.")
		return
	}
	items := make([]string, 0, len(warnings))
	for _, w := range warnings {
		items = append(items, fmt.Sprintf("%s (%s): %s", code(w.Path), w.Kind, w.Message))
	}
	md.list(items)
}

// functionsWithRole returns tagged functions across the project sorted by qualified name
func functionsWithRole(p *types.Project, role types.FunctionRole) []*types.FunctionEntity {
	var out []*types.FunctionEntity
	for _, m := range p.Modules {
		m.WalkFunctions(func(f *types.FunctionEntity) {
			if f.Role == role {
				out = append(out, f)
			}
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].QualifiedName() < out[j].QualifiedName() })
	return out
}

func keyMethods(names []string) string {
	if len(names) <= types.MaxListedMethods {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:types.MaxListedMethods], ", ") + "..."
}

func degreeRows(nodes []graph.NodeDegree) [][]string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{code(n.ID), fmt.Sprint(n.Degree)})
	}
	return rows
}

func code(s string) string {
	return "`" + s + "`"
}

func codeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = code(s)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// markdown accumulates report blocks separated by blank lines
type markdown struct {
	sb     strings.Builder
	tables TableRenderer
}

func (m *markdown) block(s string) {
	m.sb.WriteString(s)
	m.sb.WriteString("\n\n")
}

func (m *markdown) title(level int, text string) {
	m.block(strings.Repeat("#", level) + " " + text)
}

func (m *markdown) paragraph(text string) {
	m.block(text)
}

func (m *markdown) list(items []string) {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	m.block(strings.Join(lines, "\n"))
}

func (m *markdown) table(headers []string, rows [][]string) {
	m.block(m.tables.Render(headers, rows))
}

func (m *markdown) image(path, alt string) {
	m.block(fmt.Sprintf("![%s](%s)", alt, path))
}

func (m *markdown) codeBlock(body, lang string) {
	m.block("```" + lang + "\n" + strings.TrimRight(body, "\n") + "\n```")
}

func (m *markdown) String() string {
	return strings.TrimRight(m.sb.String(), "\n") + "\n"
}
