package analysis

import (
	"strings"

	"github.com/standardbeagle/codeaudit/internal/types"
)

// Name-pattern classification. Every decision below is a substring test on lower-cased
// identifiers, evaluated against an ordered rule table where the first match wins, so each
// precedence can be tested on its own.

var (
	strategyKeywords  = []string{"strategy", "strategies"}
	pipelineKeywords  = []string{"pipeline", "runner", "preprocess"}
	uiKeywords        = []string{"ui", "view", "cli"}
	dataModelKeywords = []string{"model", "schema"}
	dataFlowKeywords  = []string{"load", "transform", "process", "save"}
)

// EntryPointFunction is the module-level function name that marks an entry point
const EntryPointFunction = "main"

// moduleRule tags a module with role when matches reports true
type moduleRule struct {
	role    types.ModuleRole
	matches func(m *types.Module) bool
}

// moduleRules in priority order: strategy-bearing > pipeline > ui > data_model > utility
var moduleRules = []moduleRule{
	{types.ModuleRoleStrategy, func(m *types.Module) bool {
		if containsAny(m.ID, strategyKeywords) {
			return true
		}
		for _, c := range m.Classes {
			if c.Role == types.ClassRoleStrategy {
				return true
			}
		}
		return false
	}},
	{types.ModuleRolePipeline, func(m *types.Module) bool { return containsAny(m.ID, pipelineKeywords) }},
	{types.ModuleRoleUI, func(m *types.Module) bool { return containsAny(m.ID, uiKeywords) }},
	{types.ModuleRoleDataModel, func(m *types.Module) bool { return containsAny(m.ID, dataModelKeywords) }},
	{types.ModuleRoleUtility, func(*types.Module) bool { return true }},
}

// functionRule tags a function with role when matches reports true
type functionRule struct {
	role    types.FunctionRole
	matches func(f *types.FunctionEntity, m *types.Module, moduleLevel bool) bool
}

// functionRules in priority order: entry_point > pipeline > data_flow > plain
var functionRules = []functionRule{
	{types.FunctionRoleEntryPoint, func(f *types.FunctionEntity, _ *types.Module, moduleLevel bool) bool {
		return moduleLevel && f.Name == EntryPointFunction
	}},
	{types.FunctionRolePipeline, func(f *types.FunctionEntity, m *types.Module, _ bool) bool {
		return m.Role == types.ModuleRolePipeline && !f.IsPrivate()
	}},
	{types.FunctionRoleDataFlow, func(f *types.FunctionEntity, _ *types.Module, _ bool) bool {
		return containsAny(f.Name, dataFlowKeywords)
	}},
	{types.FunctionRolePlain, func(*types.FunctionEntity, *types.Module, bool) bool { return true }},
}

// ClassifyClass returns the role of a class owned by moduleID. Only the class's own name
// counts; enclosing classes and functions in a qualified name do not.
func ClassifyClass(c *types.ClassEntity, moduleID string) types.ClassRole {
	if containsAny(localName(c.Name), strategyKeywords) || containsAny(moduleID, strategyKeywords) {
		return types.ClassRoleStrategy
	}
	return types.ClassRoleUnclassified
}

// ClassifyModuleRole returns the role of a module. Class roles must already be assigned.
func ClassifyModuleRole(m *types.Module) types.ModuleRole {
	for _, rule := range moduleRules {
		if rule.matches(m) {
			return rule.role
		}
	}
	return types.ModuleRoleUtility
}

// IsEntryPoint reports whether a module defines main() or guards top-level execution
func IsEntryPoint(m *types.Module) bool {
	return m.HasMainGuard || m.HasFunction(EntryPointFunction)
}

// ClassifyFunction returns the role of a function in module m. moduleLevel is true only
// for functions declared at the top level of the module.
func ClassifyFunction(f *types.FunctionEntity, m *types.Module, moduleLevel bool) types.FunctionRole {
	for _, rule := range functionRules {
		if rule.matches(f, m, moduleLevel) {
			return rule.role
		}
	}
	return types.FunctionRolePlain
}

// Classify assigns roles to a module and everything it owns, in place. The result depends
// only on m, so modules can be classified in any order.
func Classify(m *types.Module) {
	for _, c := range m.Classes {
		c.Role = ClassifyClass(c, m.ID)
	}

	m.Role = ClassifyModuleRole(m)
	m.EntryPoint = IsEntryPoint(m)

	var tag func(fns []*types.FunctionEntity, moduleLevel bool)
	tag = func(fns []*types.FunctionEntity, moduleLevel bool) {
		for _, f := range fns {
			f.Role = ClassifyFunction(f, m, moduleLevel)
			tag(f.Nested, false)
		}
	}
	tag(m.Functions, true)
	for _, c := range m.Classes {
		tag(c.Methods, false)
	}
}

// localName returns the last segment of a qualified name
func localName(qualified string) string {
	return qualified[strings.LastIndex(qualified, ".")+1:]
}

// containsAny reports whether s contains any keyword, ignoring case
func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
