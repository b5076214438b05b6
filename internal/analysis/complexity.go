package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// BaseComplexity is the score of a function with no branching constructs
const BaseComplexity = 1

// branchingKinds are the Python syntax nodes that add one to a function's score:
// conditional branches, bounded and unbounded loops, exception handling blocks, and
// scoped resource acquisition. async for/with parse as for_statement/with_statement.
var branchingKinds = map[string]bool{
	"if_statement":    true,
	"elif_clause":     true,
	"for_statement":   true,
	"while_statement": true,
	"try_statement":   true,
	"with_statement":  true,
}

// EstimateComplexity scores a function_definition node as 1 plus the number of branching
// constructs anywhere in its body. Named functions nested in the body are scored on their
// own and do not contribute; lambdas and comprehensions are not named, so they do.
//
// This approximates branching complexity. It is not cyclomatic complexity: boolean operands,
// conditional expressions and early returns are not counted.
func EstimateComplexity(fn *tree_sitter.Node) int {
	if fn == nil {
		return BaseComplexity
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return BaseComplexity
	}

	complexity := BaseComplexity
	countBranches(body, &complexity)
	return complexity
}

func countBranches(node *tree_sitter.Node, complexity *int) {
	if node == nil {
		return
	}

	kind := node.Kind()
	if kind == "function_definition" {
		return
	}
	if branchingKinds[kind] {
		*complexity++
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		countBranches(node.Child(i), complexity)
	}
}
