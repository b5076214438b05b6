// Package audit runs the analysis engine: parallel per-unit extraction followed, after a
// barrier, by the single-threaded aggregation into a Project.
package audit

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/parser"
	"github.com/standardbeagle/codeaudit/internal/symbollinker"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// Request describes one audit run
type Request struct {
	Root      string
	Name      string
	Units     []types.SourceUnit
	DataFiles []types.DataFile
}

// Engine extracts source units on a bounded worker pool and aggregates the results
type Engine struct {
	workers   int
	extractor *symbollinker.PythonExtractor
}

// NewEngine creates an engine with the given worker count. Zero or less means one worker
// per available CPU.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		workers:   workers,
		extractor: symbollinker.NewPythonExtractor(),
	}
}

// Workers returns the size of the extraction pool
func (e *Engine) Workers() int {
	return e.workers
}

type unitResult struct {
	module *types.Module
	err    error
}

// Run audits the request's units. Extraction is parallel; aggregation starts only once every
// submitted unit has finished. Parse failures become warnings and never abort the run.
//
// When ctx is cancelled no further units are submitted, units already in flight complete,
// and Run returns ctx.Err().
func (e *Engine) Run(ctx context.Context, req Request) (*types.Project, []types.Warning, error) {
	start := time.Now()
	results := make([]unitResult, len(req.Units))

	var g errgroup.Group
	g.SetLimit(e.workers)

	submitted := 0
	for i, unit := range req.Units {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p := parser.GetPythonParser()
			defer parser.ReleasePythonParser(p)

			m, err := e.extractor.Extract(unit, p)
			results[i] = unitResult{module: m, err: err}
			return nil
		})
		submitted++
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		debug.LogAudit("run cancelled after %d/%d units", submitted, len(req.Units))
		return nil, nil, err
	}

	modules := make([]*types.Module, 0, len(results))
	var warnings []types.Warning
	for i, r := range results {
		if r.err == nil {
			modules = append(modules, r.module)
			continue
		}
		warnings = append(warnings, unitWarning(req.Units[i].Path, r.err))
	}

	debug.LogAudit("extracted %d/%d units with %d workers in %v",
		len(modules), len(req.Units), e.workers, time.Since(start))

	return Aggregate(Input{
		Root:      req.Root,
		Name:      req.Name,
		Modules:   modules,
		Warnings:  warnings,
		DataFiles: req.DataFiles,
	})
}

// unitWarning converts an extraction failure into a warning. Any failure excludes the unit,
// so failures that are not syntax errors are reported under the parse kind as well.
func unitWarning(path string, err error) types.Warning {
	var parseErr *auditerrors.ParseError
	if errors.As(err, &parseErr) && parseErr.FilePath == "" {
		parseErr.WithPath(path)
	}
	return types.Warning{
		Path:    path,
		Kind:    types.WarningParseError,
		Message: err.Error(),
	}
}
