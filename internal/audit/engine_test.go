package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func unit(path, code string) types.SourceUnit {
	return types.SourceUnit{Path: path, Content: []byte(code)}
}

func run(t *testing.T, units ...types.SourceUnit) (*types.Project, []types.Warning, error) {
	t.Helper()
	return NewEngine(4).Run(context.Background(), Request{Root: "/project", Name: "demo", Units: units})
}

func TestEngine_StrategyImportsUtility(t *testing.T) {
	project, warnings, err := run(t,
		unit("src/strategies/genetic.py", "from src.utils.math import add\n\nclass GeneticOptimizer:\n    def step(self):\n        return add(1, 2)\n"),
		unit("src/utils/math.py", "def add(a, b):\n    return a + b\n"),
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	g := project.Graph
	assert.Equal(t, []string{"src.strategies.genetic", "src.utils.math"}, g.Nodes)
	assert.Equal(t, []types.Edge{{Source: "src.strategies.genetic", Target: "src.utils.math"}}, g.Edges)
	assert.False(t, g.HasCycle)

	genetic := project.Module("src.strategies.genetic")
	require.NotNil(t, genetic)
	assert.Equal(t, types.ModuleRoleStrategy, genetic.Role)
	require.Len(t, genetic.Classes, 1)
	assert.Equal(t, types.ClassRoleStrategy, genetic.Classes[0].Role)

	assert.Equal(t, types.ModuleRoleUtility, project.Module("src.utils.math").Role)
	assert.Equal(t, 2, project.Stats.Modules)
	assert.Equal(t, 1, project.Stats.InternalLinks)
	assert.NotZero(t, project.Fingerprint)
}

func TestEngine_NestedClassesUnderStrategyNames(t *testing.T) {
	project, _, err := run(t,
		unit("src/core.py", "class StrategyFactory:\n    class Helper:\n        pass\n\n"+
			"def build_strategy():\n    class Config:\n        pass\n    return Config\n"),
	)
	require.NoError(t, err)

	core := project.Module("src.core")
	require.NotNil(t, core)
	roles := map[string]types.ClassRole{}
	for _, c := range core.Classes {
		roles[c.Name] = c.Role
	}
	assert.Equal(t, map[string]types.ClassRole{
		"StrategyFactory":        types.ClassRoleStrategy,
		"StrategyFactory.Helper": types.ClassRoleUnclassified,
		"build_strategy.Config":  types.ClassRoleUnclassified,
	}, roles)
}

func TestEngine_UnresolvedRelativeImport(t *testing.T) {
	project, warnings, err := run(t,
		unit("src/pipeline/runner.py", "from .. import config\n\ndef run():\n    return config\n"),
	)
	require.NoError(t, err)

	assert.Empty(t, project.Graph.Edges)
	assert.Equal(t, types.ModuleRolePipeline, project.Modules[0].Role)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarningUnresolvedImport, warnings[0].Kind)
	assert.Equal(t, "src/pipeline/runner.py", warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "from .. import config")
	assert.Equal(t, 1, project.Stats.UnresolvedImports)
}

func TestEngine_ParseErrorIsWarning(t *testing.T) {
	project, warnings, err := run(t,
		unit("app/main.py", "def main():\n    pass\n"),
		unit("app/broken.py", "def broken(:\n    pass\n"),
	)
	require.NoError(t, err)

	require.Len(t, project.Modules, 1)
	assert.Equal(t, "app.main", project.Modules[0].ID)
	assert.True(t, project.Modules[0].EntryPoint)
	assert.Equal(t, 2, project.Stats.FilesAnalyzed)

	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarningParseError, warnings[0].Kind)
	assert.Equal(t, "app/broken.py", warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "app/broken.py")
}

func TestEngine_EmptyProject(t *testing.T) {
	t.Run("no units", func(t *testing.T) {
		project, _, err := run(t)
		assert.Nil(t, project)
		assert.True(t, errors.Is(err, auditerrors.ErrEmptyProject))
	})

	t.Run("only malformed units", func(t *testing.T) {
		project, warnings, err := run(t, unit("bad.py", "class :\n"))
		assert.Nil(t, project)
		require.Error(t, err)

		var emptyErr *auditerrors.EmptyProjectError
		require.True(t, errors.As(err, &emptyErr))
		assert.Equal(t, 1, emptyErr.ParseFails)
		assert.Len(t, warnings, 1)
	})
}

func TestEngine_DuplicateModule(t *testing.T) {
	project, warnings, err := run(t,
		unit("a/b.py", "x = 1\n"),
		unit("a.b.py", "y = 2\n"),
	)
	require.NoError(t, err)

	require.Len(t, project.Modules, 1)
	assert.Equal(t, "a.b.py", project.Modules[0].Path)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarningDuplicateModule, warnings[0].Kind)
	assert.Equal(t, "a/b.py", warnings[0].Path)
}

func TestEngine_Cycle(t *testing.T) {
	project, _, err := run(t,
		unit("pkg/a.py", "from pkg import b\n"),
		unit("pkg/b.py", "import pkg.a\n"),
	)
	require.NoError(t, err)
	assert.True(t, project.Graph.HasCycle)
	assert.Equal(t, [][]string{{"pkg.a", "pkg.b"}}, project.Graph.Cycles)
}

func TestEngine_Idempotent(t *testing.T) {
	units := []types.SourceUnit{
		unit("src/strategies/genetic.py", "from ..utils import math\nimport numpy\n\nclass Genetic:\n    pass\n"),
		unit("src/utils/math.py", "def load(x):\n    if x:\n        return x\n"),
		unit("src/pipeline/runner.py", "from .. import config\n\ndef main():\n    pass\n\nif __name__ == '__main__':\n    main()\n"),
		unit("src/broken.py", "def (:\n"),
	}
	reversed := make([]types.SourceUnit, len(units))
	for i, u := range units {
		reversed[len(units)-1-i] = u
	}

	first, firstWarnings, err := run(t, units...)
	require.NoError(t, err)
	second, secondWarnings, err := run(t, reversed...)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, firstWarnings, secondWarnings)
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	project, warnings, err := NewEngine(2).Run(ctx, Request{
		Root:  "/project",
		Units: []types.SourceUnit{unit("a.py", "x = 1\n")},
	})
	assert.Nil(t, project)
	assert.Nil(t, warnings)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine_DefaultWorkers(t *testing.T) {
	assert.Positive(t, NewEngine(0).Workers())
	assert.Equal(t, 3, NewEngine(3).Workers())
}
