package deterministicmaplint

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/golangci/plugin-module-register/register"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestPluginDeterministicMapLint(t *testing.T) {
	analyzer := newAnalyzer(t, nil)
	analysistest.Run(t, testdataDir(t), analyzer, "testlintdata/deterministic")
}

func TestPluginDeterministicMapLint_IgnoreTests(t *testing.T) {
	analyzer := newAnalyzer(t, map[string]any{"ignore-tests": true})
	analysistest.Run(t, testdataDir(t), analyzer, "testlintdata/withtests")
}

func TestPluginDeterministicMapLint_LoadMode(t *testing.T) {
	plugin, err := New(nil)
	require.NoError(t, err)
	require.Equal(t, register.LoadModeTypesInfo, plugin.GetLoadMode())
}

func newAnalyzer(t *testing.T, settings any) *analysis.Analyzer {
	t.Helper()

	newPlugin, err := register.GetPlugin("deterministicmaplint")
	require.NoError(t, err)

	plugin, err := newPlugin(settings)
	require.NoError(t, err)

	analyzers, err := plugin.BuildAnalyzers()
	require.NoError(t, err)
	require.Len(t, analyzers, 1)

	return analyzers[0]
}

func testdataDir(t *testing.T) string {
	t.Helper()

	_, testFilename, _, ok := runtime.Caller(1)
	if !ok {
		require.Fail(t, "unable to get current test filename")
	}

	return filepath.Join(filepath.Dir(testFilename), "testdata")
}
