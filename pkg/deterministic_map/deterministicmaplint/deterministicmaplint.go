// Package deterministicmaplint reports ranging over built-in maps in ledger code,
// where iteration order would leak into state writes.
package deterministicmaplint

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"
)

func init() {
	register.Plugin("deterministicmaplint", New)
}

// LinterSettings configures the linter.
type LinterSettings struct {
	// IgnoreTests skips _test.go files.
	IgnoreTests bool `json:"ignore-tests"`
}

// PluginDeterministicMapLint is the linter plugin.
type PluginDeterministicMapLint struct {
	settings LinterSettings
}

// New returns a new linter plugin.
func New(settings any) (register.LinterPlugin, error) {
	s, err := register.DecodeSettings[LinterSettings](settings)
	if err != nil {
		return nil, err
	}

	return &PluginDeterministicMapLint{settings: s}, nil
}

// BuildAnalyzers returns the analyzers for the linter.
func (f *PluginDeterministicMapLint) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{
		{
			Name: "deterministicmaplint",
			Doc:  "Disallow ranging over built-in maps; enforce deterministicmap.Map",
			Run:  f.run,
		},
	}, nil
}

// GetLoadMode returns the load mode for the linter.
func (f *PluginDeterministicMapLint) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

func (f *PluginDeterministicMapLint) run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if f.settings.IgnoreTests && strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go") {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			rs, isRange := n.(*ast.RangeStmt)
			if !isRange {
				return true
			}
			if isMapType(pass.TypesInfo.TypeOf(rs.X)) {
				pass.Reportf(
					rs.Pos(),
					"ranging over map is forbidden (iteration order is nondeterministic); use deterministicmap.Map instead",
				)
			}
			return true
		})
	}

	return nil, nil //nolint:nilnil
}

func isMapType(t types.Type) bool {
	if t == nil {
		return false
	}
	_, ok := t.Underlying().(*types.Map)
	return ok
}
