// Package c2goflow implements the top-level analyzer that runs the value-flow analysis core over
// one translation unit and reports how the fixed-point run went. It exists so cmd/c2goflow and
// cmd/c2goflow-plugin share one Requires chain instead of each redeclaring it, the same role
// nilaway.go played for cmd/nilaway and cmd/gclplugin in the teacher this module descends from.
package c2goflow

import (
	"fmt"
	"go/token"

	"go.uber.org/c2goflow/config"
	"go.uber.org/c2goflow/internal/analysishelper"
	"go.uber.org/c2goflow/orchestrator"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Run the c2goflow value-flow analysis core (constant seeding, the fixed-point pass " +
	"loop, and dynamic buffer size seeding) over this translation unit and report a summary of " +
	"the run. The real preprocessor/tokenizer collaborator that would hand this analyzer an " +
	"actual C/C++ token graph is out of scope; every run here walks the empty graph " +
	"orchestrator.Analyzer stands it up with."
const Name = "c2goflow"

// Analyzer coordinates the whole pipeline -- config, then symtab/library (via orchestrator's own
// Requires), then orchestrator -- and reports the settled run's outcome.
var Analyzer = &analysis.Analyzer{
	Name:      Name,
	Doc:       _doc,
	Run:       run,
	FactTypes: []analysis.Fact{},
	Requires:  []*analysis.Analyzer{config.Analyzer, orchestrator.Analyzer},
}

func run(pass *analysis.Pass) (any, error) {
	result, ok := pass.ResultOf[orchestrator.Analyzer].(analysishelper.Result[orchestrator.Result])
	if !ok {
		return nil, fmt.Errorf("missing %s result", orchestrator.Analyzer.Name)
	}
	if result.Err != nil {
		return nil, result.Err
	}

	pass.Report(analysis.Diagnostic{
		Pos: token.Pos(1),
		Message: fmt.Sprintf(
			"c2goflow: value-flow fixed point settled after %d round(s) (timed out=%t, %d bailout(s))",
			result.Res.Rounds, result.Res.TimedOut, len(result.Res.Bailouts),
		),
	})
	return nil, nil
}
