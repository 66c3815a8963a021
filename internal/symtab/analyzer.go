package symtab

import (
	"reflect"

	"go.uber.org/c2goflow/internal/analysishelper"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Expose the symbol database for one translation unit as an analysishelper.Result, " +
	"the external-interface shape downstream value-flow passes consume via Requires. Building a " +
	"real symbol database from a preprocessor is out of scope; Analyzer here exposes an empty " +
	"Table, standing in for the upstream collaborator's result."

// Analyzer exposes a SymTab as its ResultType, wrapped in analysishelper.Result so a panic in a
// real implementation (were one wired in) is recovered rather than aborting the run. This module
// never populates the Table itself outside tests -- a real deployment replaces Run with one that
// asks the actual preprocessor for scope/variable/function records.
var Analyzer = &analysis.Analyzer{
	Name: "c2goflow_symtab",
	Doc: _doc,
	Run: analysishelper.WrapRun(run),
	ResultType: reflect.TypeOf(analysishelper.Result[SymTab]{}),
}

func run(*analysis.Pass) (SymTab, error) {
	return NewTable(), nil
}
