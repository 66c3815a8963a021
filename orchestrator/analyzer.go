package orchestrator

import (
	"fmt"
	"reflect"

	"go.uber.org/c2goflow/config"
	"go.uber.org/c2goflow/internal/analysishelper"
	"go.uber.org/c2goflow/internal/library"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/valueflow"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Run constant seeding followed by the value-flow fixed-point loop over one " +
	"translation unit's token graph, using the configuration, library knowledge, and symbol " +
	"records the earlier analyzers in Requires expose."

// Analyzer drives Orchestrate over the token graph for one translation unit. Building that graph
// from source text is the tokenizer/preprocessor collaborator's job (out of scope, same as
// internal/symtab and internal/library's own stand-ins) -- Run here exposes an empty list so the
// wiring is exercised end to end; a real deployment replaces Run with one that asks the
// tokenizer for the unit's actual *token.List.
var Analyzer = &analysis.Analyzer{
	Name:       "c2goflow_orchestrator",
	Doc:        _doc,
	Run:        analysishelper.WrapRun(run),
	Requires:   []*analysis.Analyzer{config.Analyzer, symtab.Analyzer, library.Analyzer},
	ResultType: reflect.TypeOf(analysishelper.Result[Result]{}),
}

func run(pass *analysis.Pass) (result Result, err error) {
	conf, ok := pass.ResultOf[config.Analyzer].(*config.Config)
	if !ok {
		return Result{}, fmt.Errorf("missing %s result", config.Analyzer.Name)
	}
	symResult, ok := pass.ResultOf[symtab.Analyzer].(analysishelper.Result[symtab.SymTab])
	if !ok {
		return Result{}, fmt.Errorf("missing %s result", symtab.Analyzer.Name)
	}
	if symResult.Err != nil {
		return Result{}, symResult.Err
	}
	libResult, ok := pass.ResultOf[library.Analyzer].(analysishelper.Result[valueflow.Library])
	if !ok {
		return Result{}, fmt.Errorf("missing %s result", library.Analyzer.Name)
	}
	if libResult.Err != nil {
		return Result{}, libResult.Err
	}

	settings, err := conf.ValueflowSettings()
	if err != nil {
		return Result{}, err
	}
	settings.Library = libResult.Res

	list := token.NewList(token.Cpp)
	return Orchestrate(list, settings, symResult.Res), nil
}
