package library

import (
	"reflect"

	"go.uber.org/c2goflow/internal/analysishelper"
	"go.uber.org/c2goflow/valueflow"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Expose the library-configuration database as an analysishelper.Result of " +
	"valueflow.Library, the external-interface shape downstream value-flow passes consume via " +
	"Requires."

// Analyzer exposes a valueflow.Library as its ResultType.
var Analyzer = &analysis.Analyzer{
	Name: "c2goflow_library",
	Doc: _doc,
	Run: analysishelper.WrapRun(run),
	ResultType: reflect.TypeOf(analysishelper.Result[valueflow.Library]{}),
}

func run(*analysis.Pass) (valueflow.Library, error) {
	return New(), nil
}
