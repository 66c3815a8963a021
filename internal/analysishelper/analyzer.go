// Package analysishelper provides the typed pass-result wrapper used by every
// go/analysis.Analyzer in this module: a Result[T] that carries either a value or an error, and
// WrapRun which recovers a panic raised at an invariant violation (broken link-partner, AST
// cycle, pattern-matcher misuse) into that error instead of aborting the host process.
package analysishelper

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
)

// Result is the typed payload every analyzer in this module returns as its analysis.Analyzer
// ResultType, so that downstream analyzers consuming it via Requires can type-assert once and
// then branch on Err rather than re-deriving failure from a nil value.
type Result[T any] struct {
	Res T
	Err error
}

// WrapRun adapts a typed run function to the untyped (func(*analysis.Pass) (any, error)) shape
// analysis.Analyzer.Run expects, recovering any panic into an error carrying a stack trace and
// prefixing every error (panic or returned) with the analyzer's name so multi-unit runs can tell
// which pass aborted.
func WrapRun[T any](f func(*analysis.Pass) (T, error)) func(*analysis.Pass) (any, error) {
	return func(pass *analysis.Pass) (any, error) {
		result := Result[T]{}
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("%s: panic: %v\n%s", pass.Analyzer.Name, r, debug.Stack())
			}
		}()

		res, err := f(pass)
		if err != nil {
			result.Err = fmt.Errorf("%s: %w", pass.Analyzer.Name, err)
			return result, nil
		}
		result.Res = res
		return result, nil
	}
}
