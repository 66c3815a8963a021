package c2goflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow"
	"go.uber.org/c2goflow/internal/analysishelper"
	"go.uber.org/c2goflow/orchestrator"
	"golang.org/x/tools/go/analysis"
)

func TestAnalyzerReportsSettledRunSummary(t *testing.T) {
	t.Parallel()

	var reported []analysis.Diagnostic
	pass := &analysis.Pass{
		ResultOf: map[*analysis.Analyzer]any{
			orchestrator.Analyzer: analysishelper.Result[orchestrator.Result]{
				Res: orchestrator.Result{Rounds: 3, TimedOut: false},
			},
		},
		Report: func(d analysis.Diagnostic) { reported = append(reported, d) },
	}

	_, err := c2goflow.Analyzer.Run(pass)
	require.NoError(t, err)
	require.Len(t, reported, 1)
	require.Contains(t, reported[0].Message, "3 round(s)")
	require.Contains(t, reported[0].Message, "timed out=false")
}

func TestAnalyzerPropagatesOrchestratorError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	pass := &analysis.Pass{
		ResultOf: map[*analysis.Analyzer]any{
			orchestrator.Analyzer: analysishelper.Result[orchestrator.Result]{Err: wantErr},
		},
	}

	_, err := c2goflow.Analyzer.Run(pass)
	require.ErrorIs(t, err, wantErr)
}

func TestAnalyzerMissingResultErrors(t *testing.T) {
	t.Parallel()

	pass := &analysis.Pass{ResultOf: map[*analysis.Analyzer]any{}}
	_, err := c2goflow.Analyzer.Run(pass)
	require.Error(t, err)
}
