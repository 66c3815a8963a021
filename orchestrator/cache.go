package orchestrator

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// RoundTrace captures one fixed-point round's shape: its number and how many facts existed on
// exit. Orchestrate does not fill Bailouts. A sequence of these is what lets a
// later debugging session see how a run converged (or didn't) without re-running it.
type RoundTrace struct {
	Round      int
	ValueCount int
	Bailouts   []valueflowBailout
}

// valueflowBailout is a gob-friendly copy of valueflow.Bailout (a plain struct already, but named
// locally so cache.go's wire format doesn't change shape if valueflow.Bailout ever grows an
// unexported field).
type valueflowBailout struct {
	ID     string
	Reason string
}

// WriteTrace zstd-compresses the gob encoding of rounds to w. Grounded on the same
// serialize-then-compress split `orchestrator/export.go` uses for SeedFacts, but with zstd instead
// of s2: a trace log is written once per run and read rarely (debugging a stuck fixed point), so
// the better compression ratio of zstd is worth its slower encode relative to s2's speed, which
// export.go needs because SeedFacts round-trips within a single run's pass loop.
func WriteTrace(w io.Writer, rounds []RoundTrace) (err error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open zstd writer: %w", err)
	}
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close zstd writer: %w", cerr)
		}
	}()

	if err := gob.NewEncoder(zw).Encode(rounds); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return nil
}

// ReadTrace decodes a trace log previously written by WriteTrace.
func ReadTrace(r io.Reader) ([]RoundTrace, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open zstd reader: %w", err)
	}
	defer zr.Close()

	var rounds []RoundTrace
	if err := gob.NewDecoder(zr).Decode(&rounds); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return rounds, nil
}
