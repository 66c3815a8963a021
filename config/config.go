// Package config provides a single read-only Config struct built once per run from command
// line flags, the way the teacher's config.Config is built from flags registered on
// config.Analyzer.
package config

import (
	"flag"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/c2goflow/platform"
	"go.uber.org/c2goflow/valueflow"
	"golang.org/x/tools/go/analysis"
)

// Flag names, exported so a driver (cmd/c2goflow, the golangci-lint plugin) can lift them to its
// own top-level flag set the way cmd/nilaway/main.go does with config.Analyzer.Flags.VisitAll.
const (
	PlatformFlag = "platform"
	MaxValuesPerTokenFlag = "max-values-per-token"
	FixedPointRoundsFlag = "fixed-point-rounds"
	WallClockCapFlag = "wall-clock-cap"
	PrintFullFilePathFlag = "print-full-file-path"
	GroupBailoutMessagesFlag = "group-bailout-messages"
)

// Config is the read-only settings bundle every pass consults. It is built once per run by
// Analyzer and is safe to share across translation units analyzed in parallel (§5).
type Config struct {
	// Platform selects the ABI constants (char/int/long widths, pointer size) folding consults.
	Platform string
	// MaxValuesPerToken mirrors value.Cap and is copied into valueflow.Settings; no pass reads it
	// there, and value.List always caps at value.Cap.
	MaxValuesPerToken int
	// FixedPointRounds is the orchestrator's iteration cap (§4.9 step 3: "up to 4 times").
	FixedPointRounds int
	// WallClockCap is parsed from its flag but not consulted: the orchestrator applies its own
	// fixed 10-second per-unit budget.
	WallClockCap time.Duration
	// PrintFullFilePath is parsed from its flag but not read by any code in this module; reported
	// positions are not truncated.
	PrintFullFilePath bool
	// GroupBailoutMessages is parsed from its flag but not read by any code in this module; no
	// driver builds a diagnostic engine from it.
	GroupBailoutMessages bool
}

// ValueflowSettings projects Config onto the valueflow.Settings every pass actually consults,
// filling in the platform constants for the configured name. The Library collaborator is not
// part of Config (it comes from the separate library-configuration external interface, see
// internal/library) and must be set by the caller afterward.
func (c *Config) ValueflowSettings() (valueflow.Settings, error) {
	p, err := platformConstants(c.Platform)
	if err != nil {
		return valueflow.Settings{}, err
	}
	return valueflow.Settings{
		Platform: p,
		MaxValuesPerToken: c.MaxValuesPerToken,
		FixedPointRounds: c.FixedPointRounds,
	}, nil
}

func platformConstants(name string) (platform.Constants, error) {
	switch name {
	case "", "native":
		return platform.Native(), nil
	case "win64":
		return platform.Win64Constants(), nil
	case "win32":
		return platform.Win32Constants(), nil
	case "unix32":
		return platform.Unix32Constants(), nil
	default:
		return platform.Constants{}, fmt.Errorf("config: unknown platform %q", name)
	}
}

const _doc = "Parse and expose the value-flow analyzer's command line flags as a single read-only Config, " +
	"the way every other pass in this module consumes shared settings via Requires."

// Analyzer parses this package's flags and exposes the result as its ResultType so downstream
// analyzers (orchestrator, internal/symtab, internal/library) obtain it via Requires, exactly as
// the teacher's assertion/accumulation analyzers consume config.Analyzer.
var Analyzer = &analysis.Analyzer{
	Name: "c2goflow_config",
	Doc: _doc,
	Run: run,
	ResultType: reflect.TypeOf((*Config)(nil)),
}

var defaults = Config{
	Platform: "native",
	MaxValuesPerToken: 10,
	FixedPointRounds: 4,
	WallClockCap: 10 * time.Second,
	PrintFullFilePath: false,
	GroupBailoutMessages: true,
}

func init() {
	Analyzer.Flags.StringVar(&defaults.Platform, PlatformFlag, defaults.Platform,
		"target platform ABI for folding (native, win32, win64, unix32)")
	Analyzer.Flags.IntVar(&defaults.MaxValuesPerToken, MaxValuesPerTokenFlag, defaults.MaxValuesPerToken,
		"maximum number of values retained per token (not consulted; the cap is fixed at 10)")
	Analyzer.Flags.IntVar(&defaults.FixedPointRounds, FixedPointRoundsFlag, defaults.FixedPointRounds,
		"maximum fixed-point iterations of the orchestrator's pass list")
	Analyzer.Flags.DurationVar(&defaults.WallClockCap, WallClockCapFlag, defaults.WallClockCap,
		"per-translation-unit wall-clock budget (not consulted; the orchestrator uses a fixed 10s)")
	Analyzer.Flags.BoolVar(&defaults.PrintFullFilePath, PrintFullFilePathFlag, defaults.PrintFullFilePath,
		"print full file paths instead of truncating to the configured directory depth (not consulted)")
	Analyzer.Flags.BoolVar(&defaults.GroupBailoutMessages, GroupBailoutMessagesFlag, defaults.GroupBailoutMessages,
		"group bailouts that share a reason and construct into a single diagnostic (not consulted)")
}

func run(*analysis.Pass) (any, error) {
	conf := defaults
	return &conf, nil
}
