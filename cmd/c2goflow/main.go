// Command c2goflow runs the value-flow analysis core as a standalone, independently invocable
// checker, the way cmd/nilaway did for its own analyzer: it lifts the configuration analyzer's
// flags to the top level and drives everything through golang.org/x/tools/go/analysis/singlechecker.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/c2goflow"
	"go.uber.org/c2goflow/config"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	// Lift config.Analyzer's flags to the top level, exactly as cmd/nilaway/main.go did for
	// config/const.go's flags, so users invoke `c2goflow -platform unix32 ./...` instead of having
	// to address the config sub-analyzer by name.
	config.Analyzer.Flags.VisitAll(func(f *flag.Flag) { flag.Var(f.Value, f.Name, f.Usage) })

	if _, err := os.Getwd(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	singlechecker.Main(c2goflow.Analyzer)
}
