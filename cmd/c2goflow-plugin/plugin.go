// Package c2goflowplugin implements golangci-lint's module plugin interface for c2goflow to be
// used as a private linter in golangci-lint. See more details at
// https://golangci-lint.run/plugins/module-plugins/.
package c2goflowplugin

import (
	"fmt"

	"github.com/golangci/plugin-module-register/register"
	"go.uber.org/c2goflow"
	"go.uber.org/c2goflow/config"
	"golang.org/x/tools/go/analysis"
)

func init() {
	register.Plugin("c2goflow", New)
}

// New returns the golangci-lint plugin that wraps the c2goflow analyzer.
func New(settings any) (register.LinterPlugin, error) {
	// Parse the settings to the correct type (map[string]string) similar to command line flags.
	s, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expect c2goflow's configurations to be a map from string to "+
			"string (similar to command line flags), got %T", settings)
	}
	conf := make(map[string]string, len(s))
	for k, v := range s {
		vStr, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expect c2goflow's configuration values for %q to be strings, got %T", k, v)
		}
		conf[k] = vStr
	}

	return &Plugin{conf: conf}, nil
}

// Plugin is the c2goflow plugin wrapper for golangci-lint.
type Plugin struct {
	conf map[string]string
}

// BuildAnalyzers builds the c2goflow analyzer with the configurations applied to the config analyzer.
func (p *Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	for k, v := range p.conf {
		if err := config.Analyzer.Flags.Set(k, v); err != nil {
			return nil, fmt.Errorf("set config flag %s with %s: %w", k, v, err)
		}
	}

	return []*analysis.Analyzer{c2goflow.Analyzer}, nil
}

// GetLoadMode returns the load mode of the c2goflow plugin (requiring types info).
func (p *Plugin) GetLoadMode() string { return register.LoadModeTypesInfo }
