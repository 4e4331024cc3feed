package option

import (
	"fmt"
	"path/filepath"

	"github.com/anchore/clio"
	"github.com/anchore/fangs"
	"github.com/anchore/wrangle"
)

var (
	_ fangs.FlagAdder  = (*Resolve)(nil)
	_ fangs.PostLoader = (*Resolve)(nil)
)

const (
	parallelFlag   = "parallel"
	skippedFlag    = "skipped"
	exitStatusFlag = "exit-status"
)

// Resolve controls which override layers are loaded and the option toggles applied on top of them.
type Resolve struct {
	File       string `json:"file" yaml:"file" mapstructure:"file"`
	Parallel   bool   `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
	Skipped    bool   `json:"skipped" yaml:"skipped" mapstructure:"skipped"`
	ExitStatus bool   `json:"exit-status" yaml:"exit-status" mapstructure:"exit-status"`
}

func DefaultResolve() Resolve {
	opts := wrangle.DefaultOptions()
	return Resolve{
		Parallel:   opts.Parallel,
		Skipped:    opts.Skipped,
		ExitStatus: opts.ExitStatus,
	}
}

func (o *Resolve) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.File, "file", "f", "an additional override file, applied just before the project root")
	flags.BoolVarP(&o.Parallel, parallelFlag, "", "run independent tools concurrently")
	flags.BoolVarP(&o.Skipped, skippedFlag, "", "report tools that were skipped")
	flags.BoolVarP(&o.ExitStatus, exitStatusFlag, "", "exit with a non-zero status when a tool fails")
}

func (o *Resolve) PostLoad() error {
	if o.File == "" {
		return nil
	}
	abs, err := filepath.Abs(o.File)
	if err != nil {
		return fmt.Errorf("unable to resolve override file %q: %w", o.File, err)
	}
	o.File = abs
	return nil
}

// Overrides returns the toggles the user set explicitly, as an options-only layer.
func (o Resolve) Overrides(changed func(name string) bool) wrangle.LayerOptions {
	var l wrangle.LayerOptions
	if changed(parallelFlag) {
		l.Parallel = boolPtr(o.Parallel)
	}
	if changed(skippedFlag) {
		l.Skipped = boolPtr(o.Skipped)
	}
	if changed(exitStatusFlag) {
		l.ExitStatus = boolPtr(o.ExitStatus)
	}
	return l
}

func boolPtr(b bool) *bool {
	return &b
}
