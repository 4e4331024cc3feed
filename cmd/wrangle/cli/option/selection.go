package option

import (
	"github.com/anchore/clio"
	"github.com/anchore/wrangle/selection"
)

// Selection narrows the tools handed to the runner.
type Selection struct {
	Only   []string `json:"only" yaml:"only" mapstructure:"only"`
	Except []string `json:"except" yaml:"except" mapstructure:"except"`
}

func (o *Selection) AddFlags(flags clio.FlagSet) {
	flags.StringArrayVarP(&o.Only, selection.OnlyKey, "", "run only the given tool (repeatable)")
	flags.StringArrayVarP(&o.Except, selection.ExceptKey, "", "do not run the given tool (repeatable)")
}
