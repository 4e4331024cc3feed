package option

import (
	"fmt"
	"strings"

	"github.com/scylladb/go-set/strset"

	"github.com/anchore/fangs"
)

var (
	_ fangs.FlagAdder  = (*Format)(nil)
	_ fangs.PostLoader = (*Format)(nil)
)

type Format struct {
	Output           string   `yaml:"output" json:"output" mapstructure:"output"`
	AllowableFormats []string `yaml:"-" json:"-" mapstructure:"-"`
	JQCommand        string   `yaml:"jqCommand" json:"jqCommand" mapstructure:"jqCommand"`
}

func (o *Format) AddFlags(flags fangs.FlagSet) {
	flags.StringVarP(
		&o.Output,
		"output", "o",
		fmt.Sprintf("output format to report results in (allowable values: %s)", o.AllowableFormats),
	)
	flags.StringVarP(
		&o.JQCommand,
		"jq", "",
		"JQ command to apply to the JSON output",
	)
}

func (o *Format) PostLoad() error {
	o.Output = strings.ToLower(strings.TrimSpace(o.Output))
	if len(o.AllowableFormats) > 0 && !strset.New(o.AllowableFormats...).Has(o.Output) {
		return fmt.Errorf("invalid output format %q (allowable values: %s)", o.Output, o.AllowableFormats)
	}
	return nil
}
