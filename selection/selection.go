package selection

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/scylladb/go-set/strset"
	"github.com/spf13/pflag"

	"github.com/anchore/wrangle"
)

const (
	// OnlyKey selects tools to run, by name (repeatable).
	OnlyKey = "only"
	// ExceptKey excludes tools from the run, by name (repeatable).
	ExceptKey = "except"
)

// Flag is a single parsed command line flag occurrence. Repeated flags yield one Flag per occurrence.
type Flag struct {
	Key   string
	Value any
}

// ToolRef refers to a tool of the registry by its exact name.
type ToolRef struct {
	Name string
}

func (r ToolRef) String() string {
	return r.Name
}

// Translate maps the raw text of the selector flags onto tool references. All other flags are passed
// through unchanged; the output has one entry per input entry, in the same order.
func Translate(flags []Flag) []Flag {
	out := make([]Flag, len(flags))
	for i, f := range flags {
		out[i] = f
		if f.Key != OnlyKey && f.Key != ExceptKey {
			continue
		}
		if name, ok := f.Value.(string); ok {
			out[i].Value = ToolRef{Name: name}
		}
	}
	return out
}

// Recording remembers every occurrence of the flags of a flag set, in command line order.
type Recording struct {
	flags []Flag
}

// Record wraps every flag currently defined on the flag set so that each occurrence parsed afterwards is
// recorded. Flags added later are not recorded.
func Record(flags *pflag.FlagSet) *Recording {
	r := &Recording{}
	flags.VisitAll(func(f *pflag.Flag) {
		f.Value = &recordedValue{Value: f.Value, name: f.Name, recording: r}
	})
	return r
}

// Flags returns the recorded occurrences. Boolean flags carry a bool, everything else the raw text.
func (r *Recording) Flags() []Flag {
	return append([]Flag(nil), r.flags...)
}

type recordedValue struct {
	pflag.Value
	name      string
	recording *Recording
}

func (v *recordedValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}

	var value any = s
	if v.Type() == "bool" {
		if b, err := strconv.ParseBool(s); err == nil {
			value = b
		}
	}
	v.recording.flags = append(v.recording.flags, Flag{Key: v.name, Value: value})
	return nil
}

// Apply filters the registry with the translated selectors and returns the selected tools in registry
// order. Disabled tools are always left out; tools with `enabled: false` are left out unless they are
// named by an "only" selector. Selectors naming tools that are not in the registry are an error.
func Apply(reg wrangle.Registry, flags []Flag) ([]wrangle.ToolSpec, error) {
	only := strset.New()
	except := strset.New()

	var errs error
	for _, f := range flags {
		ref, ok := f.Value.(ToolRef)
		if !ok {
			continue
		}
		if !reg.Has(ref.Name) {
			errs = multierror.Append(errs, fmt.Errorf("no tool configured with name: %s", ref.Name))
			continue
		}
		switch f.Key {
		case OnlyKey:
			only.Add(ref.Name)
		case ExceptKey:
			except.Add(ref.Name)
		}
	}
	if errs != nil {
		return nil, errs
	}

	var selected []wrangle.ToolSpec
	for _, spec := range reg.Specs() {
		switch {
		case except.Has(spec.Name):
			continue
		case !only.IsEmpty() && !only.Has(spec.Name):
			continue
		case spec.Value.Disabled:
			continue
		case !spec.Value.Options.IsEnabled() && !only.Has(spec.Name):
			continue
		}
		selected = append(selected, spec)
	}
	return selected, nil
}
