package wrangle

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// Options are the global run options consumed by the runner.
type Options struct {
	Parallel   bool `yaml:"parallel" json:"parallel"`
	ExitStatus bool `yaml:"exitStatus" json:"exitStatus"`
	Skipped    bool `yaml:"skipped" json:"skipped"`
}

func DefaultOptions() Options {
	return Options{
		Parallel:   true,
		ExitStatus: true,
		Skipped:    false,
	}
}

// LayerOptions are the global options a single layer defines; nil fields are left untouched when the
// layer is folded.
type LayerOptions struct {
	Parallel   *bool `mapstructure:"parallel"`
	ExitStatus *bool `mapstructure:"exitStatus"`
	Skipped    *bool `mapstructure:"skipped"`
}

func (l LayerOptions) IsEmpty() bool {
	return l.Parallel == nil && l.ExitStatus == nil && l.Skipped == nil
}

func (l LayerOptions) applyTo(o Options) Options {
	if l.Parallel != nil {
		o.Parallel = *l.Parallel
	}
	if l.ExitStatus != nil {
		o.ExitStatus = *l.ExitStatus
	}
	if l.Skipped != nil {
		o.Skipped = *l.Skipped
	}
	return o
}

// ToolEntry is a single (name, value) tuple of a layer.
type ToolEntry struct {
	Name  string
	Value ToolValue
}

// Layer is one configuration source, already evaluated.
type Layer struct {
	Origin  string
	Options LayerOptions
	Tools   []ToolEntry
}

// IsEmpty reports whether the layer defines no option and no tool.
func (l Layer) IsEmpty() bool {
	return l.Options.IsEmpty() && len(l.Tools) == 0
}

// State is the resolved configuration handed to the runner.
type State struct {
	Options Options
	Tools   Registry
	// Sources lists the origin of every layer that defined something in this state, lowest precedence
	// first.
	Sources []string
}

// Fold applies a layer on top of a state and returns the new state; s is not modified. Folding is not
// commutative: the order layers are folded in is their precedence. A layer that defines nothing returns s
// as is.
func Fold(s State, l Layer) State {
	if l.IsEmpty() {
		return s
	}

	next := State{
		Options: l.Options.applyTo(s.Options),
		Tools:   s.Tools.clone(),
		Sources: append(append([]string(nil), s.Sources...), l.Origin),
	}

	for _, entry := range l.Tools {
		var existing *ToolValue
		if spec, ok := next.Tools.Get(entry.Name); ok {
			existing = &spec.Value
		}
		next.Tools.upsert(ToolSpec{
			Name:   entry.Name,
			Value:  MergeTool(existing, entry.Value),
			Origin: l.Origin,
		})
	}

	return next
}

// FoldAll folds every layer in order.
func FoldAll(s State, layers ...Layer) State {
	for _, l := range layers {
		s = Fold(s, l)
	}
	return s
}

// Digest is a stable fingerprint of the resolved options and tools (origins are not included).
func (s State) Digest() string {
	type hashedTool struct {
		Name string
		// Value is the JSON form of the tool value; tool options nest through Umbrella, so they are
		// flattened before hashing.
		Value string
	}

	view := struct {
		Options Options
		Tools   []hashedTool
	}{
		Options: s.Options,
	}
	for _, spec := range s.Tools.specs {
		by, err := json.Marshal(spec.Value)
		if err != nil {
			panic(fmt.Sprintf("could not encode tool %q: %+v", spec.Name, err))
		}
		view.Tools = append(view.Tools, hashedTool{Name: spec.Name, Value: string(by)})
	}

	f, err := hashstructure.Hash(view, hashstructure.FormatV2, nil)
	if err != nil {
		panic(fmt.Sprintf("could not hash resolved config: %+v", err))
	}

	return fmt.Sprintf("%016x", f)
}
