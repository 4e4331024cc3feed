package wrangle

import (
	"encoding/json"
	"fmt"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/shlex"
)

// ToolSpec is a named unit of work in the tool registry.
type ToolSpec struct {
	Name  string
	Value ToolValue
	// Origin is the layer that last contributed to this entry.
	Origin string
}

// ToolValue is either the disable shorthand (a bare `false`) or an options record. The `true` and
// command-string shorthands are expanded into records when a layer is decoded.
type ToolValue struct {
	Disabled bool
	Options  ToolOptions
}

// Disable returns the disable shorthand.
func Disable() ToolValue {
	return ToolValue{Disabled: true}
}

// Enable returns the expansion of the `true` shorthand.
func Enable() ToolValue {
	enabled := true
	return ToolValue{Options: ToolOptions{Enabled: &enabled}}
}

// Run returns the expansion of a command-string shorthand.
func Run(line string) ToolValue {
	return ToolValue{Options: ToolOptions{Command: &Command{Line: line}}}
}

// Active reports whether a runner should consider the tool at all.
func (v ToolValue) Active() bool {
	return !v.Disabled && v.Options.IsEnabled()
}

func (v ToolValue) MarshalYAML() (any, error) {
	if v.Disabled {
		return false, nil
	}
	return v.Options, nil
}

func (v ToolValue) MarshalJSON() ([]byte, error) {
	if v.Disabled {
		return []byte("false"), nil
	}
	return json.Marshal(v.Options)
}

func (v ToolValue) String() string {
	if v.Disabled {
		return "disabled"
	}
	if v.Options.Command != nil {
		return v.Options.Command.String()
	}
	return ""
}

// ToolOptions is the full options record of a tool. Every field is optional: a nil field means the
// record does not mention the key, which is what lets a later layer tweak a single key of a tool an
// earlier layer defined.
type ToolOptions struct {
	Enabled      *bool             `yaml:"enabled,omitempty" json:"enabled,omitempty" mapstructure:"enabled"`
	Command      *Command          `yaml:"command,omitempty" json:"command,omitempty" mapstructure:"command"`
	Cd           *string           `yaml:"cd,omitempty" json:"cd,omitempty" mapstructure:"cd"`
	Env          map[string]string `yaml:"env,omitempty" json:"env,omitempty" mapstructure:"env"`
	Order        *int              `yaml:"order,omitempty" json:"order,omitempty" mapstructure:"order"`
	Deps         []DependencyRef   `yaml:"deps,omitempty" json:"deps,omitempty" mapstructure:"deps"`
	EnableAnsi   *bool             `yaml:"enableAnsi,omitempty" json:"enableAnsi,omitempty" mapstructure:"enableAnsi"`
	Umbrella     *ToolOptions      `yaml:"umbrella,omitempty" json:"umbrella,omitempty" mapstructure:"umbrella"`
	RequireFiles []string          `yaml:"requireFiles,omitempty" json:"requireFiles,omitempty" mapstructure:"requireFiles"`
	RequireDeps  []string          `yaml:"requireDeps,omitempty" json:"requireDeps,omitempty" mapstructure:"requireDeps"`
}

// Overlay returns o with every key present in n replacing the corresponding key of o. Keys only
// present in o are carried through unchanged.
func (o ToolOptions) Overlay(n ToolOptions) ToolOptions {
	out := o
	if n.Enabled != nil {
		out.Enabled = n.Enabled
	}
	if n.Command != nil {
		out.Command = n.Command
	}
	if n.Cd != nil {
		out.Cd = n.Cd
	}
	if n.Env != nil {
		out.Env = n.Env
	}
	if n.Order != nil {
		out.Order = n.Order
	}
	if n.Deps != nil {
		out.Deps = n.Deps
	}
	if n.EnableAnsi != nil {
		out.EnableAnsi = n.EnableAnsi
	}
	if n.Umbrella != nil {
		out.Umbrella = n.Umbrella
	}
	if n.RequireFiles != nil {
		out.RequireFiles = n.RequireFiles
	}
	if n.RequireDeps != nil {
		out.RequireDeps = n.RequireDeps
	}
	return out
}

func (o ToolOptions) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

func (o ToolOptions) AnsiEnabled() bool {
	return o.EnableAnsi == nil || *o.EnableAnsi
}

func (o ToolOptions) GetOrder() int {
	if o.Order == nil {
		return 0
	}
	return *o.Order
}

func (o ToolOptions) Dir() string {
	if o.Cd == nil {
		return ""
	}
	return *o.Cd
}

// WorkDir resolves the tool's cd against the project root. The result never leaves root: ".." and
// symlinks inside root are resolved as if root were the filesystem root.
func (o ToolOptions) WorkDir(root string) (string, error) {
	if o.Cd == nil {
		return root, nil
	}
	dir, err := securejoin.SecureJoin(root, *o.Cd)
	if err != nil {
		return "", fmt.Errorf("unable to resolve cd %q: %w", *o.Cd, err)
	}
	return dir, nil
}

// DependencyRef names another tool that must complete before this one.
type DependencyRef string

// Command is a tool command line, given either as a single shell-like string or as an argv list.
type Command struct {
	Line string
	Argv []string
}

// Args returns the argv for the command, splitting a string command with shell quoting rules.
func (c Command) Args() ([]string, error) {
	if len(c.Argv) > 0 {
		return c.Argv, nil
	}
	args, err := shlex.Split(c.Line)
	if err != nil {
		return nil, fmt.Errorf("unable to split command %q: %w", c.Line, err)
	}
	return args, nil
}

func (c Command) String() string {
	if len(c.Argv) > 0 {
		return strings.Join(c.Argv, " ")
	}
	return c.Line
}

func (c Command) MarshalYAML() (any, error) {
	if len(c.Argv) > 0 {
		return c.Argv, nil
	}
	return c.Line, nil
}

func (c Command) MarshalJSON() ([]byte, error) {
	if len(c.Argv) > 0 {
		return json.Marshal(c.Argv)
	}
	return json.Marshal(c.Line)
}
