package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/cmd/wrangle/cli/option"
	"github.com/anchore/wrangle/internal/bus"
)

const (
	yamlOutput = "yaml"
	jsonOutput = "json"
)

type ShowConfigConfig struct {
	option.Resolve `json:"" yaml:",inline" mapstructure:",squash"`
	option.Format  `json:"" yaml:",inline" mapstructure:",squash"`
}

func ShowConfig(app clio.Application) *cobra.Command {
	cfg := &ShowConfigConfig{
		Resolve: option.DefaultResolve(),
		Format: option.Format{
			Output:           yamlOutput,
			AllowableFormats: []string{yamlOutput, jsonOutput},
		},
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "config",
		Short: "Show the configuration resolved from every override layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShowConfig(cmd.Context(), *cfg, cmd.Flags())
		},
	}, cfg)
}

func runShowConfig(ctx context.Context, cfg ShowConfigConfig, flags *pflag.FlagSet) error {
	res, err := resolve(ctx, cfg.Resolve, flags.Changed)
	if err != nil {
		return err
	}

	var out string
	switch {
	case cfg.JQCommand != "":
		out, err = renderConfigJQ(res.State, cfg.JQCommand)
	case cfg.Output == jsonOutput:
		out, err = renderConfigJSON(res.State)
	default:
		out, err = renderConfigYAML(res.State)
	}
	if err != nil {
		return err
	}

	bus.Report(out)
	return nil
}

// renderConfigYAML writes the resolved state as an override file, so the output can be loaded as a layer.
func renderConfigYAML(s wrangle.State) (string, error) {
	doc := &yaml.Node{
		Kind:        yaml.MappingNode,
		HeadComment: fmt.Sprintf("resolved from: %s\ndigest: %s", strings.Join(s.Sources, ", "), s.Digest()),
	}

	if err := appendYAML(doc, "parallel", s.Options.Parallel); err != nil {
		return "", err
	}
	if err := appendYAML(doc, "exitStatus", s.Options.ExitStatus); err != nil {
		return "", err
	}
	if err := appendYAML(doc, "skipped", s.Options.Skipped); err != nil {
		return "", err
	}

	tools := &yaml.Node{Kind: yaml.MappingNode}
	for _, spec := range s.Tools.Specs() {
		if err := appendYAML(tools, spec.Name, spec.Value); err != nil {
			return "", fmt.Errorf("unable to encode tool %q: %w", spec.Name, err)
		}
	}
	doc.Content = append(doc.Content, yamlKey("tools"), tools)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func appendYAML(mapping *yaml.Node, key string, value any) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return err
	}
	mapping.Content = append(mapping.Content, yamlKey(key), &v)
	return nil
}

func yamlKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

type configDocument struct {
	Options wrangle.Options `json:"options"`
	Tools   []toolDocument  `json:"tools"`
	Sources []string        `json:"sources"`
	Digest  string          `json:"digest"`
}

type toolDocument struct {
	Name   string            `json:"name"`
	Origin string            `json:"origin"`
	Value  wrangle.ToolValue `json:"value"`
}

func newConfigDocument(s wrangle.State) configDocument {
	doc := configDocument{
		Options: s.Options,
		Tools:   []toolDocument{},
		Sources: s.Sources,
		Digest:  s.Digest(),
	}
	for _, spec := range s.Tools.Specs() {
		doc.Tools = append(doc.Tools, toolDocument{Name: spec.Name, Origin: spec.Origin, Value: spec.Value})
	}
	return doc
}

func renderConfigJSON(s wrangle.State) (string, error) {
	by, err := json.MarshalIndent(newConfigDocument(s), "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to encode config: %w", err)
	}
	return string(by), nil
}

// renderConfigJQ runs a jq query against the JSON document. String results are written raw, one per line.
func renderConfigJQ(s wrangle.State, expression string) (string, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return "", fmt.Errorf("invalid jq expression %q: %w", expression, err)
	}

	by, err := json.Marshal(newConfigDocument(s))
	if err != nil {
		return "", fmt.Errorf("unable to encode config: %w", err)
	}

	// gojq only accepts the types produced by encoding/json
	var input any
	if err := json.Unmarshal(by, &input); err != nil {
		return "", err
	}

	var lines []string
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return "", fmt.Errorf("jq query failed: %w", err)
		}

		switch vv := v.(type) {
		case string:
			lines = append(lines, vv)
		default:
			out, err := json.MarshalIndent(vv, "", "  ")
			if err != nil {
				return "", err
			}
			lines = append(lines, string(out))
		}
	}

	return strings.Join(lines, "\n"), nil
}
