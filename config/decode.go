package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/anchore/wrangle"
)

const toolsKey = "tools"

// Evaluate turns the contents of an override file into a layer. The format is chosen by the file
// extension: ".toml" files are TOML, everything else is YAML.
func Evaluate(origin string, contents []byte) (*wrangle.Layer, error) {
	switch strings.ToLower(filepath.Ext(origin)) {
	case ".toml":
		return evaluateTOML(origin, contents)
	default:
		return evaluateYAML(origin, contents)
	}
}

func evaluateYAML(origin string, contents []byte) (*wrangle.Layer, error) {
	layer := &wrangle.Layer{Origin: origin}

	var doc yaml.Node
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}

	if len(doc.Content) == 0 {
		// empty, or only comments
		return layer, nil
	}

	root := doc.Content[0]
	switch {
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		return layer, nil
	case root.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("line %d: expected a mapping at the top level", root.Line)
	}

	raw := make(map[string]any)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		if key.Value == toolsKey {
			entries, err := yamlToolEntries(value)
			if err != nil {
				return nil, errors.Wrap(err, toolsKey)
			}
			layer.Tools = entries
			continue
		}

		var v any
		if err := value.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d: key %q", key.Line, key.Value)
		}
		raw[key.Value] = v
	}

	opts, err := decodeOptions(raw)
	if err != nil {
		return nil, err
	}
	layer.Options = opts

	return layer, nil
}

// yamlToolEntries reads the tools either as a mapping (name: value, in document order) or as a sequence
// of tuples.
func yamlToolEntries(node *yaml.Node) ([]wrangle.ToolEntry, error) {
	switch node.Kind {
	case yaml.MappingNode:
		var entries []wrangle.ToolEntry
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]

			var raw any
			if err := value.Decode(&raw); err != nil {
				return nil, errors.Wrapf(err, "line %d: tool %q", key.Line, key.Value)
			}
			v, err := decodeToolValue(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: tool %q", key.Line, key.Value)
			}
			entries = append(entries, wrangle.ToolEntry{Name: key.Value, Value: v})
		}
		return entries, nil
	case yaml.SequenceNode:
		var raw []any
		if err := node.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "line %d", node.Line)
		}
		return toolEntries(raw)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: expected a mapping or a list of tools", node.Line)
}

func evaluateTOML(origin string, contents []byte) (*wrangle.Layer, error) {
	var raw map[string]any
	if err := toml.Unmarshal(contents, &raw); err != nil {
		return nil, err
	}

	layer := &wrangle.Layer{Origin: origin}

	if tools, ok := raw[toolsKey]; ok {
		delete(raw, toolsKey)
		list, ok := tools.([]any)
		if !ok {
			// TOML tables carry no key order, and registry order matters
			return nil, fmt.Errorf("%s: expected an array of tools, got %T", toolsKey, tools)
		}
		entries, err := toolEntries(list)
		if err != nil {
			return nil, errors.Wrap(err, toolsKey)
		}
		layer.Tools = entries
	}

	opts, err := decodeOptions(raw)
	if err != nil {
		return nil, err
	}
	layer.Options = opts

	return layer, nil
}

// toolEntries decodes a list of tool tuples. Each item is either a [name, value] pair or a mapping with
// exactly one key.
func toolEntries(items []any) ([]wrangle.ToolEntry, error) {
	entries := make([]wrangle.ToolEntry, 0, len(items))
	for i, item := range items {
		name, raw, err := tuple(item)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		v, err := decodeToolValue(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "tool %q", name)
		}
		entries = append(entries, wrangle.ToolEntry{Name: name, Value: v})
	}
	return entries, nil
}

func tuple(item any) (string, any, error) {
	switch v := item.(type) {
	case []any:
		if len(v) == 2 {
			if name, ok := v[0].(string); ok {
				return name, v[1], nil
			}
		}
	case map[string]any:
		if len(v) == 1 {
			for name, value := range v {
				return name, value, nil
			}
		}
	}
	return "", nil, fmt.Errorf("expected a [name, value] pair or a single-key mapping, got %v", item)
}

func decodeToolValue(raw any) (wrangle.ToolValue, error) {
	switch v := raw.(type) {
	case bool:
		if !v {
			return wrangle.Disable(), nil
		}
		return wrangle.Enable(), nil
	case string:
		return wrangle.Run(v), nil
	case map[string]any:
		opts, err := decodeToolOptions(v)
		if err != nil {
			return wrangle.ToolValue{}, err
		}
		return wrangle.ToolValue{Options: opts}, nil
	}
	return wrangle.ToolValue{}, fmt.Errorf("expected a bool, a command string or an options mapping, got %T", raw)
}

func decodeToolOptions(raw map[string]any) (wrangle.ToolOptions, error) {
	var opts wrangle.ToolOptions
	if err := decode(raw, &opts); err != nil {
		return wrangle.ToolOptions{}, err
	}
	return opts, nil
}

func decodeOptions(raw map[string]any) (wrangle.LayerOptions, error) {
	var opts wrangle.LayerOptions
	if err := decode(raw, &opts); err != nil {
		return wrangle.LayerOptions{}, err
	}
	return opts, nil
}

// decode is strict about the types of recognized keys and ignores unknown keys.
func decode(raw map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(commandHook),
		Result:     result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

var commandType = reflect.TypeOf(wrangle.Command{})

func commandHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != commandType {
		return data, nil
	}

	switch v := data.(type) {
	case wrangle.Command:
		return v, nil
	case string:
		return wrangle.Command{Line: v}, nil
	case []string:
		return wrangle.Command{Argv: v}, nil
	case []any:
		argv := make([]string, len(v))
		for i, arg := range v {
			s, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("command arguments must be strings, got %T at position %d", arg, i)
			}
			argv[i] = s
		}
		return wrangle.Command{Argv: argv}, nil
	}
	return nil, fmt.Errorf("command must be a string or a list of strings, got %T", data)
}
