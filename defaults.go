package wrangle

// DefaultsOrigin is the origin of the built-in layer.
const DefaultsOrigin = "defaults"

// DefaultState is the curated starting point every invocation folds its layers onto.
func DefaultState() State {
	return State{
		Options: DefaultOptions(),
		Tools:   NewRegistry(defaultTools()...),
		Sources: []string{DefaultsOrigin},
	}
}

func defaultTools() []ToolSpec {
	order := func(i int) *int { return &i }

	return []ToolSpec{
		{
			Name:   "formatter",
			Value:  Run("gofmt -l -d ."),
			Origin: DefaultsOrigin,
		},
		{
			Name:   "vet",
			Value:  Run("go vet ./..."),
			Origin: DefaultsOrigin,
		},
		{
			Name: "lint",
			Value: ToolValue{Options: ToolOptions{
				Command:      &Command{Line: "golangci-lint run"},
				RequireFiles: []string{".golangci.yaml"},
			}},
			Origin: DefaultsOrigin,
		},
		{
			Name: "test",
			Value: ToolValue{Options: ToolOptions{
				Command: &Command{Argv: []string{"go", "test", "./..."}},
				Order:   order(10),
				Deps:    []DependencyRef{"vet"},
			}},
			Origin: DefaultsOrigin,
		},
	}
}
