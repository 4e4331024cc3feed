package command

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/cmd/wrangle/cli/option"
	"github.com/anchore/wrangle/internal/bus"
	"github.com/anchore/wrangle/selection"
)

type PlanConfig struct {
	option.Resolve   `json:"" yaml:",inline" mapstructure:",squash"`
	option.Selection `json:"" yaml:",inline" mapstructure:",squash"`
}

func Plan(app clio.Application) *cobra.Command {
	cfg := &PlanConfig{
		Resolve: option.DefaultResolve(),
	}

	var recording *selection.Recording

	cmd := app.SetupCommand(&cobra.Command{
		Use:   "plan",
		Short: "Show the tools that would run and the options they would run with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), *cfg, cmd.Flags(), recording.Flags())
		},
	}, cfg)

	// selectors are kept in command line order
	recording = selection.Record(cmd.Flags())

	return cmd
}

func runPlan(ctx context.Context, cfg PlanConfig, flags *pflag.FlagSet, given []selection.Flag) error {
	res, err := resolve(ctx, cfg.Resolve, flags.Changed)
	if err != nil {
		return err
	}

	selected, err := selection.Apply(res.State.Tools, selection.Translate(given))
	if err != nil {
		return err
	}

	out, err := renderPlan(res.Root, res.State.Options, selected)
	if err != nil {
		return err
	}

	bus.Report(out)
	return nil
}

// renderPlan shows the selected tools the way the runner will start them: the argv each one executes and
// its working directory relative to the project root.
func renderPlan(root string, opts wrangle.Options, specs []wrangle.ToolSpec) (string, error) {
	header := fmt.Sprintf("parallel: %t  exitStatus: %t  skipped: %t", opts.Parallel, opts.ExitStatus, opts.Skipped)
	if len(specs) == 0 {
		return header + "\nno tools selected", nil
	}

	// the runner starts tools by ascending order, ties keep registry order
	specs = append([]wrangle.ToolSpec(nil), specs...)
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Value.Options.GetOrder() < specs[j].Value.Options.GetOrder()
	})

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendHeader(table.Row{"Order", "Name", "Command", "Dir", "Deps"})

	for _, spec := range specs {
		o := spec.Value.Options

		var command string
		if o.Command != nil {
			args, err := o.Command.Args()
			if err != nil {
				return "", fmt.Errorf("tool %q: %w", spec.Name, err)
			}
			command = quoteArgs(args)
		}

		wd, err := o.WorkDir(root)
		if err != nil {
			return "", fmt.Errorf("tool %q: %w", spec.Name, err)
		}
		dir, err := filepath.Rel(root, wd)
		if err != nil {
			return "", fmt.Errorf("tool %q: %w", spec.Name, err)
		}

		deps := make([]string, 0, len(o.Deps))
		for _, d := range o.Deps {
			deps = append(deps, string(d))
		}

		t.AppendRow(table.Row{o.GetOrder(), spec.Name, command, dir, strings.Join(deps, ", ")})
	}

	return header + "\n\n" + t.Render(), nil
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\") {
			arg = strconv.Quote(arg)
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
