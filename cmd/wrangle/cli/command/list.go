package command

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/cmd/wrangle/cli/option"
	"github.com/anchore/wrangle/internal/bus"
)

type ListConfig struct {
	option.Resolve `json:"" yaml:",inline" mapstructure:",squash"`
}

func List(app clio.Application) *cobra.Command {
	cfg := &ListConfig{
		Resolve: option.DefaultResolve(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "list",
		Short: "List every configured tool and where it was last configured",
		Aliases: []string{
			"ls",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), *cfg, cmd.Flags())
		},
	}, cfg)
}

type toolStatus struct {
	Name    string
	Status  string
	Order   int
	Command string
	Origin  string
	// severity of the status: 0 = will run, 1 = switched off, 2 = disabled
	severity int
}

func runList(ctx context.Context, cfg ListConfig, flags *pflag.FlagSet) error {
	res, err := resolve(ctx, cfg.Resolve, flags.Changed)
	if err != nil {
		return err
	}

	bus.Report(renderListTable(getToolStatuses(res.State.Tools)))
	return nil
}

func getToolStatuses(reg wrangle.Registry) []toolStatus {
	var statuses []toolStatus
	for _, spec := range reg.Specs() {
		s := toolStatus{
			Name:    spec.Name,
			Status:  "enabled",
			Order:   spec.Value.Options.GetOrder(),
			Command: spec.Value.String(),
			Origin:  spec.Origin,
		}
		switch {
		case spec.Value.Disabled:
			s.Status = "disabled"
			s.Command = ""
			s.severity = 2
		case !spec.Value.Options.IsEnabled():
			s.Status = "off"
			s.severity = 1
		}
		statuses = append(statuses, s)
	}
	return statuses
}

func renderListTable(items []toolStatus) string {
	if len(items) == 0 {
		return "no tools configured"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendHeader(table.Row{"Name", "Status", "Order", "Command", "Origin"})

	// registry order is meaningful, so rows are not sorted
	for _, item := range items {
		style := toolStatusStyle(item.severity)
		t.AppendRow(table.Row{
			item.Name,
			style.Render(item.Status),
			item.Order,
			item.Command,
			item.Origin,
		})
	}

	return t.Render()
}

var (
	goodStatus      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // 10 = high intensity green (ANSI 16 bit color code)
	badStatus       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // 214 = orange1 (ANSI 16 bit color code)
	reallyBadStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // 9 = high intensity red (ANSI 16 bit color code)
)

func toolStatusStyle(severity int) lipgloss.Style {
	switch severity {
	case 0:
		return goodStatus
	case 1:
		return badStatus
	}

	return reallyBadStatus
}
