package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle/internal/bus"
	"github.com/anchore/wrangle/project"
	"github.com/anchore/wrangle/scaffold"
)

func Init(app clio.Application) *cobra.Command {
	return app.SetupCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented override file at the root of the current project",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("unable to determine working directory: %w", err)
			}
			return runInit(wd)
		},
	})
}

func runInit(dir string) error {
	root, err := project.Root(dir)
	if err != nil {
		return fmt.Errorf("unable to discover project: %w", err)
	}

	res, err := scaffold.Write(root)
	if err != nil {
		return err
	}

	if !res.Created {
		// nothing was written, so there is no result to report
		bus.Notify(res.String())
		return nil
	}

	bus.Report(res.String())
	return nil
}
