package command

import (
	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle/internal/log"
)

func Root(app clio.Application) *cobra.Command {
	cmd := app.SetupRootCommand(&cobra.Command{
		Short: "Resolve layered tool configuration for a project",
	})

	// wrap any existing PersistentPreRunE to inject dependencies into context
	existingPreRunE := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// inject the global logger into the context
		cmd.SetContext(log.WithLogger(cmd.Context(), log.Get()))

		if existingPreRunE != nil {
			return existingPreRunE(cmd, args)
		}
		return nil
	}

	return cmd
}
