package cli

import (
	"github.com/anchore/clio"
	"github.com/anchore/go-logger"
	"github.com/anchore/wrangle/cmd/wrangle/cli/command"
	"github.com/anchore/wrangle/cmd/wrangle/cli/internal/ui"
	"github.com/anchore/wrangle/internal/bus"
	"github.com/anchore/wrangle/internal/log"
)

// New constructs the wrangle application: the root command with the plan, list, config, init and version
// subcommands. The override files are loaded by each command at run time,
// after the application configuration and flags have been parsed.
func New(id clio.Identification) clio.Application {
	clioCfg := clio.NewSetupConfig(id).
		WithGlobalLoggingFlags(). // add persistent -v and -q flags tied to the logging config
		WithConfigInRootHelp().   // --help on the root command renders the full application config in the help text
		WithUIConstructor(
			// results are always plain text: there is no interactive UI
			func(cfg clio.Config) ([]clio.UI, error) {
				return []clio.UI{ui.None(cfg.Log.Quiet)}, nil
			},
		).
		WithLoggingConfig(clio.LoggingConfig{
			Level: logger.ErrorLevel,
		}).
		WithInitializers(
			func(state *clio.State) error {
				// clio is setting up and providing the bus and logger to the application. Once loaded, we can
				// hoist them into the internal packages for global use.
				bus.Set(state.Bus)
				log.Set(state.Logger)

				return nil
			},
		)

	app := clio.New(*clioCfg)

	root := command.Root(app)

	root.AddCommand(
		clio.VersionCommand(id),
		command.Plan(app),
		command.List(app),
		command.ShowConfig(app),
		command.Init(app),
	)

	return app
}
