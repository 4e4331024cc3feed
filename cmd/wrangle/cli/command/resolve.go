package command

import (
	"context"
	"fmt"
	"os"

	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/cmd/wrangle/cli/option"
	"github.com/anchore/wrangle/config"
	"github.com/anchore/wrangle/internal/log"
	"github.com/anchore/wrangle/project"
)

type resolution struct {
	State wrangle.State
	// Root is the project root the override files were discovered from.
	Root string
}

// resolve discovers the project around the working directory and loads every override layer for it.
func resolve(ctx context.Context, opts option.Resolve, changed func(string) bool) (*resolution, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to determine working directory: %w", err)
	}
	_, lgr := log.WithNested(ctx, "dir", wd)

	dirs, err := project.Discover(wd)
	if err != nil {
		return nil, fmt.Errorf("unable to discover project: %w", err)
	}

	state, err := config.Load(config.Request{
		Home:        config.HomeDir(),
		ProjectDirs: dirs,
		File:        opts.File,
		Overrides:   opts.Overrides(changed),
	})
	if err != nil {
		return nil, err
	}

	lgr.WithFields("sources", len(state.Sources), "tools", state.Tools.Len(), "digest", state.Digest()).Debug("resolved configuration")

	return &resolution{
		State: state,
		Root:  dirs[len(dirs)-1],
	}, nil
}
