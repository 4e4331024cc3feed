package config

import (
	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/internal/log"
)

// FlagsOrigin is the origin of the pseudo-layer built from command line option toggles.
const FlagsOrigin = "flags"

// Request describes where the layers of a single invocation come from.
type Request struct {
	// Home is the user's home directory; empty means there is no user layer.
	Home string
	// ProjectDirs are the directories along the project hierarchy, outermost first, project root last.
	ProjectDirs []string
	// File is an optional explicit override file.
	File string
	// Overrides are option toggles given on the command line, applied last.
	Overrides wrangle.LayerOptions
	// Defaults replaces the curated defaults when set.
	Defaults *wrangle.State
}

// Load folds every discovered layer, in precedence order, onto the defaults. Any error aborts the load
// and no partial state is returned.
func Load(req Request) (wrangle.State, error) {
	state := wrangle.DefaultState()
	if req.Defaults != nil {
		state = *req.Defaults
	}

	for _, src := range Sources(req.Home, req.ProjectDirs, req.File) {
		layer, err := LoadLayer(src)
		if err != nil {
			return wrangle.State{}, err
		}
		if layer == nil {
			continue
		}

		state = wrangle.Fold(state, *layer)

		log.WithFields("origin", layer.Origin, "tools", len(layer.Tools)).Debug("applied config layer")
	}

	if !req.Overrides.IsEmpty() {
		state = wrangle.Fold(state, wrangle.Layer{Origin: FlagsOrigin, Options: req.Overrides})
	}

	return state, nil
}
