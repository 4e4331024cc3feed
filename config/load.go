package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/anchore/wrangle"
	"github.com/anchore/wrangle/internal/log"
)

// EvaluationError is returned when an override file exists but its content can not be turned into a
// layer. It aborts the whole load.
type EvaluationError struct {
	Path string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("unable to evaluate config %q: %v", e.Path, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// LoadLayer reads and evaluates the override file of a source. A directory source without an override
// file yields a nil layer and no error.
func LoadLayer(src Source) (*wrangle.Layer, error) {
	path, err := src.Path()
	if err != nil {
		return nil, fmt.Errorf("unable to resolve config path for %q: %w", src, err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !src.Explicit() {
			log.WithFields("path", path).Trace("no config layer")
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read config %q: %w", path, err)
	}

	layer, err := Evaluate(path, contents)
	if err != nil {
		return nil, &EvaluationError{Path: path, Err: err}
	}

	return layer, nil
}
