package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anchore/wrangle/config"
	"github.com/anchore/wrangle/internal/log"
)

// Template is written verbatim by Write. Every line is commented out, so the file evaluates to an empty
// layer until it is edited.
const Template = `# wrangle project overrides
#
# Files named wrangle.yaml are folded in order: built-in defaults, ~/wrangle.yaml, then every
# directory from the workspace root down to this project. Later files win, key by key.
#
# parallel: true      # run independent tools concurrently
# exitStatus: true    # exit non-zero when a tool fails
# skipped: false      # report tools that were skipped
#
# tools:
#   formatter: false              # disable a tool
#   vet: go vet -tags e2e ./...   # replace the command
#   lint:                         # change only the keys given
#     order: 5
#     requireFiles: [.golangci.yaml]
#   test:
#     command: [go, test, -race, ./...]
#     deps: [vet]
#     env:
#       CGO_ENABLED: "1"
`

// Result describes the outcome of Write.
type Result struct {
	Path    string
	Created bool
}

func (r Result) String() string {
	if r.Created {
		return fmt.Sprintf("created %s", r.Path)
	}
	return fmt.Sprintf("%s already exists, skipped", r.Path)
}

// Write creates the override file at the root of the project with the template contents. An existing file
// is never touched.
func Write(root string) (Result, error) {
	path, err := filepath.Abs(filepath.Join(root, config.FileName))
	if err != nil {
		return Result{}, err
	}
	res := Result{Path: path}

	if _, err := os.Stat(path); err == nil {
		log.WithFields("path", path).Debug("override file already exists")
		return res, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("unable to check %q: %w", path, err)
	}

	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return res, nil
		}
		return res, fmt.Errorf("unable to create %q: %w", path, err)
	}
	defer fh.Close()

	if _, err := fh.WriteString(Template); err != nil {
		return res, fmt.Errorf("unable to write %q: %w", path, err)
	}

	log.WithFields("path", path).Info("created override file")
	res.Created = true
	return res, nil
}
