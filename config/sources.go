package config

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/anchore/wrangle/internal/log"
)

// FileName is the override file probed for in every source directory.
const FileName = "wrangle.yaml"

// Source is a place a layer may be loaded from: either a directory probed for FileName, or an explicit
// file given on the command line.
type Source struct {
	Dir  string
	File string
}

// Explicit sources must exist; directory sources without an override file are skipped.
func (s Source) Explicit() bool {
	return s.File != ""
}

// Path is the file the source is loaded from.
func (s Source) Path() (string, error) {
	if s.Explicit() {
		return filepath.Abs(s.File)
	}
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", err
	}
	// symlinked override files (e.g. into a dotfiles checkout) are followed when read
	return filepath.Join(dir, FileName), nil
}

func (s Source) String() string {
	if s.Explicit() {
		return s.File
	}
	return filepath.Join(s.Dir, FileName)
}

func (s Source) key() string {
	p, err := filepath.Abs(s.String())
	if err != nil {
		return filepath.Clean(s.String())
	}
	return p
}

// Sources lists the layer sources from lowest to highest precedence: the home directory (when known),
// then the project directories from the outermost ancestor down to the project root. An explicit file is
// placed right before the project root so that the root's own override file still wins. When the same
// file would be probed more than once only its highest precedence position is kept.
func Sources(home string, projectDirs []string, file string) []Source {
	var srcs []Source
	if home != "" {
		srcs = append(srcs, Source{Dir: home})
	}
	for i, dir := range projectDirs {
		if file != "" && i == len(projectDirs)-1 {
			srcs = append(srcs, Source{File: file})
		}
		srcs = append(srcs, Source{Dir: dir})
	}
	if file != "" && len(projectDirs) == 0 {
		srcs = append(srcs, Source{File: file})
	}

	return dedupe(srcs)
}

func dedupe(srcs []Source) []Source {
	last := make(map[string]int, len(srcs))
	for i, src := range srcs {
		last[src.key()] = i
	}

	var out []Source
	for i, src := range srcs {
		if last[src.key()] != i {
			log.WithFields("source", src.String()).Trace("source listed more than once, keeping highest precedence")
			continue
		}
		out = append(out, src)
	}
	return out
}

// HomeDir returns the user's home directory, or "" when it can not be determined.
func HomeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		log.WithFields("error", fmt.Sprintf("%v", err)).Trace("no home directory, skipping user config layer")
		return ""
	}
	return home
}
