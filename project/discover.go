package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/anchore/wrangle/config"
	"github.com/anchore/wrangle/internal/log"
)

const maxAncestorSearch = 50

// markers identify the root of a single project (module).
var markers = []string{
	config.FileName,
	"go.mod",
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
}

// workspaceMarkers identify a workspace enclosing several projects.
var workspaceMarkers = []string{
	"go.work",
	"pnpm-workspace.yaml",
}

// Discover returns the directories whose override files apply to start, outermost first and the
// project root last. The project root is the nearest ancestor of start holding a project marker. The
// outer boundary is the enclosing git worktree, or else the nearest workspace marker above the root.
// Every directory between the boundary and the root is included.
func Discover(start string) ([]string, error) {
	start, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}

	root := findUp(start, markers)
	if root == "" {
		root = start
	}

	boundary := gitRoot(start)
	if boundary == "" || !isAncestor(boundary, root) {
		boundary = findUp(filepath.Dir(root), workspaceMarkers)
	}

	dirs := []string{root}
	if boundary != "" && boundary != root && isAncestor(boundary, root) {
		for dir := filepath.Dir(root); ; dir = filepath.Dir(dir) {
			dirs = append([]string{dir}, dirs...)
			if dir == boundary || dir == filepath.Dir(dir) {
				break
			}
		}
	}

	log.WithFields("root", root, "boundary", boundary).Trace("discovered project directories")

	return dirs, nil
}

// Root returns the project root for start (the last directory from Discover).
func Root(start string) (string, error) {
	dirs, err := Discover(start)
	if err != nil {
		return "", err
	}
	return dirs[len(dirs)-1], nil
}

func findUp(dir string, names []string) string {
	for i := 0; i < maxAncestorSearch; i++ {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func gitRoot(start string) string {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			log.WithFields("path", start, "error", err).Trace("unable to open git repository")
		}
		return ""
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repository
		return ""
	}

	return wt.Filesystem.Root()
}

// isAncestor reports whether dir is an ancestor of (or equal to) path.
func isAncestor(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
