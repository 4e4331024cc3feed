package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/wrangle/config"
	"github.com/anchore/wrangle/event"
	"github.com/anchore/wrangle/internal/bus"
	"github.com/anchore/wrangle/scaffold"
)

type recordingPublisher struct {
	events []partybus.Event
}

func (p *recordingPublisher) Publish(e partybus.Event) {
	p.events = append(p.events, e)
}

func Test_runInit_writesAtTheProjectRoot(t *testing.T) {
	pub := &recordingPublisher{}
	bus.Set(pub)
	t.Cleanup(func() { bus.Set(nil) })

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/x\n"), 0o644))
	nested := filepath.Join(dir, "internal", "thing")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	require.NoError(t, runInit(nested))

	path := filepath.Join(dir, config.FileName)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scaffold.Template, string(contents))
	assert.NoFileExists(t, filepath.Join(nested, config.FileName))

	// a second run leaves the file alone and only notifies
	require.NoError(t, runInit(nested))

	require.Len(t, pub.events, 2)
	assert.Equal(t, event.CLIReport, pub.events[0].Type)
	assert.Equal(t, "created "+path, pub.events[0].Value)
	assert.Equal(t, event.CLINotification, pub.events[1].Type)
	assert.Equal(t, path+" already exists, skipped", pub.events[1].Value)
}
