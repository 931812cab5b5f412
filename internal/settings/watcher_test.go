package settings

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks/sitepilot/internal/events"
)

func TestWatcherReloadsOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("seed", "1"))

	bus := events.NewBus(10)
	defer bus.Close()
	reloaded := make(chan events.Event, 10)
	bus.Subscribe(events.EventSettingsReloaded, func(e events.Event) { reloaded <- e })

	watcher, err := NewWatcher(store, bus, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer watcher.Close()

	content := `settings:
  theme: dark
  log_level: info
values: {}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	select {
	case e := <-reloaded:
		assert.Equal(t, filepath.Clean(path), e.Data["path"])
	case <-time.After(3 * time.Second):
		t.Fatal("settings reload never announced")
	}
	assert.Equal(t, "dark", store.Settings().Theme)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("seed", "1"))

	bus := events.NewBus(10)
	defer bus.Close()
	reloaded := make(chan events.Event, 10)
	bus.Subscribe(events.EventSettingsReloaded, func(e events.Event) { reloaded <- e })

	watcher, err := NewWatcher(store, bus, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("reload announced for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
