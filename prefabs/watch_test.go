package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextEvent waits up to timeout for one reported path.
func nextEvent(t *testing.T, w *Watcher, timeout time.Duration) (string, bool) {
	t.Helper()
	select {
	case p, ok := <-w.Events:
		return p, ok
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcherReportsLastWriteOfBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "level.yaml")
	for _, body := range []string{"name: one", "", "name: three"} {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		time.Sleep(w.debounce / 5)
	}

	got, ok := nextEvent(t, w, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, path, got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "name: three", string(data))

	_, ok = nextEvent(t, w, 3*w.debounce)
	assert.False(t, ok, "a burst is reported once")
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherFor([]string{".tengo"}, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hover.tengo"), []byte("x"), 0o644))

	got, ok := nextEvent(t, w, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, "hover.tengo", filepath.Base(got))
	_, ok = nextEvent(t, w, 3*w.debounce)
	assert.False(t, ok)
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := nextEvent(t, w, 2*time.Second)
	assert.False(t, ok, "events channel closes")
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDrainDeduplicates(t *testing.T) {
	w := &Watcher{Events: make(chan string, 4)}
	w.Events <- "a.yaml"
	w.Events <- "b.tengo"
	w.Events <- "a.yaml"

	assert.Equal(t, []string{"a.yaml", "b.tengo"}, w.Drain())
	assert.Empty(t, w.Drain())

	close(w.Events)
	assert.Empty(t, w.Drain())
}

func TestSettled(t *testing.T) {
	now := time.Unix(100, 0)
	due := map[string]time.Time{
		"late.yaml":  now.Add(40 * time.Millisecond),
		"b.yaml":     now.Add(-10 * time.Millisecond),
		"a.yaml":     now.Add(-10 * time.Millisecond),
		"first.wav":  now.Add(-50 * time.Millisecond),
		"soon.tengo": now.Add(15 * time.Millisecond),
	}
	ready, wait := settled(due, now)
	assert.Equal(t, []string{"first.wav", "a.yaml", "b.yaml"}, ready)
	assert.Equal(t, 15*time.Millisecond, wait)

	ready, wait = settled(map[string]time.Time{}, now)
	assert.Empty(t, ready)
	assert.Zero(t, wait)
}

func TestFileKinds(t *testing.T) {
	w := &Watcher{exts: map[string]bool{".yaml": true, ".wav": true}}
	cases := []struct {
		path   string
		wants  bool
		spec   bool
		script bool
	}{
		{path: "levels/demo.yaml", wants: true, spec: true},
		{path: "levels/DEMO.YAML", wants: true, spec: true},
		{path: "prefabs/ball.yml", spec: true},
		{path: "prefabs/scripts/hover.tengo", script: true},
		{path: "assets/Hollow_Bass.wav", wants: true},
		{path: "README"},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			assert.Equal(t, c.wants, w.Wants(c.path))
			assert.Equal(t, c.spec, IsSpecFile(c.path))
			assert.Equal(t, c.script, IsScriptFile(c.path))
		})
	}
}
