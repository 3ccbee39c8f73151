package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, cfg WatchConfig, handler Handler) *WatchWorker {
	t.Helper()

	w, err := NewWatchWorker(cfg, handler)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	waitForActive(t, w, true)

	t.Cleanup(func() {
		cancel()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	})
	return w
}

func TestWatchWorker_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))

	var calls atomic.Int32
	passes := make(chan string, 4)
	startWatcher(t, WatchConfig{Path: path, Debounce: 100 * time.Millisecond}, func(_ context.Context, p string) error {
		calls.Add(1)
		passes <- p
		return nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("- Todo\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case p := <-passes:
		assert.Equal(t, path, p)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for pass")
	}

	// Give a stray second pass the chance to show up.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchWorker_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")

	var calls atomic.Int32
	w := startWatcher(t, WatchConfig{Path: path, Debounce: 20 * time.Millisecond}, func(context.Context, string) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, writeStrayTempFile(dir))

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.Zero(t, w.Passes())
}

func TestWatchWorker_ReportsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")

	boom := errors.New("boom")
	reported := make(chan error, 1)
	w := startWatcher(t, WatchConfig{
		Path:         path,
		Debounce:     20 * time.Millisecond,
		ErrorHandler: func(err error) { reported <- err },
	}, func(context.Context, string) error { return boom })

	require.NoError(t, WriteFileAtomic(path, []byte("[]\n"), 0o644))

	select {
	case err := <-reported:
		assert.ErrorIs(t, err, boom)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for failure report")
	}
	assert.True(t, w.Active(), "a failed pass must not stop the watcher")
	assert.Equal(t, "1", w.State().Metadata["failures"])
}

func TestWatchWorker_PublishesPassEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")

	events := make(chan PassEvent, 1)
	w := startWatcher(t, WatchConfig{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		Events:   events,
	}, func(context.Context, string) error { return nil })

	require.NoError(t, WriteFileAtomic(path, []byte("[]\n"), 0o644))

	select {
	case e := <-events:
		assert.Equal(t, 1, e.Pass)
		assert.NoError(t, e.Err)
		assert.Equal(t, filepath.Base(path), filepath.Base(e.Path))
		assert.Contains(t, e.String(), "done")
		assert.Equal(t, e.Pass, w.Passes())
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for pass event")
	}
}

func TestWatchWorker_Matches(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatchWorker(WatchConfig{Path: filepath.Join(dir, "board.yaml"), Pattern: "boards/**/*.yaml"},
		func(context.Context, string) error { return nil })
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"nested match", fsnotify.Event{Name: filepath.Join(dir, "boards", "team", "a.yaml"), Op: fsnotify.Write}, true},
		{"created", fsnotify.Event{Name: filepath.Join(dir, "boards", "b.yaml"), Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "boards", "b.yaml"), Op: fsnotify.Chmod}, false},
		{"removed", fsnotify.Event{Name: filepath.Join(dir, "boards", "b.yaml"), Op: fsnotify.Remove}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "boards", "b.json"), Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Join(dir, "boards", TempFilePrefix+"1.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.matches(tt.event))
		})
	}
}

func TestNewWatchWorker_Validation(t *testing.T) {
	noop := func(context.Context, string) error { return nil }

	_, err := NewWatchWorker(WatchConfig{}, noop)
	assert.True(t, errdefs.IsInvalidArgument(err))

	_, err = NewWatchWorker(WatchConfig{Path: "board.yaml"}, nil)
	assert.True(t, errdefs.IsInvalidArgument(err))

	_, err = NewWatchWorker(WatchConfig{Path: "board.yaml", Pattern: "[unclosed"}, noop)
	assert.ErrorIs(t, err, ErrInvalidPattern)

	w, err := NewWatchWorker(WatchConfig{Path: "board.yaml"}, noop)
	require.NoError(t, err)
	assert.Equal(t, "board.yaml", w.config.Pattern)
	assert.Equal(t, DefaultDebounce, w.config.Debounce)
	assert.True(t, filepath.IsAbs(w.config.Path))
}

// writeStrayTempFile leaves a temp file behind, like an interrupted write.
func writeStrayTempFile(dir string) error {
	f, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return err
	}
	if _, err := f.WriteString("partial"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
