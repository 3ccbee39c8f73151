package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/containerd/errdefs"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when WatchConfig.Debounce is zero.
const DefaultDebounce = 250 * time.Millisecond

// ErrInvalidPattern is returned for a watch pattern doublestar cannot parse.
var ErrInvalidPattern = errdefs.ErrInvalidArgument.WithMessage("invalid watch pattern")

// Handler runs one pass for the document at path.
type Handler func(ctx context.Context, path string) error

// WatchConfig configures a WatchWorker.
type WatchConfig struct {
	// Path is the board document to watch.
	Path string
	// Pattern selects the files, relative to the document's directory, whose
	// changes trigger a pass. Defaults to the document's base name.
	Pattern string
	// Debounce is the quiet period after the last event before a pass runs.
	Debounce time.Duration

	Logger       *slog.Logger
	ErrorHandler func(error)
	// Events, when set, receives one PassEvent after every pass.
	Events chan<- PassEvent
}

// PassEvent reports the outcome of one pass.
type PassEvent struct {
	Path string
	Pass int
	At   time.Time
	Err  error
}

func (e PassEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("pass %d on %s failed: %v", e.Pass, e.Path, e.Err)
	}
	return fmt.Sprintf("pass %d on %s done", e.Pass, e.Path)
}

// WatchWorker watches the directory of a board document and runs the handler
// once per settled burst of changes. Passes never overlap: the handler runs on
// the event loop itself.
type WatchWorker struct {
	*worker.BaseWorker
	config  WatchConfig
	dir     string
	handler Handler
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu       sync.Mutex
	active   bool
	passes   int
	failures int
	lastPass *time.Time
}

// NewWatchWorker validates cfg and returns a worker ready to be started.
func NewWatchWorker(cfg WatchConfig, handler Handler) (*WatchWorker, error) {
	if cfg.Path == "" {
		return nil, errdefs.ErrInvalidArgument.WithMessage("watch path cannot be empty")
	}
	if handler == nil {
		return nil, errdefs.ErrInvalidArgument.WithMessage("watch handler cannot be nil")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Path, err)
	}
	cfg.Path = abs
	if cfg.Pattern == "" {
		cfg.Pattern = filepath.Base(abs)
	}
	if !doublestar.ValidatePattern(cfg.Pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, cfg.Pattern)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &WatchWorker{
		BaseWorker: worker.NewBaseWorker("board-watcher"),
		config:     cfg,
		dir:        filepath.Dir(abs),
		handler:    handler,
	}, nil
}

func (w *WatchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.setActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *WatchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *WatchWorker) State() worker.State {
	w.mu.Lock()
	passes, failures, lastPass := w.passes, w.failures, w.lastPass
	w.mu.Unlock()

	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.config.Path,
			"pattern":           w.config.Pattern,
			"passes":            strconv.Itoa(passes),
			"failures":          strconv.Itoa(failures),
		}
		if lastPass != nil {
			s.Metadata["last_pass"] = lastPass.Format(time.RFC3339)
		}
	})
}

// Active reports whether the event loop is running.
func (w *WatchWorker) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Passes returns how many passes ran, failed ones included.
func (w *WatchWorker) Passes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passes
}

func (w *WatchWorker) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// matches reports whether event should schedule a pass.
func (w *WatchWorker) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isTempFile(event.Name) {
		return false
	}
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return false
	}
	ok, err := doublestar.PathMatch(w.config.Pattern, rel)
	return err == nil && ok
}

func (w *WatchWorker) runPass(ctx context.Context) {
	w.config.Logger.Debug("board document changed, running pass", "path", w.config.Path)

	err := w.handler(ctx, w.config.Path)

	now := time.Now()
	w.mu.Lock()
	w.passes++
	w.lastPass = &now
	if err != nil {
		w.failures++
	}
	pass := w.passes
	w.mu.Unlock()

	if w.config.Events != nil {
		select {
		case w.config.Events <- PassEvent{Path: w.config.Path, Pass: pass, At: now, Err: err}:
		case <-ctx.Done():
		}
	}

	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	w.config.Logger.Error("pass failed", "path", w.config.Path, "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}

func (w *WatchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.setActive(false)
	defer w.watcher.Close()

	deb := newDebouncer(w.config.Debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			if w.matches(event) {
				deb.touch()
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.config.Logger.Error("fsnotify error", "error", wErr)
			if w.config.ErrorHandler != nil {
				w.config.ErrorHandler(wErr)
			}

		case <-deb.fired():
			w.runPass(ctx)
		}
	}
}
