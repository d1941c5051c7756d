package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

// DefaultDebounce coalesces bursts of editor writes into one lint run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-runs a callback when files in the watched content directories
// change.
type Watcher struct {
	dirs       []string
	extensions []string
	watcher    *fsnotify.Watcher
	debounce   time.Duration
	onChange   func(ctx context.Context)

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	trigger  chan struct{}
}

// NewWatcher creates a watcher over dirs. Missing directories are skipped
// when the watch starts.
func NewWatcher(dirs, extensions []string, debounce time.Duration, onChange func(ctx context.Context)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if len(extensions) == 0 {
		extensions = source.DefaultExtensions
	}
	return &Watcher{
		dirs:       dirs,
		extensions: extensions,
		watcher:    fw,
		debounce:   debounce,
		onChange:   onChange,
		stopChan:   make(chan struct{}),
		trigger:    make(chan struct{}, 1),
	}, nil
}

// Start begins watching. It returns an error if no directory could be watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	watched := 0
	for _, dir := range w.dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve content directory: %w", err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			slog.Warn("Skipping missing content directory", logfields.Directory(abs))
			continue
		}
		if err := w.watcher.Add(abs); err != nil {
			return fmt.Errorf("failed to watch content directory %s: %w", abs, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no content directories to watch")
	}

	slog.Info("Watching content directories", logfields.Count(watched))
	go w.watchLoop(ctx)
	go w.runLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !source.HasExtension(event.Name, w.extensions) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("Content change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.signal()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopChan:
			stop()
			return
		case <-w.trigger:
			stop()
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}
