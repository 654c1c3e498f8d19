package domains

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog when files in its directory change.
type Watcher struct {
	catalog  *Catalog
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(error)

	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook is called after every reload attempt with its result.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for the catalog's directory.
func NewWatcher(c *Catalog, opts ...WatcherOption) (*Watcher, error) {
	if c.Dir() == "" {
		return nil, errors.New("catalog has no domain directory to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(c.Dir()); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		catalog:  c,
		watcher:  fw,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.Component("watcher")).
				Add(logging.ErrorField(err)).
				Msg("watch error")

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	err := w.catalog.Reload()
	if err != nil {
		// The previous libraries stay active.
		logging.Error().
			Add(logging.Component("watcher")).
			Add(logging.Path(w.catalog.Dir())).
			Add(logging.ErrorField(err)).
			Msg("domain reload failed")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func relevant(event fsnotify.Event) bool {
	if _, ok := FormatFromPath(event.Name); !ok {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
