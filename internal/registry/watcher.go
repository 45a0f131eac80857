package registry

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads a manifest whenever it changes on disk.
// It watches the parent directory because editors often replace files
// via rename, which drops a watch placed on the file itself.
type Watcher struct {
	path     string
	onReload func(*Registry)
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	debounce time.Duration
}

// NewWatcher creates a watcher for the manifest at path.
func NewWatcher(path string, onReload func(*Registry)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     filepath.Clean(path),
		onReload: onReload,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Start begins watching. Calling Start twice is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true

	go w.loop()
	return nil
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", w.path).Msg("Manifest watcher error")
		}
	}
}

// reload parses the manifest; on failure the previous registry stays live.
func (w *Watcher) reload() {
	reg, err := LoadManifest(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("Manifest reload failed, keeping previous commands")
		return
	}
	log.Info().Str("path", w.path).Int("commands", reg.Len()).Msg("Manifest reloaded")
	w.onReload(reg)
}
