package shader

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports shader overrides that changed on disk. Changes collect in
// a set until the render loop drains them with Poll.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching the library's override directory.
func (l *Library) Watch() (*Watcher, error) {
	if l.dir == "" {
		return nil, fmt.Errorf("no shader directory to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(l.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	w := &Watcher{
		fsw:     fsw,
		logger:  l.logger,
		pending: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	l.logger.Info("watching shader overrides", zap.String("dir", l.dir))
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, known := builtins[name]; !known {
				continue
			}
			w.mu.Lock()
			w.pending[name] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Poll returns the sorted names changed since the last call without blocking.
func (w *Watcher) Poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(w.pending))
	for name := range w.pending {
		names = append(names, name)
	}
	clear(w.pending)
	sort.Strings(names)
	return names
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
