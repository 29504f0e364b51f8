package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/hierarchy"
)

// debounceWindow is how long the watcher waits after the last change
// notification before reloading. Editors and bulk writers fire many
// events per save; one reload per quiet period is enough.
const debounceWindow = 500 * time.Millisecond

// Watcher re-applies a configuration file whenever it changes. Close
// stops watching; the hierarchy keeps its last applied configuration.
type Watcher struct {
	h    *hierarchy.Hierarchy
	path string
	reg  *Registry

	fsw       *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// ConfigureAndWatch applies the configuration file synchronously, then
// watches it and re-applies on every change, coalescing bursts of
// change notifications into a single reload. A file that fails to load
// initially is reported and watched anyway, so fixing it triggers the
// first successful configuration. The returned Watcher must be closed
// to release the underlying file-system watch.
func ConfigureAndWatch(h *hierarchy.Hierarchy, path string, reg *Registry) (*Watcher, error) {
	return configureAndWatch(h, path, reg, debounceWindow)
}

func configureAndWatch(h *hierarchy.Hierarchy, path string, reg *Registry, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which would silently drop a file-level watch.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		h:    h,
		path: abs,
		reg:  reg,
		fsw:  fsw,
		done: make(chan struct{}),
	}
	w.reload()

	w.wg.Add(1)
	go w.run(debounce)
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run(debounce time.Duration) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			core.DiagErrorf("watching %s: %v", w.path, err)
		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		case <-w.done:
			return
		}
	}
}

// reload loads and applies the file. Load failures keep the previous
// configuration and are reported to the diagnostic log.
func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		core.DiagErrorf("loading %s: %v", w.path, err)
		return
	}
	Apply(w.h, cfg, w.reg)
}
