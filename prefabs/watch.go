package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultExtensions are the file types a Watcher reports when none are given.
var DefaultExtensions = []string{".yaml", ".yml", ".tengo", ".wav", ".obj", ".mat", ".glsl", ".png"}

// Watcher reports edited files under a set of directories. A burst of
// events on one file is reported once, after the file has been quiet for the
// debounce window.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	exts     map[string]bool
	debounce time.Duration
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	return NewWatcherFor(DefaultExtensions, dirs...)
}

// NewWatcherFor watches dirs for files with one of exts.
func NewWatcherFor(exts []string, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		exts:     make(map[string]bool, len(exts)),
		debounce: 100 * time.Millisecond,
	}
	for _, ext := range exts {
		watcher.exts[strings.ToLower(ext)] = true
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns the paths reported since the last call without blocking.
func (w *Watcher) Drain() []string {
	var out []string
	seen := map[string]bool{}
	for {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return out
			}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		default:
			return out
		}
	}
}

// run reports a path once its events have been quiet for the debounce
// window, so the last write of a burst is the one observed.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)
	due := make(map[string]time.Time)
	var flush <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.Wants(event.Name) {
				continue
			}
			due[event.Name] = time.Now().Add(w.debounce)
			if flush == nil {
				flush = time.After(w.debounce)
			}
		case <-flush:
			flush = nil
			ready, wait := settled(due, time.Now())
			for _, path := range ready {
				delete(due, path)
				select {
				case w.Events <- path:
				case <-w.closeCh:
					return
				}
			}
			if len(due) > 0 {
				flush = time.After(wait)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// settled returns the paths whose deadline has passed, oldest first, and
// how long until the next pending one is due.
func settled(due map[string]time.Time, now time.Time) ([]string, time.Duration) {
	var ready []string
	var wait time.Duration
	for path, at := range due {
		if !at.After(now) {
			ready = append(ready, path)
			continue
		}
		if d := at.Sub(now); wait == 0 || d < wait {
			wait = d
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		if due[ready[i]].Equal(due[ready[j]]) {
			return ready[i] < ready[j]
		}
		return due[ready[i]].Before(due[ready[j]])
	})
	return ready, wait
}

// Wants reports whether path has a watched extension.
func (w *Watcher) Wants(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func IsSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
