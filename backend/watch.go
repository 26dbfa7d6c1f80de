package backend

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a single file. It watches the containing directory
// so that files replaced by rename (as most editors and atomic writers do) are
// still noticed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. The file itself need not exist yet.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed watching %q: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, watcher: watcher}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Changes emits a value each time the file is written or replaced. Bursts of
// events are coalesced: at most one change is pending at a time. The channel is
// closed when ctx is done or the watcher is closed.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("file watcher error: %v", err)
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Snapshot is the result of one attempt to load a data file.
type Snapshot struct {
	Path   string
	Data   *Dataset
	Err    error
	Loaded time.Time
}

// Source loads a data file and reloads it whenever it changes on disk.
type Source struct {
	path string
	// settle is how long to wait after a change notification before reading,
	// so that a writer in progress can finish.
	settle time.Duration
}

// NewSource returns a source for the data file at path.
func NewSource(path string) *Source {
	return &Source{path: path, settle: 50 * time.Millisecond}
}

// Path returns the data file path as given to NewSource.
func (s *Source) Path() string {
	return s.path
}

func (s *Source) load() Snapshot {
	ds, err := Load(s.path)
	return Snapshot{Path: s.path, Data: ds, Err: err, Loaded: time.Now()}
}

// Stream emits the current contents of the data file immediately, then a new
// snapshot after every change. If the file cannot be watched, the initial
// snapshot is the only one emitted.
func (s *Source) Stream(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		// Watch before the first load so that no write goes unnoticed.
		watcher, err := NewWatcher(s.path)
		if err != nil {
			log.Printf("not reloading %q: %v", s.path, err)
			out <- s.load()
			return
		}
		defer watcher.Close()
		changes := watcher.Changes(ctx)
		out <- s.load()
		for range changes {
			select {
			case <-time.After(s.settle):
			case <-ctx.Done():
				return
			}
			select {
			case out <- s.load():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
