// Package watch reruns work when input files change on disk.
//
// The watcher observes the parent directory of each file rather than the
// file itself, so editors that save by writing a temporary file and
// renaming it over the original keep triggering events. Bursts of events
// are debounced into a single callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNoFiles       = errors.New("no files to watch")
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created, including by rename.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed away.
	OpRename
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
}

// String returns a human-readable representation of the operation.
// Combined operations are joined with "|", e.g. "CREATE|WRITE".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 || op&^(OpCreate|OpWrite|OpRemove|OpRename) != 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a settled change to one watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op holds every operation seen during the debounce window.
	Op Op

	// Timestamp is when the last operation was seen.
	Timestamp time.Time
}

// Func is called with the events of each settled change, sorted by path.
type Func func(ctx context.Context, events []Event) error

// ErrorHandler receives watcher errors and errors returned by a Func.
type ErrorHandler func(err error)

// Config holds watcher configuration options.
type Config struct {
	// Debounce is the quiet period after the last event before the
	// callback runs. Default: 100ms
	Debounce time.Duration

	// OnError handles errors. Default: discard.
	OnError ErrorHandler
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Config) {
		c.OnError = h
	}
}

// Watcher watches a fixed set of files.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	config Config
	files  map[string]bool
	closed bool
}

// New creates a watcher for the given files. The files need not exist
// yet, but their directories must.
func New(files []string, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	config := Config{Debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		config: config,
		files:  make(map[string]bool, len(files)),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return w, nil
}

// Files returns the absolute paths being watched, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Run blocks until ctx is done, calling fn after each settled change.
// Errors returned by fn go to the error handler and do not stop the loop.
// Run returns ctx.Err() when the context ends.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	deb := newDebouncer(w.config.Debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if event, keep := w.convert(fsEvent); keep {
				deb.add(event)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.handleError(err)

		case <-deb.ready():
			if err := fn(ctx, deb.flush()); err != nil {
				w.handleError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

// convert filters an fsnotify event down to the watched files.
// Chmod-only events are dropped.
func (w *Watcher) convert(fsEvent fsnotify.Event) (Event, bool) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return Event{}, false
	}

	path, err := filepath.Abs(fsEvent.Name)
	if err != nil || !w.files[path] {
		return Event{}, false
	}

	return Event{Path: path, Op: op, Timestamp: time.Now()}, true
}

// convertOp converts fsnotify.Op to watch.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

func (w *Watcher) handleError(err error) {
	if w.config.OnError != nil {
		w.config.OnError(err)
	}
}
