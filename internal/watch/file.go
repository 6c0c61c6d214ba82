// Package watch notifies callers when a file on disk changes.
package watch

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// FileWatcher watches a single file and calls onChange after it is
// written, created or replaced.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   *slog.Logger

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	done     chan struct{}
	running  bool
	stopped  bool
}

// NewFileWatcher creates a watcher for path. It does not start watching.
func NewFileWatcher(path string, onChange func(), logger *slog.Logger) (*FileWatcher, error) {
	if path == "" {
		return nil, errors.New("watch path is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce sets the quiet period before onChange fires.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.debounce = d
}

// Path returns the watched file path.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Start begins watching. The file itself need not exist yet, but its
// directory must. A failed Start releases the underlying watcher.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return errors.New("file watcher stopped")
	}
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	// Watch the directory containing the file (more reliable for atomic saves)
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		_ = fw.watcher.Close()
		return err
	}

	go fw.loop()
	fw.logger.Debug("file watcher started", "path", fw.path)
	return nil
}

func (fw *FileWatcher) loop() {
	filename := filepath.Base(fw.path)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fw.schedule()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "path", fw.path, "error", err)

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) schedule() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, fw.fire)
}

func (fw *FileWatcher) fire() {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if !running || fw.onChange == nil {
		return
	}
	fw.logger.Debug("file changed", "path", fw.path)
	fw.onChange()
}

// Stop stops the watcher. It is safe to call more than once; a stopped
// watcher cannot be restarted.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}
	fw.stopped = true
	if fw.running {
		fw.running = false
		if fw.timer != nil {
			fw.timer.Stop()
		}
		close(fw.done)
	}
	return fw.watcher.Close()
}
