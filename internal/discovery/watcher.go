package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/codeaudit/internal/debug"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
	"github.com/standardbeagle/codeaudit/pkg/pathutil"
)

// Watcher reports batches of changed source and data files under a scanner's root
type Watcher struct {
	watcher   *fsnotify.Watcher
	scanner   *Scanner
	debouncer *eventDebouncer
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewWatcher creates a watcher. onChange receives the sorted relative paths that changed
// during a quiet period of length debounce.
func NewWatcher(scanner *Scanner, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:   watcher,
		scanner:   scanner,
		debouncer: newEventDebouncer(ctx, debounce, onChange),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start adds watches for every non-excluded directory and begins processing events.
// Directories that cannot be watched are reported in a *errors.MultiError after the
// remaining watches are in place; the watcher still runs in that case.
func (w *Watcher) Start() error {
	root := w.scanner.Root()
	debug.LogDiscovery("starting file watcher for directory: %s", root)

	addErr := w.addWatches(root)
	var multi *auditerrors.MultiError
	if addErr != nil && !errors.As(addErr, &multi) {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, addErr)
	}

	w.wg.Add(1)
	go w.processEvents()
	return addErr
}

// Stop closes the watcher and waits for the event loop. Pending events are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.cancel()
		w.debouncer.stop()
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) addWatches(root string) error {
	// Track visited directories to prevent infinite loops from symlink cycles
	visitedDirs := make(map[string]bool)

	var addErrs []error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}

		realPath, err := filepath.EvalSymlinks(path)
		if err != nil || visitedDirs[realPath] {
			return filepath.SkipDir
		}
		visitedDirs[realPath] = true

		if rel := pathutil.ToSlashRelative(path, w.scanner.Root()); rel != "." && w.scanner.ExcludedDir(rel) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			addErrs = append(addErrs, auditerrors.NewFileError("watch", path, err))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return auditerrors.NewMultiError(addErrs).ErrorOrNil()
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	rel := pathutil.ToSlashRelative(event.Name, w.scanner.Root())
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		// New directories need their own watch
		if event.Op&fsnotify.Create != 0 && !w.scanner.ExcludedDir(rel) {
			if err := w.addWatches(event.Name); err != nil {
				log.Printf("Warning: failed to add watch for new directory %s: %v", event.Name, err)
			}
		}
		return
	}

	if w.scanner.Excluded(rel) {
		return
	}
	if _, data := w.scanner.DataFileType(rel); !w.scanner.IsSource(rel) && !data {
		return
	}

	debug.LogDiscovery("watcher: %v %s", event.Op, rel)
	w.debouncer.addEvent(rel)
}

// eventDebouncer batches paths until no event arrived for the debounce period
type eventDebouncer struct {
	ctx      context.Context
	paths    map[string]struct{}
	mutex    sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	onFlush  func([]string)
}

func newEventDebouncer(ctx context.Context, debounce time.Duration, onFlush func([]string)) *eventDebouncer {
	return &eventDebouncer{
		ctx:      ctx,
		paths:    make(map[string]struct{}),
		debounce: debounce,
		onFlush:  onFlush,
	}
}

func (d *eventDebouncer) addEvent(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.paths[path] = struct{}{}

	// Reset the timer
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

func (d *eventDebouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *eventDebouncer) flush() {
	d.mutex.Lock()
	paths := d.paths
	d.paths = make(map[string]struct{})
	d.mutex.Unlock()

	if len(paths) == 0 || d.ctx.Err() != nil {
		return
	}

	batch := make([]string, 0, len(paths))
	for p := range paths {
		batch = append(batch, p)
	}
	sort.Strings(batch)

	debug.LogDiscovery("processing %d debounced file events", len(batch))
	if d.onFlush != nil {
		d.onFlush(batch)
	}
}
