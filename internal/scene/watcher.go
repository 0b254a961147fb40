package scene

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/termtree/internal/logging"
)

// Watcher reports changes to a single scene file. It watches the file's
// directory so editors that save by renaming a temp file are still seen.
// Bursts of events within the debounce window produce one notification.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *logging.Logger

	changes chan struct{}
	errors  chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher starts watching path. A debounce of zero uses 100ms.
func NewWatcher(path string, debounce time.Duration, log *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if log == nil {
		log = logging.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		debounce: debounce,
		log:      log.WithComponent("watcher").WithField("path", abs),
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 8),
		closeCh:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Changes delivers one value per debounced burst of writes to the file.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher errors. Errors are dropped if nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Done is closed when the watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.closeCh
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("file event %s", ev.Op)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.log.Warn("dropping watcher error: %v", err)
			}

		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
