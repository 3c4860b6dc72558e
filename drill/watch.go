package drill

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// WatchWordFile watches the word list file and invokes onChange after it
// is written or replaced. Editors often produce bursts of events, so
// changes are debounced. The returned stop function releases the watcher.
func WatchWordFile(path string, onChange func()) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}
	// Watch the directory: replace-by-rename (the usual editor save) drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var debounce *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("Word list watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close() //nolint:errcheck
	}, nil
}
