package watcher

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 2 * time.Second

// Watcher monitors the photo root for filesystem changes and invokes a
// single callback after a quiet period, so bursts of writes (a camera
// import, an unzip) trigger one rescan instead of hundreds. Directories
// are watched recursively; fsnotify watches do not recurse on their own.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func()
	fsw      *fsnotify.Watcher
	stop     chan struct{}
}

func New(root string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:     root,
		debounce: defaultDebounce,
		onChange: onChange,
		fsw:      fsw,
		stop:     make(chan struct{}),
	}, nil
}

// Start registers the root tree and begins dispatching. It returns after
// spawning the event loop.
func (w *Watcher) Start() error {
	if err := w.watchTree(w.root); err != nil {
		w.fsw.Close()
		return err
	}
	go w.loop()
	log.Printf("watcher: watching %s", w.root)
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.stop)
	w.fsw.Close()
}

func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// new directories must be added to the watch set before their
			// contents produce events
			if event.Has(fsnotify.Create) {
				if err := w.watchTree(event.Name); err != nil {
					log.Printf("watcher: failed to watch %s: %v", event.Name, err)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: error: %v", err)
		case <-fire:
			timer = nil
			log.Printf("watcher: change detected under %s, triggering rescan", w.root)
			w.onChange()
		case <-w.stop:
			return
		}
	}
}
