package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

func (k ChangeKind) String() string {
	if k == ChangeScript {
		return "script"
	}
	return "spec"
}

// Change is one file on disk that was written, created, or renamed into
// place.
type Change struct {
	Path string
	Kind ChangeKind
}

// Name is the file name without its directory.
func (c Change) Name() string { return filepath.Base(c.Path) }

// Watcher reports changed fighter specs, match specs, and AI scripts.
// A file is reported once it has been quiet for the debounce window, so a
// truncate followed by a write yields one change after the final write.
type Watcher struct {
	Changes chan Change
	Errors  chan error

	fs      *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		fs:      fw,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes both channels. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

// pendingFire is a quiet-period expiry for one path. gen discards expiries
// that a later write has superseded.
type pendingFire struct {
	path string
	gen  uint64
}

func (w *Watcher) run() {
	type pending struct {
		change Change
		gen    uint64
		timer  *time.Timer
	}
	waiting := make(map[string]*pending)
	fire := make(chan pendingFire)

	defer func() {
		for _, p := range waiting {
			p.timer.Stop()
		}
		close(w.Changes)
		close(w.Errors)
		close(w.done)
	}()

	var gen uint64
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := classify(event)
			if !ok {
				continue
			}
			gen++
			if p, seen := waiting[change.Path]; seen {
				p.timer.Stop()
			}
			key := pendingFire{path: change.Path, gen: gen}
			waiting[change.Path] = &pending{
				change: change,
				gen:    gen,
				timer: time.AfterFunc(debounce, func() {
					select {
					case fire <- key:
					case <-w.closeCh:
					}
				}),
			}
		case key := <-fire:
			p, seen := waiting[key.path]
			if !seen || p.gen != key.gen {
				continue
			}
			delete(waiting, key.path)
			select {
			case w.Changes <- p.change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
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

func classify(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return Change{}, false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return Change{Path: event.Name, Kind: ChangeSpec}, true
	case ".tengo":
		return Change{Path: event.Name, Kind: ChangeScript}, true
	}
	return Change{}, false
}
