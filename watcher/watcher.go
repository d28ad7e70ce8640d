package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind says which side of the project changed on disk.
type Kind int

const (
	// ShaderChanged means a vertex or fragment source file was saved.
	ShaderChanged Kind = iota
	// ConfigChanged means the scene file was saved.
	ConfigChanged
)

// Event is one debounced change notification.
type Event struct {
	Kind Kind
}

// Watcher turns file saves into commit events for the render loop, making
// any text editor the tool's editing surface. Editors commonly replace
// files by rename or truncate+write, so the parent directories are watched
// and events matched back against the tracked paths. Bursts from a single
// save settle before an event is emitted.
type Watcher struct {
	fsw         *fsnotify.Watcher
	events      chan Event
	shaderPaths map[string]bool
	configPath  string
}

const settleDelay = 100 * time.Millisecond

// New watches the scene config plus any number of shader source files.
func New(configPath string, shaderPaths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:         fsw,
		events:      make(chan Event, 4),
		shaderPaths: make(map[string]bool),
	}
	w.configPath, err = filepath.Abs(configPath)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	dirs := map[string]bool{filepath.Dir(w.configPath): true}
	for _, p := range shaderPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.shaderPaths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.run()
	return w, nil
}

// Events delivers debounced change notifications. The channel is buffered;
// the render loop drains it once per frame.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run() {
	timer := time.NewTimer(settleDelay)
	if !timer.Stop() {
		<-timer.C
	}
	var shaderPending, configPending bool

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			switch {
			case w.shaderPaths[abs]:
				shaderPending = true
			case abs == w.configPath:
				configPending = true
			default:
				continue
			}
			timer.Reset(settleDelay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)

		case <-timer.C:
			if shaderPending {
				w.events <- Event{Kind: ShaderChanged}
				shaderPending = false
			}
			if configPending {
				w.events <- Event{Kind: ConfigChanged}
				configPending = false
			}
		}
	}
}
