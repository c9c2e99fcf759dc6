package shaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher signals when a shader source in the library directory changes.
// Events arrive on a background goroutine; the render thread polls Changed
// so rebinding still happens on the thread that owns the GL context.
type Watcher struct {
	watcher *fsnotify.Watcher
	changed chan string
	logger  *logrus.Logger
}

// Watch starts watching dir for shader edits
func Watch(dir string, logger *logrus.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch shader dir %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		changed: make(chan string, 1),
		logger:  logger,
	}
	go w.run()

	logger.WithField("dir", dir).Info("Watching shader sources for changes")
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isShaderSource(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				select {
				case w.changed <- ev.Name:
				default:
					// a reload is already pending
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Shader watcher error")
		}
	}
}

// Changed reports whether a shader source changed since the last call. It never blocks.
func (w *Watcher) Changed() bool {
	select {
	case name := <-w.changed:
		w.logger.WithField("file", name).Info("Shader source changed")
		return true
	default:
		return false
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func isShaderSource(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".vert", ".frag", ".glsl":
		return true
	}
	return false
}
