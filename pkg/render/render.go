// Package render turns a fetched grant request model into the
// human-readable HTML document used for display and email notification.
// Templates are embedded; an optional on-disk directory overrides them
// and is hot-reloaded when its files change.
package render

import (
	"embed"
	"html/template"
	"io"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/uemf/forms-api/pkg/grant"
)

//go:embed views/*.html
var views embed.FS

// RequestDocument is the data handed to the request template.
type RequestDocument struct {
	RequestID int64
	Model     *grant.Model
}

// Renderer renders models through the embedded templates, or the
// override directory when one is configured.
type Renderer struct {
	overrideDir string
	log         *logrus.Logger

	mu      sync.RWMutex
	tmpl    *template.Template
	watcher *fsnotify.Watcher
}

// New creates a renderer. With a non-empty overrideDir its *.html files
// shadow the embedded views and are reloaded on change.
func New(overrideDir string, log *logrus.Logger) (*Renderer, error) {
	r := &Renderer{overrideDir: overrideDir, log: log}
	if err := r.load(); err != nil {
		return nil, err
	}

	if overrideDir != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		if err := watcher.Add(overrideDir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
		r.watcher = watcher
		go r.watch()
	}

	return r, nil
}

func (r *Renderer) load() error {
	tmpl, err := template.ParseFS(views, "views/*.html")
	if err != nil {
		return err
	}

	if r.overrideDir != "" {
		overrides, globErr := filepath.Glob(filepath.Join(r.overrideDir, "*.html"))
		if globErr == nil && len(overrides) > 0 {
			tmpl, err = tmpl.ParseFiles(overrides...)
			if err != nil {
				return err
			}
		}
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

func (r *Renderer) watch() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := r.load(); err != nil {
					r.log.WithError(err).Error("Failed to reload templates")
				} else {
					r.log.WithField("file", event.Name).Info("Reloaded templates")
				}
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.WithError(err).Error("Template watcher error")
		}
	}
}

// RenderRequest writes the HTML document for a fetched model.
func (r *Renderer) RenderRequest(w io.Writer, requestID int64, m *grant.Model) error {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	return tmpl.ExecuteTemplate(w, "request.html", &RequestDocument{
		RequestID: requestID,
		Model:     m,
	})
}

// Close stops the override watcher, if any.
func (r *Renderer) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}
