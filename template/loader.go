package template

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/patrickmn/go-cache"

	"github.com/gowade/view/internal/log"
)

var ErrNotFound = errors.New("template not found")

var extensions = []string{".yaml", ".yml", ".html"}

// Loader reads templates from a directory and caches the parsed trees.
// Cached nodes are shared between callers and must be treated as read-only.
type Loader struct {
	dir   string
	cache *cache.Cache
}

// NewLoader creates a loader for dir. Entries expire after ttl; a ttl of
// zero or less keeps them until invalidated.
func NewLoader(dir string, ttl time.Duration) *Loader {
	if ttl <= 0 {
		return &Loader{dir: dir, cache: cache.New(cache.NoExpiration, 0)}
	}

	return &Loader{dir: dir, cache: cache.New(ttl, 2*ttl)}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Load returns the template called name, reading <dir>/<name>.yaml, .yml or
// .html, first match wins. Name may carry one of those extensions itself to
// pick a file. Parsed templates are cached per file.
func (l *Loader) Load(name string) (*Node, error) {
	file := l.resolve(name)
	if file == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, name, l.dir)
	}

	if cached, ok := l.cache.Get(file); ok {
		return cached.(*Node), nil
	}

	data, err := os.ReadFile(file) //nolint:gosec // templates dir is configured by the user
	if err != nil {
		return nil, fmt.Errorf("reading template %q: %w", name, err)
	}

	var node *Node
	if filepath.Ext(file) == ".html" {
		node, err = ParseHTML(string(data))
	} else {
		node, err = DecodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	l.cache.Set(file, node, cache.DefaultExpiration)
	log.Debug(log.CatTemplate, "loaded", "name", name, "file", file)
	return node, nil
}

func (l *Loader) resolve(name string) string {
	if knownExt(filepath.Ext(name)) {
		file := filepath.Join(l.dir, name)
		if _, err := os.Stat(file); err != nil {
			return ""
		}
		return file
	}

	for _, ext := range extensions {
		candidate := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

func knownExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Invalidate evicts every cached file of the template called name, or just
// the named file when name carries an extension.
func (l *Loader) Invalidate(name string) {
	if knownExt(filepath.Ext(name)) {
		l.cache.Delete(filepath.Join(l.dir, name))
		return
	}

	for _, ext := range extensions {
		l.cache.Delete(filepath.Join(l.dir, name+ext))
	}
}

// Cached reports how many templates are currently cached.
func (l *Loader) Cached() int {
	return l.cache.ItemCount()
}

// Watch evicts templates whose files change and calls onChange, if not nil,
// with the template name. It blocks until ctx is done.
func (l *Loader) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", l.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			base := filepath.Base(event.Name)
			ext := filepath.Ext(base)
			if !knownExt(ext) {
				continue
			}

			name := strings.TrimSuffix(base, ext)
			l.Invalidate(name)
			log.Debug(log.CatTemplate, "modified", "name", name, "op", event.Op.String())
			if onChange != nil {
				onChange(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorErr(log.CatTemplate, "watch error", err)
		}
	}
}
