package palette

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/scriptedit/internal/config/watcher"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

// Reload describes a theme file that changed on disk. The cached palette
// has already been dropped when it is delivered.
type Reload struct {
	Kind  highlight.Kind
	Theme string
	Path  string
	Op    watcher.Op
}

// Reloader watches a store's theme directory.
type Reloader struct {
	w *watcher.Watcher
}

// Watch starts watching {dir}/{kind} for every kind directory that
// exists. fn runs on the watcher goroutine; callers that touch editor
// state should queue the event.
func (s *Store) Watch(fn func(Reload), opts ...watcher.Option) (*Reloader, error) {
	if s.dir == "" {
		return nil, errors.New("palette store has no directory")
	}
	opts = append(opts, watcher.WithFilter(isThemeFile))
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, kind := range highlight.Kinds() {
		dir := filepath.Join(s.dir, string(kind))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.Watch(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		watched++
	}
	log.Debug(log.CatPalette, "watching themes", "dir", s.dir, "kinds", watched)

	w.OnChange(func(ev watcher.Event) {
		kind, theme, ok := s.InvalidatePath(ev.Path)
		if !ok {
			return
		}
		fn(Reload{Kind: kind, Theme: theme, Path: ev.Path, Op: ev.Op})
	})
	return &Reloader{w: w}, nil
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Close()
}

func isThemeFile(path string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}
