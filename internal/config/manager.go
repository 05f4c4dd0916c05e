package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dshills/scriptedit/internal/config/layer"
	"github.com/dshills/scriptedit/internal/config/loader"
	"github.com/dshills/scriptedit/internal/config/notify"
	"github.com/dshills/scriptedit/internal/config/watcher"
	"github.com/dshills/scriptedit/internal/log"
)

// DefaultFiles returns the user configuration files:
// $XDG_CONFIG_HOME/scriptedit/config.toml and config.yaml.
func DefaultFiles() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(dir, "scriptedit", "config.toml"),
		filepath.Join(dir, "scriptedit", "config.yaml"),
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithFiles sets the configuration files. The extension selects the
// format and layer; a later file of the same format replaces an earlier
// one.
func WithFiles(paths ...string) Option {
	return func(m *Manager) {
		for _, p := range paths {
			if p != "" {
				m.files = append(m.files, p)
			}
		}
	}
}

// WithFS reads files from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(m *Manager) { m.fs = fsys }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) { m.envPrefix = prefix }
}

// WithEnviron reads variables from environ instead of the process
// environment.
func WithEnviron(environ []string) Option {
	return func(m *Manager) { m.environ = environ }
}

// WithWatchDebounce sets the quiet period of the file watcher.
func WithWatchDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// Manager loads the layers, decodes them and reports changes.
type Manager struct {
	mu sync.Mutex

	fs        loader.FileSystem
	files     []string
	envPrefix string
	environ   []string
	debounce  time.Duration

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher

	merged  map[string]any
	current Config
}

// NewManager creates a manager holding the defaults.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		debounce:  100 * time.Millisecond,
		layers:    layer.NewManager(),
		notifier:  notify.New(),
		current:   Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.layers.Set(layer.New(layer.SourceBuiltin, "", defaultMap()))
	m.merged = m.layers.Merge()
	return m
}

func sourceOf(path string) layer.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return layer.SourceYAML
	}
	return layer.SourceTOML
}

// loadLayers reads the files and the environment into the layer manager.
func (m *Manager) loadLayers() error {
	for _, path := range m.files {
		l, err := loader.ForPath(m.fs, path)
		if err != nil {
			return err
		}
		data, err := l.Load()
		if err != nil {
			return err
		}
		if data == nil {
			m.layers.Remove(sourceOf(path))
			continue
		}
		m.layers.Set(layer.New(sourceOf(path), path, data))
		log.Debug(log.CatConfig, "loaded", "path", path)
	}

	env := loader.NewEnvLoader(m.envPrefix)
	if m.environ != nil {
		env = loader.NewEnvLoaderFrom(m.envPrefix, m.environ)
	}
	data, err := env.Load()
	if err != nil {
		return err
	}
	m.layers.Set(layer.New(layer.SourceEnv, "", data))
	return nil
}

// Load reads every source and returns the decoded configuration. On error
// the previous configuration stays in effect.
func (m *Manager) Load() (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLayers(); err != nil {
		return m.current, err
	}
	_, err := m.applyLocked()
	return m.current, err
}

// applyLocked decodes the merged layers and returns the changed paths.
func (m *Manager) applyLocked() ([]notify.Change, error) {
	merged := m.layers.Merge()
	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	changes := diff(m.merged, merged)
	for i := range changes {
		changes[i].Source = m.layers.WhichLayer(changes[i].Path)
	}
	m.merged = merged
	m.current = cfg
	return changes, nil
}

// diff lists the leaf paths whose values differ, sorted by path. A table
// that changes shape is reported through its leaves.
func diff(old, cur map[string]any) []notify.Change {
	paths := append(loader.Paths(old), loader.Paths(cur)...)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	var out []notify.Change
	for _, p := range paths {
		ov, oldOK := loader.GetByPath(old, p)
		nv, newOK := loader.GetByPath(cur, p)
		_, oldMap := ov.(map[string]any)
		_, newMap := nv.(map[string]any)
		switch {
		case oldMap && newMap:
			// reported through the leaves below it
		case oldOK && !newOK:
			out = append(out, notify.Change{Path: p, Type: notify.ChangeDelete, OldValue: ov})
		case !reflect.DeepEqual(ov, nv):
			out = append(out, notify.Change{Path: p, Type: notify.ChangeSet, OldValue: ov, NewValue: nv})
		}
	}
	return out
}

// Config returns the current configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Source returns the name of the layer providing path.
func (m *Manager) Source(path string) string {
	return m.layers.WhichLayer(path)
}

// SetFlags installs command-line values by dotted path and notifies the
// changes.
func (m *Manager) SetFlags(values map[string]any) error {
	data := make(map[string]any)
	for path, v := range values {
		loader.SetByPath(data, path, v)
	}

	m.mu.Lock()
	prev := m.layers.Layer(layer.SourceFlags)
	m.layers.Set(layer.New(layer.SourceFlags, "", data))
	changes, err := m.applyLocked()
	if err != nil {
		if prev != nil {
			m.layers.Set(prev)
		} else {
			m.layers.Remove(layer.SourceFlags)
		}
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.deliver(changes, "flags")
	return nil
}

// Reload re-reads the sources and notifies what changed. A file that no
// longer parses leaves the configuration unchanged.
func (m *Manager) Reload(reason string) error {
	m.mu.Lock()
	saved := m.layers.Layers()
	err := m.loadLayers()
	var changes []notify.Change
	if err == nil {
		changes, err = m.applyLocked()
	}
	if err != nil {
		for _, l := range m.layers.Layers() {
			m.layers.Remove(l.Source)
		}
		for _, l := range saved {
			m.layers.Set(l)
		}
	}
	m.mu.Unlock()

	if err != nil {
		log.ErrorErr(log.CatConfig, "reload failed", err, "reason", reason)
		return err
	}
	log.Info(log.CatConfig, "reloaded", "reason", reason, "changes", len(changes))
	m.deliver(changes, reason)
	return nil
}

func (m *Manager) deliver(changes []notify.Change, reason string) {
	if len(changes) == 0 {
		return
	}
	batch := m.notifier.NewBatch()
	for _, c := range changes {
		batch.Add(c)
	}
	batch.Add(notify.Change{Type: notify.ChangeReload, Source: reason})
	batch.Commit()
}

// Subscribe registers an observer for every change.
func (m *Manager) Subscribe(obs notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(obs)
}

// SubscribePath registers an observer for path and its children.
func (m *Manager) SubscribePath(path string, obs notify.Observer) *notify.Subscription {
	return m.notifier.SubscribePath(path, obs)
}

// Watch watches the configuration files. Each debounced change calls
// enqueue with the file path; the owner calls Reload from its own
// goroutine. A nil enqueue reloads on the watcher goroutine.
func (m *Manager) Watch(enqueue func(path string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher == nil {
		w, err := watcher.New(watcher.WithDebounce(m.debounce))
		if err != nil {
			return err
		}
		m.watcher = w
		w.OnChange(func(ev watcher.Event) {
			log.Debug(log.CatConfig, "file changed", "path", ev.Path, "op", ev.Op.String())
			if enqueue != nil {
				enqueue(ev.Path)
				return
			}
			_ = m.Reload(ev.Path)
		})
	}
	for _, path := range m.files {
		if err := m.watcher.Watch(path); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the watcher and the notifier.
func (m *Manager) Close() error {
	m.mu.Lock()
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	m.notifier.Close()
	if w != nil {
		return w.Close()
	}
	return nil
}
