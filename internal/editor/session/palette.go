package session

import (
	"errors"
	"fmt"

	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/config/notify"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/dirty"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
	"github.com/dshills/scriptedit/internal/renderer/palette"
)

// loadPalettes builds the palette set for the document. A log document
// also carries the Python and MEL palettes its traceback and script
// lines are styled with.
func (s *Session) loadPalettes(theme config.ThemeConfig) *palette.Set {
	base := s.loadPalette(s.kind, theme)
	var others []*palette.Palette
	if s.kind == highlight.KindLog {
		for _, k := range []highlight.Kind{highlight.KindPython, highlight.KindMEL} {
			others = append(others, s.loadPalette(k, theme))
		}
	}
	return palette.NewSet(base, others...)
}

// loadPalette falls back from the named theme to a chroma seed and then
// to the embedded default.
func (s *Session) loadPalette(kind highlight.Kind, theme config.ThemeConfig) *palette.Palette {
	p, err := s.store.Load(kind, theme.Name)
	if err == nil {
		return p
	}
	if errors.Is(err, palette.ErrThemeNotFound) && theme.Seed != "" {
		if seeded, serr := palette.Seed(kind, theme.Seed); serr == nil {
			log.Debug(log.CatPalette, "seeded palette", "kind", string(kind), "style", theme.Seed)
			return seeded
		}
	}
	log.Warn(log.CatPalette, "theme unavailable, using default",
		"session", s.id, "kind", string(kind), "theme", theme.Name, "error", err)
	return s.store.MustLoad(kind)
}

func (s *Session) installPalettes(set *palette.Set) {
	if s.unwatchPalettes != nil {
		s.unwatchPalettes()
	}
	s.palettes = set
	s.unwatchPalettes = set.OnChange(func(p *palette.Palette, attr string) {
		log.Debug(log.CatPalette, "colour changed", "kind", string(p.Kind()), "attr", attr)
		s.paletteChanged()
	})
}

// paletteChanged re-highlights the whole document and repaints, before
// returning to the caller.
func (s *Session) paletteChanged() {
	s.highlighter.Rehighlight()
	if s.overlay != nil {
		cfg := s.overlay.Config()
		if bg := s.palettes.Normal().Background; !bg.IsDefault() {
			cfg.Background = bg
		}
		s.overlay.SetConfig(cfg)
	}
	s.tracker.MarkFull(dirty.ReasonStyle)
	s.observers.notify(s, PaletteChanged)
}

// SetColor changes one attribute of the palette of kind. The document is
// re-highlighted before SetColor returns.
func (s *Session) SetColor(kind highlight.Kind, attr string, c core.Color) error {
	p, ok := s.palettes.Get(kind)
	if !ok {
		return fmt.Errorf("%w: %s", highlight.ErrUnknownLanguage, kind)
	}
	return p.SetColor(attr, c)
}

// SetTheme switches every palette to theme.
func (s *Session) SetTheme(theme string) {
	s.cfg.Theme.Name = theme
	s.installPalettes(s.loadPalettes(s.cfg.Theme))
	s.paletteChanged()
}

// WatchThemes reloads palettes when their theme files change. Changes are
// queued and applied on the UI goroutine.
func (s *Session) WatchThemes() error {
	if !s.components.Install(CompThemeWatch) {
		return nil
	}
	r, err := s.store.Watch(func(ev palette.Reload) {
		s.Enqueue(func() { s.reloadTheme(ev) })
	})
	if err != nil {
		s.components.Uninstall(CompThemeWatch)
		return fmt.Errorf("watch themes: %w", err)
	}
	s.themeWatch = r
	return nil
}

func (s *Session) reloadTheme(ev palette.Reload) {
	p, ok := s.palettes.Get(ev.Kind)
	if !ok || p.Theme() != ev.Theme {
		return
	}
	log.Info(log.CatPalette, "theme reloaded", "session", s.id, "kind", string(ev.Kind), "theme", ev.Theme, "op", ev.Op.String())
	s.installPalettes(s.loadPalettes(s.cfg.Theme))
	s.paletteChanged()
}

// ApplyConfig applies cfg to the running session. Invalid keymap
// overrides are reported and leave the current keymap in place; the rest
// of cfg is still applied.
func (s *Session) ApplyConfig(cfg config.Config) error {
	old := s.cfg
	s.cfg = cfg

	var errs []error
	if km, err := keymapFor(cfg); err != nil {
		errs = append(errs, fmt.Errorf("keymap: %w", err))
		s.cfg.Keymap = old.Keymap
	} else {
		s.keys.SetKeymap(km)
	}

	s.ops.SetIndentWidth(cfg.Editor.IndentWidth)
	s.view.SetTabWidth(cfg.Editor.TabWidth)

	themeChanged := cfg.Theme.Name != old.Theme.Name || cfg.Theme.Seed != old.Theme.Seed
	if cfg.Theme.Dir != old.Theme.Dir {
		s.store = palette.NewStore(cfg.Theme.Dir)
		themeChanged = true
	}
	if themeChanged {
		s.installPalettes(s.loadPalettes(cfg.Theme))
	}
	s.overlay.SetConfig(overlayConfig(cfg, s.palettes.Normal().Background))
	if themeChanged {
		s.paletteChanged()
	}

	s.tracker.MarkFull(dirty.ReasonStyle)
	s.observers.notify(s, ConfigChanged)
	log.Info(log.CatConfig, "config applied", "session", s.id, "theme", cfg.Theme.Name)
	return errors.Join(errs...)
}

// WatchConfig follows m: file changes are queued as reloads, and every
// successful reload is applied to the session.
func (s *Session) WatchConfig(m *config.Manager) error {
	if !s.components.Install(CompConfigWatch) {
		return nil
	}
	sub := m.Subscribe(func(c notify.Change) {
		if c.Type != notify.ChangeReload {
			return
		}
		if err := s.ApplyConfig(m.Config()); err != nil {
			log.Warn(log.CatConfig, "config partly applied", "error", err)
		}
	})
	err := m.Watch(func(path string) {
		s.Enqueue(func() { s.reloadConfig(m, path) })
	})
	if err != nil {
		sub.Unsubscribe()
		s.components.Uninstall(CompConfigWatch)
		return fmt.Errorf("watch config: %w", err)
	}
	return nil
}

// reloadConfig re-reads m after path changed. On failure the session keeps
// the config it has.
func (s *Session) reloadConfig(m *config.Manager, path string) {
	if err := m.Reload(path); err != nil {
		log.Warn(log.CatConfig, "config reload failed, keeping previous config",
			"session", s.id, "path", path, "error", err)
	}
}
