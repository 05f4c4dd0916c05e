// Package session ties one document to everything that edits and draws
// it.
//
// A Session owns the engine, the carets, the key dispatcher, the
// highlighter, the palettes and the caret overlay. The host calls its
// entry points (HandleKey, HandleClick, Fallback) on the UI goroutine;
// each one recovers panics, compares the carets and the revision before
// and after, and then calls the observers in the order they were added.
//
// Work from other goroutines, such as theme and config file reloads, is
// queued with Enqueue and runs at the start of the next entry point, so a
// palette change and its re-highlight always finish before the next key
// is handled.
package session

import (
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/editor/keys"
	"github.com/dshills/scriptedit/internal/editor/multicaret"
	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer"
	"github.com/dshills/scriptedit/internal/renderer/core"
	caretoverlay "github.com/dshills/scriptedit/internal/renderer/cursor"
	"github.com/dshills/scriptedit/internal/renderer/dirty"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
	"github.com/dshills/scriptedit/internal/renderer/palette"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Dismisser is implemented by interceptors that hide themselves when the
// carets move, such as a completion popup.
type Dismisser interface {
	Dismiss()
}

// Option configures a Session.
type Option func(*Session)

// WithPath sets the file the document was read from.
func WithPath(path string) Option {
	return func(s *Session) { s.path = path }
}

// WithKind sets the document language. The default is Python.
func WithKind(kind highlight.Kind) Option {
	return func(s *Session) { s.kind = kind }
}

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithStore sets the palette store. The default store reads the
// configured theme directory.
func WithStore(store *palette.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithInterceptor installs a snippet interceptor on the key dispatcher.
func WithInterceptor(i keys.Interceptor) Option {
	return func(s *Session) { s.interceptor = i }
}

// WithArea sets the screen area of the text view.
func WithArea(area core.Rect) Option {
	return func(s *Session) { s.area = area }
}

// WithClock replaces time.Now for caret blinking.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithWake sets a function called after Enqueue, typically one that
// interrupts the host's event poll so the queue is drained promptly.
func WithWake(fn func()) Option {
	return func(s *Session) { s.wake = fn }
}

// Session is an open document with its editing and drawing state.
type Session struct {
	id   string
	path string
	kind highlight.Kind
	cfg  config.Config
	area core.Rect
	now  func() time.Time

	eng         *engine.Engine
	carets      *multicaret.MultiCaret
	ops         *ops.Ops
	keys        *keys.Dispatcher
	interceptor keys.Interceptor
	highlighter *highlight.Highlighter

	store           *palette.Store
	palettes        *palette.Set
	unwatchPalettes func()
	themeWatch      *palette.Reloader

	tracker *dirty.Tracker
	view    *renderer.View
	overlay *caretoverlay.Renderer

	components Registry
	observers  observers

	mu    sync.Mutex
	queue []func()
	wake  func()

	clipboard string
	last      snapshot
	saved     buffer.RevisionID
	closed    bool
}

// snapshot is what an entry point compares to decide what changed.
type snapshot struct {
	revision buffer.RevisionID
	sels     []cursor.Selection
}

// New creates a session over eng.
func New(eng *engine.Engine, opts ...Option) (*Session, error) {
	s := &Session{
		id:   uuid.NewString(),
		kind: highlight.KindPython,
		cfg:  config.Default(),
		area: core.Rect{Width: 80, Height: 24},
		now:  time.Now,
		eng:  eng,
	}
	for _, opt := range opts {
		opt(s)
	}

	rules, err := highlight.New(s.kind)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		s.store = palette.NewStore(s.cfg.Theme.Dir)
	}

	s.carets = multicaret.New(eng, 0)
	s.ops = ops.New(s.carets, ops.WithIndentWidth(s.cfg.Editor.IndentWidth))

	km, err := keymapFor(s.cfg)
	if err != nil {
		log.Warn(log.CatKeys, "keymap overrides ignored", "session", s.id, "error", err)
		km = keys.DefaultKeymap()
	}
	s.keys = keys.NewDispatcher(s.ops,
		keys.WithKeymap(km),
		keys.WithCommentPrefix(CommentPrefix(s.kind)),
		keys.WithClipboard(s.Clipboard),
	)
	s.components.Install(CompKeys)
	if s.interceptor != nil {
		s.keys.SetInterceptor(s.interceptor)
		s.components.Install(CompInterceptor)
	}

	s.highlighter = highlight.NewHighlighter(eng.Document(), rules)
	s.highlighter.Attach()
	s.components.Install(CompHighlighter)

	s.tracker = dirty.NewTracker(s.area.Right(), s.area.Bottom())
	s.tracker.MarkFull(dirty.ReasonResize)
	s.view = renderer.NewView(s.area, s.cfg.Editor.TabWidth)
	s.installPalettes(s.loadPalettes(s.cfg.Theme))
	s.overlay = caretoverlay.New(overlayConfig(s.cfg, s.palettes.Normal().Background), s.tracker)
	s.components.Install(CompCaretOverlay)

	s.observers.add("view", CaretsChanged|TextChanged|ConfigChanged, (*Session).syncView)
	if d, ok := s.interceptor.(Dismisser); ok {
		s.observers.add("dismiss", CaretsChanged, func(*Session, Event) { d.Dismiss() })
	}

	s.syncView(0)
	s.last = s.snapshot()
	s.saved = s.last.revision
	log.Info(log.CatSession, "session opened",
		"session", s.id, "path", s.path, "kind", string(s.kind), "theme", s.cfg.Theme.Name)
	return s, nil
}

// CommentPrefix returns the line comment prefix of kind.
func CommentPrefix(kind highlight.Kind) string {
	if kind == highlight.KindMEL {
		return keys.SlashComment
	}
	return keys.HashComment
}

func keymapFor(cfg config.Config) (*keys.Keymap, error) {
	km := keys.DefaultKeymap()
	if len(cfg.Keymap) == 0 {
		return km, nil
	}
	if err := km.Apply(cfg.Keymap); err != nil {
		return nil, err
	}
	return km, nil
}

func overlayConfig(cfg config.Config, background core.Color) caretoverlay.Config {
	c := caretoverlay.DefaultConfig()
	if blink, band, guide, err := cfg.Caret.Colors(); err == nil {
		c.BlinkColors = blink
		c.BandColor = band
		c.GuideColor = guide
	} else {
		log.Warn(log.CatConfig, "caret colours ignored", "error", err)
	}
	if cfg.Caret.BlinkInterval > 0 {
		c.BlinkInterval = cfg.Caret.BlinkInterval
	}
	c.GuideColumn = cfg.Editor.MaxLineLength
	c.Margin = cfg.Caret.Margin
	c.Style = caretoverlay.StyleFromString(cfg.Caret.Style)
	if !background.IsDefault() {
		c.Background = background
	}
	return c
}

// ID returns the session ID used in log records.
func (s *Session) ID() string { return s.id }

// Path returns the document's file path, empty for a scratch document.
func (s *Session) Path() string { return s.path }

// Kind returns the document language.
func (s *Session) Kind() highlight.Kind { return s.kind }

// Engine returns the text engine.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Carets returns the carets.
func (s *Session) Carets() *multicaret.MultiCaret { return s.carets }

// Ops returns the multi-caret operations.
func (s *Session) Ops() *ops.Ops { return s.ops }

// Keys returns the key dispatcher.
func (s *Session) Keys() *keys.Dispatcher { return s.keys }

// Highlighter returns the incremental highlighter.
func (s *Session) Highlighter() *highlight.Highlighter { return s.highlighter }

// Palettes returns the palettes of the document's styles.
func (s *Session) Palettes() *palette.Set { return s.palettes }

// Overlay returns the caret overlay.
func (s *Session) Overlay() *caretoverlay.Renderer { return s.overlay }

// View returns the text view.
func (s *Session) View() *renderer.View { return s.view }

// Tracker returns the dirty-region tracker.
func (s *Session) Tracker() *dirty.Tracker { return s.tracker }

// Config returns the configuration in effect.
func (s *Session) Config() config.Config { return s.cfg }

// Components returns the installed components registry.
func (s *Session) Components() *Registry { return &s.components }

// Observe adds an observer for the events in mask. Observers run in the
// order they were added, after the built-in ones. The returned function
// removes it.
func (s *Session) Observe(name string, mask Event, fn Observer) func() {
	return s.observers.add(name, mask, fn)
}

// Clipboard returns the internal paste register.
func (s *Session) Clipboard() string { return s.clipboard }

// SetClipboard replaces the internal paste register.
func (s *Session) SetClipboard(text string) { s.clipboard = text }

// Modified reports whether the document was edited since it was opened
// or last saved.
func (s *Session) Modified() bool { return s.eng.Document().Revision() != s.saved }

// Enqueue schedules fn to run on the UI goroutine at the start of the
// next entry point. It is safe to call from any goroutine.
func (s *Session) Enqueue(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	wake := s.wake
	s.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Drain runs the queued functions and returns how many ran.
func (s *Session) Drain() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		s.runQueued(fn)
	}
	return len(queue)
}

func (s *Session) runQueued(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatSession, "queued task panic", "session", s.id, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func (s *Session) snapshot() snapshot {
	return snapshot{revision: s.eng.Document().Revision(), sels: s.carets.Selections()}
}

// publish notifies the observers of whatever changed since the last
// snapshot.
func (s *Session) publish(extra Event) {
	cur := s.snapshot()
	ev := extra
	if cur.revision != s.last.revision {
		ev |= TextChanged
	}
	if !slices.Equal(cur.sels, s.last.sels) {
		ev |= CaretsChanged
		s.markSelectionRows(s.last.sels, cur.sels)
	}
	s.last = cur
	s.observers.notify(s, ev)
}

// guard runs fn as an entry point: the queue is drained first, a panic
// becomes NotHandled and the observers hear about the changes.
func (s *Session) guard(what string, fn func() ops.Result) (result ops.Result) {
	if s.closed {
		return ops.NotHandled
	}
	s.Drain()
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatSession, "entry point panic",
				"session", s.id, "entry", what, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			result = ops.NotHandled
		}
		s.publish(0)
	}()
	return fn()
}

// Close detaches everything and releases the carets.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var errs []error
	if s.themeWatch != nil {
		errs = append(errs, s.themeWatch.Close())
		s.themeWatch = nil
		s.components.Uninstall(CompThemeWatch)
	}
	if s.unwatchPalettes != nil {
		s.unwatchPalettes()
	}
	s.highlighter.Detach()
	s.components.Uninstall(CompHighlighter)
	s.keys.SetInterceptor(nil)
	s.components.Uninstall(CompKeys | CompInterceptor | CompCaretOverlay | CompConfigWatch)
	s.carets.Close()
	log.Info(log.CatSession, "session closed", "session", s.id)
	return errors.Join(errs...)
}
