// Package app runs the terminal editor. It wires a backend, an editing
// session and the status line together and routes terminal events
// between them.
package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/editor/session"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/backend"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
	"github.com/dshills/scriptedit/internal/renderer/statusline"
)

// Options configures the application.
type Options struct {
	// Path is the file to edit. A missing file is created on save.
	Path string

	// Kind overrides the language picked from the file extension.
	Kind highlight.Kind

	// Config supplies the configuration; nil uses the defaults.
	Config *config.Manager

	// Backend is the terminal; nil opens the real one.
	Backend backend.Backend

	// Watch reloads the config files and, when the config asks for it,
	// the theme directory.
	Watch bool
}

// Application is the terminal editor.
type Application struct {
	backend backend.Backend
	eng     *engine.Engine
	session *session.Session
	config  *config.Manager
	status  *statusline.StatusLine

	width, height int
	quitArmed     bool

	running atomic.Bool
	done    chan struct{}

	opts Options
}

// New opens opts.Path and prepares the editor. The terminal is not
// touched until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		config:  opts.Config,
		backend: opts.Backend,
		status:  statusline.New(),
		done:    make(chan struct{}),
	}

	cfg := config.Default()
	if app.config != nil {
		cfg = app.config.Config()
	}

	eng, err := openDocument(opts.Path)
	if err != nil {
		return nil, err
	}
	app.eng = eng

	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			eng.Close()
			return nil, &InitError{Component: "terminal", Err: err}
		}
		app.backend = term
	}

	s, err := session.New(eng,
		session.WithPath(opts.Path),
		session.WithKind(KindFor(opts.Path, opts.Kind)),
		session.WithConfig(cfg),
		session.WithWake(func() { app.backend.Interrupt(nil) }),
	)
	if err != nil {
		eng.Close()
		return nil, &InitError{Component: "session", Err: err}
	}
	app.session = s
	log.SetSession(s.ID())
	return app, nil
}

// KindFor returns kind, or the language of path's extension, or Python.
func KindFor(path string, kind highlight.Kind) highlight.Kind {
	if kind != "" {
		return kind
	}
	if rs, ok := highlight.DefaultRegistry().ForPath(path); ok {
		return rs.Kind()
	}
	return highlight.KindPython
}

func openDocument(path string) (*engine.Engine, error) {
	if path == "" {
		return engine.New(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(log.CatSession, "new file", "path", path)
		return engine.New(), nil
	}
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	return eng, nil
}

// Session returns the editing session.
func (app *Application) Session() *session.Session {
	return app.session
}

// StatusLine returns the status bar.
func (app *Application) StatusLine() *statusline.StatusLine {
	return app.status
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

func (app *Application) statusState() statusline.State {
	doc := app.eng.Document()
	p := doc.OffsetToPoint(app.session.Carets().Primary().Position())
	name := app.opts.Path
	if name != "" {
		name = filepath.Base(name)
	}
	return statusline.State{
		Filename: name,
		Modified: app.session.Modified(),
		Language: string(app.session.Kind()),
		Theme:    app.session.Palettes().Base().Theme(),
		Carets:   app.session.Carets().Len(),
		Line:     p.Line,
		Column:   core.ColumnOf(doc.LineText(p.Line), p.Column, app.session.View().TabWidth()),
		Lines:    doc.LineCount(),
	}
}
