package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/statusline"
)

// Run starts the terminal, runs the event loop until quit or ctx is done
// and restores the terminal.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := app.backend.Init(); err != nil {
		app.running.Store(false)
		return &InitError{Component: "terminal", Err: err}
	}
	defer app.stop()

	app.backend.SetCursorStyle(cursorStyle(app.session.Overlay().Config().Style))
	w, h := app.backend.Size()
	app.layout(w, h)
	app.startWatching()

	log.Info(log.CatSession, "editor started", "path", app.opts.Path, "width", w, "height", h)
	return app.loop(ctx)
}

func (app *Application) startWatching() {
	if !app.opts.Watch {
		return
	}
	if app.config != nil {
		if err := app.session.WatchConfig(app.config); err != nil {
			log.Warn(log.CatConfig, "config not watched", "error", err)
		}
	}
	if app.session.Config().Theme.Watch && app.session.Config().Theme.Dir != "" {
		if err := app.session.WatchThemes(); err != nil {
			log.Warn(log.CatPalette, "themes not watched", "error", err)
		}
	}
}

func (app *Application) stop() {
	app.running.Store(false)
	close(app.done)
	app.backend.Shutdown()
}

// Save writes the document to its file through a temporary file in the
// same directory.
func (app *Application) Save() error {
	path := app.opts.Path
	if path == "" {
		app.status.SetMessage("no file name", statusline.MessageError)
		return nil
	}
	if err := app.writeFile(path); err != nil {
		return err
	}
	app.status.SetMessage(fmt.Sprintf("saved %s", filepath.Base(path)), statusline.MessageInfo)
	return nil
}

func (app *Application) writeFile(path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := app.session.Save(tmp); err != nil {
		_ = tmp.Close()
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Close releases the session and the document. It must not be called
// while Run is in progress.
func (app *Application) Close() error {
	err := app.session.Close()
	app.eng.Close()
	return err
}
