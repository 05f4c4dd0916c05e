package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/scriptedit/internal/app"
	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/editor/session"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

// parseKind parses a --lang value; empty means pick by extension.
func parseKind(lang string) (highlight.Kind, error) {
	if lang == "" {
		return "", nil
	}
	return highlight.ParseKind(lang)
}

// openSession loads path into a headless session.
func openSession(path string, kind highlight.Kind, cfg config.Config) (*session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &app.FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f)
	if err != nil {
		return nil, &app.FileError{Op: "read", Path: path, Err: err}
	}
	s, err := session.New(eng,
		session.WithPath(path),
		session.WithKind(app.KindFor(path, kind)),
		session.WithConfig(cfg),
	)
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return s, nil
}

func closeSession(s *session.Session) error {
	err := s.Close()
	if errors.Is(err, session.ErrClosed) {
		err = nil
	}
	s.Engine().Close()
	return err
}
