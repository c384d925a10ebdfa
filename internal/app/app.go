package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"

	"github.com/kobzarvs/ptedit/internal/config"
	"github.com/kobzarvs/ptedit/internal/editor"
	"github.com/kobzarvs/ptedit/internal/logger"
	"github.com/kobzarvs/ptedit/internal/session"
	"github.com/kobzarvs/ptedit/internal/syntax"
)

var errNotTerminal = errors.New("stdout is not a terminal")

// App is the top-level runtime for ptedit.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errNotTerminal
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Editor.DebugLog); err != nil {
		return err
	}
	defer logger.Close()

	ed := editor.New(cfg)
	hl := syntax.New(langs)
	defer hl.Close()
	ed.SetHighlighter(hl)

	var sm *session.Manager
	if path, err := session.DefaultPath(); err == nil {
		sm = session.NewManager(path, 15*time.Second)
		defer func() {
			if err := sm.Stop(); err != nil {
				logger.Warn("session save failed", "err", err)
			}
		}()
	}

	var absPath string
	if len(a.args) > 0 {
		if err := ed.OpenFile(a.args[0]); err != nil {
			return err
		}
		absPath, err = filepath.Abs(a.args[0])
		if err != nil {
			absPath = a.args[0]
		}
		if sm != nil {
			if off, ok := sm.Cursor(absPath); ok {
				ed.SetCursor(off)
			}
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	err = loop(s, ed)
	if sm != nil && absPath != "" {
		sm.SetCursor(absPath, ed.Cursor())
	}
	return err
}

// loop renders ed and feeds it events until a quit action.
func loop(s tcell.Screen, ed *editor.Editor) error {
	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil // screen finalized
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				logger.Info("quit", "dirty", ed.Dirty(), "length", ed.Buffer().Len())
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		}
		ed.Render(s)
	}
}
