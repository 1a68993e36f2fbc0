package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/bus"
	"github.com/nwestfall/planview/internal/config"
)

// TUI is the terminal console for a project's task-dependency graph.
type TUI struct {
	client api.Client
	cfg    *config.Config
	bus    *bus.Bus

	onTaskSelected   func(*int64)
	onProjectChanged func(int64)
	onQuit           func()
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a new TUI with the given backend client and options.
func New(client api.Client, cfg *config.Config, opts ...Option) *TUI {
	t := &TUI{
		client: client,
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithBus sets the publish/subscribe channel for project changes. The
// console both reacts to broadcasts and rebroadcasts its own switches.
func WithBus(b *bus.Bus) Option {
	return func(t *TUI) {
		t.bus = b
	}
}

// WithOnTaskSelected sets the callback invoked on every selection
// change. The argument is the numeric task id, or nil when no task is
// selected or the id is not numeric.
func WithOnTaskSelected(fn func(*int64)) Option {
	return func(t *TUI) {
		t.onTaskSelected = fn
	}
}

// WithOnProjectChanged sets the callback invoked when the active
// project switches.
func WithOnProjectChanged(fn func(int64)) Option {
	return func(t *TUI) {
		t.onProjectChanged = fn
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// Run starts the console and blocks until it exits.
func (t *TUI) Run() error {
	m := newModel(t, t.cfg)
	defer func() {
		if t.bus != nil && m.busCh != nil {
			t.bus.Unsubscribe(m.busCh)
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
