package view

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/network"
	"github.com/nstehr/vimy/vimy-viewer/remote"
	"github.com/nstehr/vimy/vimy-viewer/rules"
)

// Deps is what the machine needs to build screens.
type Deps struct {
	Client remote.Client // required
	Styles *rules.Engine // nil colours by kind only
	Sync   network.Config
	World  model.WorldBounds // clamp bounds until the server reports its own
	Menu   []Intent          // nil uses DefaultMenu
}

// Machine is the view state machine. Exactly one screen is active; the
// kind field says which.
type Machine struct {
	deps Deps
	kind StateKind
	menu *MainMenu
	game *GameView
	done bool
}

// NewMachine starts in the main menu.
func NewMachine(deps Deps) *Machine {
	return &Machine{deps: deps, kind: StateMainMenu, menu: NewMainMenu(deps.Menu)}
}

func (m *Machine) State() StateKind { return m.kind }

// Game returns the active game view, or nil in any other state.
func (m *Machine) Game() *GameView {
	if m.kind != StateGame {
		return nil
	}
	return m.game
}

// Frame renders the active screen and applies its action. It reports false
// once the machine has quit.
func (m *Machine) Frame(elapsed float64, in Input, c Canvas) bool {
	if m.done {
		return false
	}

	var act Action
	switch m.kind {
	case StateMainMenu:
		act = m.menu.Render(elapsed, in, c)
	case StateGame:
		act = m.game.Render(elapsed, in, c)
	default:
		slog.Error("unknown view state", "state", m.kind)
		act = actionQuit
	}

	switch act.Kind {
	case ChangeView:
		m.enter(act.Next)
	case Quit:
		slog.Info("quit requested", "state", m.kind)
		m.Close()
		return false
	}
	return true
}

// Close releases the active screen. Calling it more than once is safe.
func (m *Machine) Close() {
	m.done = true
	if m.game != nil {
		m.game.Close()
		m.game = nil
	}
}

func (m *Machine) enter(next StateKind) {
	if next != StateMainMenu && next != StateGame {
		slog.Error("unknown view state requested, staying put", "state", next)
		return
	}
	if m.game != nil {
		m.game.Close()
		m.game = nil
	}
	if next == StateGame {
		m.game = NewGameView(m.deps)
	} else {
		m.menu = NewMainMenu(m.deps.Menu)
	}
	slog.Info("view changed", "from", m.kind, "to", next)
	m.kind = next
}
