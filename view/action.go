package view

import "fmt"

type ActionKind uint8

const (
	Continue ActionKind = iota
	ChangeView
	Quit
)

// StateKind enumerates every screen the machine can be in.
type StateKind uint8

const (
	StateMainMenu StateKind = iota
	StateGame
)

func (s StateKind) String() string {
	switch s {
	case StateMainMenu:
		return "MainMenu"
	case StateGame:
		return "GameView"
	default:
		return fmt.Sprintf("StateKind(%d)", uint8(s))
	}
}

// Action is what a screen returns from a frame. Next is only meaningful for
// ChangeView.
type Action struct {
	Kind ActionKind
	Next StateKind
}

var (
	actionContinue = Action{Kind: Continue}
	actionQuit     = Action{Kind: Quit}
)

func changeTo(next StateKind) Action { return Action{Kind: ChangeView, Next: next} }

// Intent is a menu entry's effect.
type Intent uint8

const (
	IntentStartGame Intent = iota
	IntentOptions
	IntentQuit
)

func (i Intent) String() string {
	switch i {
	case IntentStartGame:
		return "New Game"
	case IntentOptions:
		return "Options"
	case IntentQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Dispatch turns a menu intent into the action the machine performs.
// Options has no screen yet and leaves the menu in place.
func Dispatch(i Intent) Action {
	switch i {
	case IntentStartGame:
		return changeTo(StateGame)
	case IntentQuit:
		return actionQuit
	default:
		return actionContinue
	}
}
