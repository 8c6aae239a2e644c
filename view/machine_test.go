package view

import (
	"testing"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/network"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine(Deps{Client: newFakeClient(), Sync: network.Config{Interval: time.Second}})
	t.Cleanup(func() {
		if g := m.game; g != nil {
			g.Close()
			g.Wait()
		}
		m.Close()
	})
	return m
}

func TestMachineStartsInMenu(t *testing.T) {
	m := newTestMachine(t)
	if m.State() != StateMainMenu {
		t.Errorf("state = %v, want MainMenu", m.State())
	}
	if m.Game() != nil {
		t.Error("game view exists before starting")
	}
}

func TestMachineEntersGame(t *testing.T) {
	m := newTestMachine(t)
	c := newCanvas()

	if !m.Frame(0.016, Input{Confirm: true}, c) {
		t.Fatal("machine stopped on New Game")
	}
	if m.State() != StateGame || m.Game() == nil {
		t.Fatalf("state = %v, want GameView", m.State())
	}
	if !m.Frame(0.016, Input{}, c) {
		t.Fatal("game view stopped without quit")
	}
}

func TestMachineOptionsStaysInMenu(t *testing.T) {
	m := newTestMachine(t)
	c := newCanvas()
	m.Frame(0.016, Input{MenuDown: true}, c)
	if !m.Frame(0.016, Input{Confirm: true}, c) {
		t.Fatal("machine stopped on Options")
	}
	if m.State() != StateMainMenu {
		t.Errorf("state = %v, want MainMenu", m.State())
	}
}

func TestMachineQuit(t *testing.T) {
	tests := []struct {
		name   string
		frames []Input
	}{
		{"escape in menu", []Input{{Escape: true}}},
		{"quit item", []Input{{MenuUp: true}, {Confirm: true}}},
		{"escape in game", []Input{{Confirm: true}, {Escape: true}}},
		{"window close in game", []Input{{Confirm: true}, {Quit: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			c := newCanvas()
			last := len(tt.frames) - 1
			for i, in := range tt.frames {
				running := m.Frame(0.016, in, c)
				if i < last && !running {
					t.Fatalf("stopped early on frame %d", i)
				}
				if i == last && running {
					t.Fatal("still running after quit")
				}
			}
			if m.Frame(0.016, Input{}, c) {
				t.Error("machine ran again after quitting")
			}
			if m.Game() != nil {
				t.Error("game view not released")
			}
		})
	}
}

func TestMachineIgnoresUnknownState(t *testing.T) {
	m := newTestMachine(t)
	m.enter(StateKind(9))
	if m.State() != StateMainMenu {
		t.Errorf("state = %v, want MainMenu", m.State())
	}
}

func TestStateKindString(t *testing.T) {
	if StateGame.String() != "GameView" || StateKind(7).String() != "StateKind(7)" {
		t.Errorf("unexpected names: %v, %v", StateGame, StateKind(7))
	}
}
