package view

import (
	"image/color"
	"math"
)

const (
	menuLabelHeight = 50.0
	menuBorder      = 3.0
	menuIdleSize    = 32.0
	menuHoverSize   = 38.0
)

var (
	menuIdleColor  = color.RGBA{220, 220, 220, 255}
	menuHoverColor = color.RGBA{255, 255, 255, 255}
	menuFrameColor = color.RGBA{70, 15, 70, 255}
	menuBoxColor   = color.RGBA{140, 30, 140, 255}
)

// DefaultMenu is the main menu's entries, top to bottom.
var DefaultMenu = []Intent{IntentStartGame, IntentOptions, IntentQuit}

// MainMenu is the start screen: a list of intents with one selected.
type MainMenu struct {
	items    []Intent
	selected int
	elapsed  float64 // animation clock
}

func NewMainMenu(items []Intent) *MainMenu {
	if len(items) == 0 {
		items = DefaultMenu
	}
	return &MainMenu{items: items}
}

func (m *MainMenu) Selected() int { return m.selected }

// Render handles one frame of menu input and draws the menu. Quit wins over
// everything else; confirm acts on the selection as it stood at the start
// of the frame.
func (m *MainMenu) Render(elapsed float64, in Input, c Canvas) Action {
	if in.QuitRequested() {
		return actionQuit
	}
	if in.Confirm {
		return Dispatch(m.items[m.selected])
	}

	n := len(m.items)
	if in.MenuUp {
		m.selected = (m.selected - 1 + n) % n
	}
	if in.MenuDown {
		m.selected = (m.selected + 1) % n
	}

	m.elapsed += elapsed * 4.0
	m.draw(c)
	return actionContinue
}

func (m *MainMenu) draw(c Canvas) {
	c.Clear(colorBackground)

	winW, winH := c.Size()
	boxW := 360.0 + 5.0*math.Sin(m.elapsed)
	boxH := float64(len(m.items)) * menuLabelHeight
	marginH := 10.0 + 5.0*math.Sin(m.elapsed+1.0)

	c.FillRect(rect(
		(winW-boxW)/2-menuBorder,
		(winH-boxH)/2-marginH-menuBorder,
		boxW+menuBorder*2,
		boxH+menuBorder*2+marginH*2,
	), menuFrameColor)
	c.FillRect(rect((winW-boxW)/2, (winH-boxH)/2-marginH, boxW, boxH+marginH*2), menuBoxColor)

	for i, item := range m.items {
		size, col := menuIdleSize, menuIdleColor
		if i == m.selected {
			size, col = menuHoverSize, menuHoverColor
		}
		label := item.String()
		w, h := c.MeasureText(label, size)
		y := (winH-boxH+menuLabelHeight-h)/2 + menuLabelHeight*float64(i)
		c.DrawText(label, (winW-w)/2, y, size, col)
	}
}
