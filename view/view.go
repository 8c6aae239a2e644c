// Package view holds the viewer's screens and the state machine that moves
// between them. Screens never touch the window directly: they read an Input
// snapshot and issue draw calls against a Canvas once per frame.
package view

import (
	"image"
	"image/color"

	"github.com/nstehr/vimy/vimy-viewer/camera"
)

// Canvas is the drawing surface a screen renders onto. Coordinates are
// screen pixels with the origin at the top-left.
type Canvas interface {
	Size() (w, h float64)
	Clear(c color.Color)
	FillRect(r camera.Rect, c color.Color)
	DrawText(s string, x, y, size float64, c color.Color)
	MeasureText(s string, size float64) (w, h float64)
}

// Input is one frame of user input. Directional and zoom flags are held
// state; menu, confirm and escape flags fire only on the frame the key went
// down.
type Input struct {
	Up, Down, Left, Right bool
	ZoomIn, ZoomOut       bool
	Wheel                 float64

	MenuUp, MenuDown bool
	Confirm          bool
	Escape           bool
	Quit             bool // window close requested

	Click *image.Point // primary button press position, nil when none

	FPS float64
}

func (in Input) QuitRequested() bool { return in.Quit || in.Escape }

func (in Input) Controls() camera.Controls {
	return camera.Controls{
		Up:      in.Up,
		Down:    in.Down,
		Left:    in.Left,
		Right:   in.Right,
		ZoomIn:  in.ZoomIn,
		ZoomOut: in.ZoomOut,
		Wheel:   in.Wheel,
	}
}

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorLabel      = color.RGBA{0, 0, 255, 255}
	colorOverlay    = color.RGBA{220, 220, 220, 255}
	colorPanel      = color.RGBA{20, 20, 40, 200}
	colorWarn       = color.RGBA{255, 160, 0, 255}
)
