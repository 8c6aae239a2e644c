// Package display runs the viewer inside an ebiten window. It turns
// keyboard and mouse state into view.Input each tick and paints whatever
// the active view drew.
package display

import (
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nstehr/vimy/vimy-viewer/view"
)

// Screen is the state machine driven once per tick. *view.Machine
// implements it.
type Screen interface {
	Frame(elapsed float64, in view.Input, c view.Canvas) bool
	Close()
}

type Options struct {
	Title         string
	Width, Height int
	FontPath      string // empty uses the bundled Go font
}

// Game adapts a Screen to ebiten.Game.
type Game struct {
	screen Screen
	canvas *frameCanvas
	opts   Options
	last   time.Time
}

// New loads the font up front so a bad font fails startup rather than the
// first frame.
func New(screen Screen, opts Options) (*Game, error) {
	if opts.Title == "" {
		opts.Title = "vimy viewer"
	}
	src, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return &Game{
		screen: screen,
		canvas: newFrameCanvas(src, opts.Width, opts.Height),
		opts:   opts,
	}, nil
}

func (g *Game) Update() error {
	now := time.Now()
	var elapsed float64
	if !g.last.IsZero() {
		elapsed = now.Sub(g.last).Seconds()
	}
	g.last = now

	if !g.screen.Frame(elapsed, readInput(), g.canvas) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.replay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.canvas.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until the screen quits or the window is
// closed. The screen is closed on return.
func Run(g *Game) error {
	defer g.screen.Close()

	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	slog.Info("opening window", "width", g.opts.Width, "height", g.opts.Height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	slog.Info("window closed")
	return nil
}

func readInput() view.Input {
	in := view.Input{
		Up:      ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:    ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		ZoomIn:  ebiten.IsKeyPressed(ebiten.KeyA),
		ZoomOut: ebiten.IsKeyPressed(ebiten.KeyZ),

		MenuUp:   inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		MenuDown: inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		Confirm:  inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		Escape:   inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Quit:     ebiten.IsWindowBeingClosed(),

		FPS: ebiten.ActualFPS(),
	}
	_, in.Wheel = ebiten.Wheel()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.Click = &image.Point{X: x, Y: y}
	}
	return in
}
