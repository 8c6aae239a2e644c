package view

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/camera"
	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/network"
	"github.com/nstehr/vimy/vimy-viewer/remote"
	"github.com/nstehr/vimy/vimy-viewer/rules"
)

const (
	// EntitySize is the side of an entity's square in world units.
	EntitySize = 16.0

	labelSize   = 16.0
	overlaySize = 16.0
	lineGap     = 4.0
	panelPad    = 8.0
)

// DefaultWorld is used for clamping until the server reports its bounds.
var DefaultWorld = model.WorldBounds{Width: 1000, Height: 1000}

// GameView renders the live world. It owns its camera and synchronizer and
// must be closed when left.
type GameView struct {
	camera *camera.Camera
	sync   *network.Synchronizer
	client remote.Client
	styles *rules.Engine
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Written by background fetches, read by the render goroutine.
	info      atomic.Pointer[model.ServerInfo]
	bounds    atomic.Pointer[model.WorldBounds]
	panel     atomic.Pointer[detailPanel]
	detailSeq atomic.Uint64

	world model.WorldBounds // render goroutine only
}

func NewGameView(deps Deps) *GameView {
	world := deps.World
	if world.Width <= 0 || world.Height <= 0 {
		world = DefaultWorld
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &GameView{
		camera: camera.New(0, 0, world.Width, world.Height, 0, 0),
		sync:   network.NewSynchronizer(deps.Client, network.NewRegistry(), deps.Sync),
		client: deps.Client,
		styles: deps.Styles,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		world:  world,
	}
	g.fetchWorld()
	slog.Info("game view started", "world", fmt.Sprintf("%gx%g", world.Width, world.Height))
	return g
}

func (g *GameView) Camera() *camera.Camera { return g.camera }
func (g *GameView) Synchronizer() *network.Synchronizer { return g.sync }

// Render runs one frame: input, polling, entities, click inspection, then
// overlays. It never blocks on the network.
func (g *GameView) Render(elapsed float64, in Input, c Canvas) Action {
	if in.QuitRequested() {
		return actionQuit
	}

	w, h := c.Size()
	if w != g.camera.Width || h != g.camera.Height {
		g.camera.SetViewport(w, h)
	}
	if b := g.bounds.Swap(nil); b != nil {
		g.world = *b
		g.camera.Resize(b.Width, b.Height)
		slog.Info("world bounds applied", "width", b.Width, "height", b.Height)
	}

	g.camera.HandleInput(in.Controls(), elapsed)
	g.sync.Tick(elapsed)

	snap := g.sync.Snapshot()

	c.Clear(colorBackground)
	drawn := g.drawEntities(c, snap.Objects, w, h)

	if in.Click != nil {
		g.inspect(*in.Click, snap.Objects)
	}

	g.drawStatus(c, in.FPS, snap, drawn)
	g.drawPanel(c, w, h)
	return actionContinue
}

// Close stops polling and any outstanding background fetch. Late results
// are dropped.
func (g *GameView) Close() {
	g.cancel()
	g.sync.Close()
}

// Wait blocks until background fetches and polls have returned.
func (g *GameView) Wait() {
	g.wg.Wait()
	g.sync.Wait()
}

func (g *GameView) entityRect(o model.ObjectSummary) camera.Rect {
	return g.camera.TransformRect(camera.Rect{X: o.X, Y: o.Y, W: EntitySize, H: EntitySize})
}

func (g *GameView) drawEntities(c Canvas, objs []model.ObjectSummary, w, h float64) int {
	drawn := 0
	for _, o := range objs {
		style := g.style(o)
		if style.Hidden {
			continue
		}
		r := g.entityRect(o)
		if !onScreen(r, w, h) {
			continue
		}
		c.FillRect(r, style.Color)
		p := g.camera.TransformPoint(o.X, o.Y+EntitySize)
		c.DrawText(o.Name, float64(p.X), float64(p.Y)+lineGap, labelSize, colorLabel)
		drawn++
	}
	return drawn
}

func (g *GameView) style(o model.ObjectSummary) rules.Style {
	if g.styles == nil {
		return rules.Style{Color: rules.KindColor(o.Kind)}
	}
	return g.styles.Style(o)
}

// hitTest returns the topmost visible entity whose screen rectangle holds p.
func (g *GameView) hitTest(p image.Point, objs []model.ObjectSummary) (model.ObjectSummary, bool) {
	x, y := float64(p.X), float64(p.Y)
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		if g.style(o).Hidden {
			continue
		}
		if g.entityRect(o).Contains(x, y) {
			return o, true
		}
	}
	return model.ObjectSummary{}, false
}

func onScreen(r camera.Rect, w, h float64) bool {
	return r.X+r.W >= 0 && r.Y+r.H >= 0 && r.X <= w && r.Y <= h
}

func rect(x, y, w, h float64) camera.Rect {
	return camera.Rect{X: x, Y: y, W: w, H: h}
}
