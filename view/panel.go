package view

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/network"
	"github.com/nstehr/vimy/vimy-viewer/remote"
)

// detailPanel is the inspection panel's content for one entity.
type detailPanel struct {
	name    string
	lines   []string
	err     string
	loading bool
}

func (p *detailPanel) text() []string {
	switch {
	case p.loading:
		return []string{p.name + ": loading..."}
	case p.err != "":
		return []string{p.name + ": " + p.err}
	default:
		return p.lines
	}
}

// inspect hit-tests a click. A hit starts a detail query off the render
// goroutine; a miss clears the panel. Only the newest query may publish.
func (g *GameView) inspect(p image.Point, objs []model.ObjectSummary) {
	hit, ok := g.hitTest(p, objs)
	seq := g.detailSeq.Add(1)
	if !ok {
		g.panel.Store(nil)
		return
	}

	g.panel.Store(&detailPanel{name: hit.Name, loading: true})
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		obj, err := g.client.DescribeObject(g.ctx, hit.Name)
		if g.detailSeq.Load() != seq || g.ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("describe object failed", "name", hit.Name, "error", err)
			g.panel.Store(&detailPanel{name: hit.Name, err: describeError(err)})
			return
		}
		if verr := obj.Validate(); verr != nil {
			slog.Debug("object failed validation", "name", obj.Name, "error", verr)
		}
		fields := obj.Fields()
		lines := make([]string, len(fields))
		for i, f := range fields {
			lines[i] = f.String()
		}
		g.panel.Store(&detailPanel{name: obj.Name, lines: lines})
	}()
}

func describeError(err error) string {
	var te *remote.TransportError
	var de *model.DecodeError
	switch {
	case errors.As(err, &te) && te.Timeout():
		return "timed out"
	case errors.As(err, &te) && te.Status != 0:
		return fmt.Sprintf("server returned %d", te.Status)
	case errors.As(err, &de):
		return "bad response"
	default:
		return "unavailable"
	}
}

// fetchWorld asks the server for its metadata and bounds once, in the
// background. Failures are logged and the defaults stay in place.
func (g *GameView) fetchWorld() {
	if g.client == nil {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if info, err := g.client.ServerInfo(g.ctx); err != nil {
			slog.Warn("server info unavailable", "error", err)
		} else {
			g.info.Store(&info)
			slog.Info("connected to server", "name", info.Name, "status", info.Status, "tps", info.TPS)
		}

		b, err := g.client.WorldBounds(g.ctx)
		switch {
		case err != nil:
			slog.Warn("world bounds unavailable", "error", err)
		case b.Width <= 0 || b.Height <= 0:
			slog.Warn("ignoring empty world bounds", "width", b.Width, "height", b.Height)
		default:
			g.bounds.Store(&b)
		}
	}()
}

// statusLines is the top overlay's text.
func (g *GameView) statusLines(fps float64, snap network.Snapshot, drawn int) []string {
	server := "server: connecting"
	if info := g.info.Load(); info != nil {
		server = fmt.Sprintf("server: %s (%s, %d tps)", info.Name, info.Status, info.TPS)
	}

	age := "never"
	if snap.Version > 0 {
		age = snap.Age(g.now()).Round(100 * time.Millisecond).String()
	}
	st := g.sync.Stats()

	lines := []string{
		fmt.Sprintf("FPS: %.0f", fps),
		server,
		fmt.Sprintf("entities: %d (%d drawn)  updated: %s", len(snap.Objects), drawn, age),
		fmt.Sprintf("polls: %d ok, %d failed, %d dropped", st.Polls, st.Failures, st.Dropped),
	}
	if st.Stale && st.LastError != "" {
		lines = append(lines, "stale: "+st.LastError)
	}
	return lines
}

func (g *GameView) drawStatus(c Canvas, fps float64, snap network.Snapshot, drawn int) {
	stale := g.sync.Stats().Stale
	y := panelPad
	for _, line := range g.statusLines(fps, snap, drawn) {
		col := colorOverlay
		if stale && strings.HasPrefix(line, "stale:") {
			col = colorWarn
		}
		c.DrawText(line, panelPad, y, overlaySize, col)
		_, h := c.MeasureText(line, overlaySize)
		y += h + lineGap
	}
}

// drawPanel draws the detail panel anchored to the bottom-left corner.
func (g *GameView) drawPanel(c Canvas, _, h float64) {
	p := g.panel.Load()
	if p == nil {
		return
	}
	lines := p.text()

	var maxW, total float64
	heights := make([]float64, len(lines))
	for i, line := range lines {
		lw, lh := c.MeasureText(line, overlaySize)
		maxW = max(maxW, lw)
		heights[i] = lh
		total += lh + lineGap
	}

	top := h - total - panelPad*2
	c.FillRect(rect(0, top, maxW+panelPad*2, total+panelPad*2), colorPanel)
	y := top + panelPad
	for i, line := range lines {
		c.DrawText(line, panelPad, y, overlaySize, colorOverlay)
		y += heights[i] + lineGap
	}
}
