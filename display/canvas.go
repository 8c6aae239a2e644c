package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/nstehr/vimy/vimy-viewer/camera"
)

type opKind uint8

const (
	opClear opKind = iota
	opRect
	opText
)

type drawOp struct {
	kind  opKind
	rect  camera.Rect
	text  string
	size  float64
	color color.Color
}

// frameCanvas records the draw calls a view makes during Update so Draw
// can replay them onto the screen image. Ebiten calls both on the same
// goroutine.
type frameCanvas struct {
	w, h  float64
	ops   []drawOp
	src   *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

func newFrameCanvas(src *text.GoTextFaceSource, w, h int) *frameCanvas {
	return &frameCanvas{
		w:     float64(w),
		h:     float64(h),
		src:   src,
		faces: make(map[float64]*text.GoTextFace),
	}
}

func (c *frameCanvas) resize(w, h int) {
	c.w, c.h = float64(w), float64(h)
}

func (c *frameCanvas) Size() (float64, float64) { return c.w, c.h }

// Clear drops everything recorded so far this frame.
func (c *frameCanvas) Clear(col color.Color) {
	c.ops = append(c.ops[:0], drawOp{kind: opClear, color: col})
}

func (c *frameCanvas) FillRect(r camera.Rect, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: opRect, rect: r, color: col})
}

func (c *frameCanvas) DrawText(s string, x, y, size float64, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: opText, rect: camera.Rect{X: x, Y: y}, text: s, size: size, color: col})
}

func (c *frameCanvas) MeasureText(s string, size float64) (float64, float64) {
	return text.Measure(s, c.face(size), 0)
}

func (c *frameCanvas) face(size float64) *text.GoTextFace {
	f, ok := c.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: c.src, Size: size}
		c.faces[size] = f
	}
	return f
}

func (c *frameCanvas) replay(screen *ebiten.Image) {
	for _, op := range c.ops {
		switch op.kind {
		case opClear:
			screen.Fill(op.color)
		case opRect:
			r := op.rect
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), op.color, false)
		case opText:
			do := &text.DrawOptions{}
			do.GeoM.Translate(op.rect.X, op.rect.Y)
			do.ColorScale.ScaleWithColor(op.color)
			text.Draw(screen, op.text, c.face(op.size), do)
		}
	}
}
