package camera

import (
	"image"
	"math"
	"math/rand"
	"testing"
)

func TestNewStartsUnzoomed(t *testing.T) {
	c := New(10, 20, 1000, 1000, 800, 600)
	if c.Zoom != 1.0 {
		t.Errorf("Zoom = %v, want 1.0", c.Zoom)
	}
	if c.X != 10 || c.Y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", c.X, c.Y)
	}
}

func TestPanLeftClampsToBorder(t *testing.T) {
	c := New(0, 0, 1000, 1000, 800, 600)
	c.Pan(-10000, 0)
	if c.X != -50.0 {
		t.Errorf("X = %v, want -50", c.X)
	}
}

func TestMoveHelpers(t *testing.T) {
	c := New(100, 100, 5000, 5000, 800, 600)

	c.MoveRight(0.1, true)
	if c.X != 200 {
		t.Errorf("after MoveRight X = %v, want 200", c.X)
	}
	c.MoveDown(0.05, true)
	if c.Y != 150 {
		t.Errorf("after MoveDown Y = %v, want 150", c.Y)
	}
	c.MoveLeft(0.1, false)
	c.MoveUp(0.1, false)
	if c.X != 200 || c.Y != 150 {
		t.Errorf("released keys moved camera to (%v, %v)", c.X, c.Y)
	}
	c.MoveUp(1, true)
	if c.Y != -Border {
		t.Errorf("after long MoveUp Y = %v, want %v", c.Y, -Border)
	}
}

func TestClampBottomAndRight(t *testing.T) {
	c := New(0, 0, 1000, 1000, 800, 600)
	c.Pan(10000, 10000)
	if want := 1000.0 - 600 + Border; c.Y != want {
		t.Errorf("Y = %v, want %v", c.Y, want)
	}
	if want := 1000.0 - 800 + Border; c.X != want {
		t.Errorf("X = %v, want %v", c.X, want)
	}
}

func TestRightClampUsesZoomedX(t *testing.T) {
	// At zoom 0.5 the zoomed x is compared against an unzoomed limit.
	c := New(0, 0, 2000, 2000, 800, 600)
	c.ZoomBy(-0.5)
	limit := 2000 - 800/0.5 + Border // 450

	c.X = 800 // zoomed 400 < 450: untouched
	c.Check()
	if c.X != 800 {
		t.Errorf("X = %v, want 800 left alone", c.X)
	}

	c.X = 1000 // zoomed 500 > 450: snapped to the unzoomed limit
	c.Check()
	if c.X != limit {
		t.Errorf("X = %v, want %v", c.X, limit)
	}
}

func TestZoomNeverBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New(0, 0, 1e6, 1e6, 800, 600)
	for i := 0; i < 1000; i++ {
		c.ZoomBy(rng.Float64()*4 - 3)
		if c.Zoom < ZoomMin {
			t.Fatalf("step %d: Zoom = %v, below %v", i, c.Zoom, ZoomMin)
		}
	}
	c.ZoomBy(-1e9)
	if c.Zoom != ZoomMin {
		t.Errorf("Zoom = %v after huge negative delta, want %v", c.Zoom, ZoomMin)
	}
}

func TestClampHoldsForPanSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bounds := []struct{ maxX, maxY float64 }{
		{1000, 1000}, {4000, 3000}, {800, 600}, {10000, 700},
	}
	for _, b := range bounds {
		c := New(0, 0, b.maxX, b.maxY, 800, 600)
		for i := 0; i < 2000; i++ {
			c.Pan(rng.Float64()*4000-2000, rng.Float64()*4000-2000)

			if c.Y > c.MaxY-c.Height/c.Zoom+Border {
				t.Fatalf("bounds %v step %d: Y %v past bottom", b, i, c.Y)
			}
			if c.X*c.Zoom > c.MaxX-c.Width/c.Zoom+Border {
				t.Fatalf("bounds %v step %d: X %v past right", b, i, c.X)
			}
			if c.Y < -Border || c.X < -Border {
				t.Fatalf("bounds %v step %d: (%v, %v) past top/left", b, i, c.X, c.Y)
			}
		}
	}
}

func TestResizeReclamps(t *testing.T) {
	c := New(0, 0, 5000, 5000, 800, 600)
	c.Pan(3000, 3000)
	c.Resize(1000, 1000)
	if c.MaxX != 1000 || c.MaxY != 1000 {
		t.Errorf("bounds = (%v, %v), want (1000, 1000)", c.MaxX, c.MaxY)
	}
	if c.X != 250 || c.Y != 450 {
		t.Errorf("position = (%v, %v), want (250, 450)", c.X, c.Y)
	}
}

func TestTransformRect(t *testing.T) {
	c := New(100, 50, 5000, 5000, 800, 600)
	c.ZoomBy(1) // zoom 2
	got := c.TransformRect(Rect{X: 110, Y: 60, W: 16, H: 16})
	want := Rect{X: 20, Y: 20, W: 32, H: 32}
	if got != want {
		t.Errorf("TransformRect = %+v, want %+v", got, want)
	}
}

func TestTransformPointTruncates(t *testing.T) {
	c := New(0, 0, 5000, 5000, 800, 600)
	c.ZoomBy(0.5) // zoom 1.5
	if got := c.TransformPoint(10.9, 3.3); got != image.Pt(16, 4) {
		t.Errorf("TransformPoint = %v, want (16,4)", got)
	}
}

func TestInverseRecoversRect(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const eps = 1e-9
	for i := 0; i < 500; i++ {
		c := &Camera{
			X:    rng.Float64()*2000 - 1000,
			Y:    rng.Float64()*2000 - 1000,
			Zoom: ZoomMin + rng.Float64()*20,
		}
		r := Rect{X: rng.Float64() * 1000, Y: rng.Float64() * 1000, W: rng.Float64() * 50, H: rng.Float64() * 50}
		back := c.InverseRect(c.TransformRect(r))

		scale := math.Max(1, math.Abs(c.X)+math.Abs(r.X)+math.Abs(c.Y)+math.Abs(r.Y))
		if math.Abs(back.X-r.X) > eps*scale || math.Abs(back.Y-r.Y) > eps*scale ||
			math.Abs(back.W-r.W) > eps*scale || math.Abs(back.H-r.H) > eps*scale {
			t.Fatalf("zoom %v: %+v -> %+v", c.Zoom, r, back)
		}

		wx, wy := c.ScreenToWorld((r.X-c.X)*c.Zoom, (r.Y-c.Y)*c.Zoom)
		if math.Abs(wx-r.X) > eps*scale || math.Abs(wy-r.Y) > eps*scale {
			t.Fatalf("ScreenToWorld gave (%v, %v), want (%v, %v)", wx, wy, r.X, r.Y)
		}
	}
}

func TestHandleInput(t *testing.T) {
	c := New(500, 500, 5000, 5000, 800, 600)
	c.HandleInput(Controls{Right: true, Down: true}, 0.1)
	if c.X != 600 || c.Y != 600 {
		t.Errorf("position = (%v, %v), want (600, 600)", c.X, c.Y)
	}
	c.HandleInput(Controls{ZoomIn: true}, 0.01)
	if math.Abs(c.Zoom-1.1) > 1e-12 {
		t.Errorf("Zoom = %v, want 1.1", c.Zoom)
	}
	c.HandleInput(Controls{Wheel: -1}, 0.01)
	if math.Abs(c.Zoom-1.0) > 1e-12 {
		t.Errorf("Zoom = %v, want 1.0", c.Zoom)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	if !r.Contains(10, 10) || !r.Contains(15, 15) || r.Contains(9.9, 12) || r.Contains(12, 15.1) {
		t.Errorf("Contains gave wrong answers for %+v", r)
	}
}
