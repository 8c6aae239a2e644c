package view

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"github.com/nstehr/vimy/vimy-viewer/camera"
	"github.com/nstehr/vimy/vimy-viewer/model"
)

type drawOp struct {
	kind  string // "clear", "rect", "text"
	rect  camera.Rect
	text  string
	size  float64
	color color.Color
}

// recordingCanvas captures draw calls; text is measured as half the font
// size per byte.
type recordingCanvas struct {
	w, h float64
	ops  []drawOp
}

func newCanvas() *recordingCanvas { return &recordingCanvas{w: 800, h: 600} }

func (c *recordingCanvas) Size() (float64, float64) { return c.w, c.h }

func (c *recordingCanvas) Clear(col color.Color) {
	c.ops = append(c.ops[:0], drawOp{kind: "clear", color: col})
}

func (c *recordingCanvas) FillRect(r camera.Rect, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: "rect", rect: r, color: col})
}

func (c *recordingCanvas) DrawText(s string, x, y, size float64, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: "text", text: s, rect: camera.Rect{X: x, Y: y}, size: size, color: col})
}

func (c *recordingCanvas) MeasureText(s string, size float64) (float64, float64) {
	return float64(len(s)) * size / 2, size
}

func (c *recordingCanvas) texts() []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.kind == "text" {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) findText(s string) (drawOp, bool) {
	for _, op := range c.texts() {
		if op.text == s {
			return op, true
		}
	}
	return drawOp{}, false
}

func (c *recordingCanvas) findRect(r camera.Rect) (drawOp, bool) {
	for _, op := range c.ops {
		if op.kind == "rect" && op.rect == r {
			return op, true
		}
	}
	return drawOp{}, false
}

// fakeClient is an in-memory remote.Client.
type fakeClient struct {
	mu          sync.Mutex
	objects     []model.ObjectSummary
	details     map[string]model.SimulatedObject
	info        model.ServerInfo
	bounds      model.WorldBounds
	listErr     error
	listCalls   int
	detailCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		objects: []model.ObjectSummary{{Name: "A", Owner: "P1", X: 10, Y: 20, Kind: model.KindHarvester}},
		details: map[string]model.SimulatedObject{
			"A": {Owner: "P1", Name: "A", Kind: model.KindHarvester, X: 10, Y: 20, CargoMax: 100, CargoCurrent: 40},
		},
		info:   model.ServerInfo{Name: "arena", Status: "running", TPS: 20},
		bounds: model.WorldBounds{Width: 2000, Height: 1500},
	}
}

func (f *fakeClient) ListObjects(ctx context.Context) ([]model.ObjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeClient) DescribeObject(ctx context.Context, name string) (model.SimulatedObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	obj, ok := f.details[name]
	if !ok {
		return model.SimulatedObject{}, errors.New("no such object")
	}
	return obj, nil
}

func (f *fakeClient) ServerInfo(ctx context.Context) (model.ServerInfo, error) {
	return f.info, nil
}

func (f *fakeClient) WorldBounds(ctx context.Context) (model.WorldBounds, error) {
	return f.bounds, nil
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() (list, detail int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.detailCalls
}
