package edi

import "testing"

func TestGridSetAndRenderDiff(t *testing.T) {
	g := NewGrid(Dimensions{Width: 5, Height: 2})
	g.Set(Position{Row: 0, Col: 0}, Cell{Char: 'a'})

	var out1 testWriter
	if err := g.Render(&out1); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(out1.data) == 0 {
		t.Fatalf("Render() wrote nothing for a changed cell")
	}

	var out2 testWriter
	if err := g.Render(&out2); err != nil {
		t.Fatalf("second Render() error: %v", err)
	}
	if len(out2.data) != 0 {
		t.Errorf("Render() with no changes since last call wrote %d bytes, want 0", len(out2.data))
	}
}

func TestRectBindClampsToRemainder(t *testing.T) {
	g := NewGrid(Dimensions{Width: 10, Height: 10})
	r := Bind(g, Position{Row: 2, Col: 2}, Dimensions{Width: 20, Height: 20})
	dim := r.Dimensions()
	if dim.Width != 8 || dim.Height != 8 {
		t.Fatalf("Bind clamped dimensions = %+v, want {8 8}", dim)
	}
}

func TestRectSetTranslatesCoordinates(t *testing.T) {
	g := NewGrid(Dimensions{Width: 10, Height: 10})
	r := Bind(g, Position{Row: 3, Col: 4}, Dimensions{Width: 4, Height: 4})
	r.Set(Position{Row: 0, Col: 0}, Cell{Char: 'x'})

	idx, ok := g.index(Position{Row: 3, Col: 4})
	if !ok {
		t.Fatalf("expected translated position to be in bounds")
	}
	if g.back[idx].Char != 'x' {
		t.Errorf("Rect.Set did not translate into the underlying grid: got %q", g.back[idx].Char)
	}
}

func TestRectSetOutOfBoundsIsDropped(t *testing.T) {
	g := NewGrid(Dimensions{Width: 10, Height: 10})
	r := Bind(g, Position{Row: 8, Col: 8}, Dimensions{Width: 4, Height: 4})
	// Clamped to 2x2; writing at (3,3) within the rect's nominal size is
	// out of the clamped bounds and must be silently dropped.
	r.Set(Position{Row: 3, Col: 3}, Cell{Char: 'z'})

	for i, c := range g.back {
		if c.Char == 'z' {
			t.Fatalf("out-of-bounds Rect.Set wrote into grid cell %d", i)
		}
	}
}

type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
