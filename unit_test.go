package edi

import "testing"

func TestUnitResolve(t *testing.T) {
	dim := Dimensions{Width: 80, Height: 24}
	cases := []struct {
		u    Unit
		want int
	}{
		{Cells(7), 7},
		{Zero(), 0},
		{WidthRatio(0.5), 40},
		{HeightRatio(0.5), 12},
		{FullWidth(), 80},
		{FullHeight(), 24},
	}
	for _, c := range cases {
		if got := c.u.Resolve(dim); got != c.want {
			t.Errorf("Resolve(%+v) = %d, want %d", c.u, got, c.want)
		}
	}
}

func TestVec2Resolution(t *testing.T) {
	dim := Dimensions{Width: 80, Height: 24}
	size := Vec2{X: FullWidth(), Y: Cells(1)}
	if got := size.ResolveDimensions(dim); got != (Dimensions{Width: 80, Height: 1}) {
		t.Errorf("ResolveDimensions = %+v", got)
	}
	offset := Vec2{X: Zero(), Y: Cells(23)}
	if got := offset.ResolvePosition(dim); got != (Position{Row: 23, Col: 0}) {
		t.Errorf("ResolvePosition = %+v", got)
	}
}
