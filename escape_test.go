package edi

import "testing"

func TestEscMoveToIsOneBased(t *testing.T) {
	if got, want := escMoveTo(0, 0), "\x1b[1;1H"; got != want {
		t.Errorf("escMoveTo(0,0) = %q, want %q", got, want)
	}
	if got, want := escMoveTo(4, 9), "\x1b[5;10H"; got != want {
		t.Errorf("escMoveTo(4,9) = %q, want %q", got, want)
	}
}

func TestEscColorSequences(t *testing.T) {
	if got, want := escSetFg(ColorMagenta), "\x1b[35m"; got != want {
		t.Errorf("escSetFg(magenta) = %q, want %q", got, want)
	}
	if got, want := escSetBg(ColorBlue), "\x1b[44m"; got != want {
		t.Errorf("escSetBg(blue) = %q, want %q", got, want)
	}
	if got, want := escSetFg(ColorDefault), "\x1b[39m"; got != want {
		t.Errorf("escSetFg(default) = %q, want %q", got, want)
	}
	if got, want := escSetBg(ColorDefault), "\x1b[49m"; got != want {
		t.Errorf("escSetBg(default) = %q, want %q", got, want)
	}
}

func TestEscapeBuilderSkipsRedundantMovesAndColors(t *testing.T) {
	eb := &escapeBuilder{}
	eb.moveIfNeeded(0, 0)
	eb.fgIfNeeded(ColorWhite)
	eb.writeCell(Cell{Char: 'a'})
	eb.advance()

	before := len(eb.String())
	// Next cell is the immediate successor with the same color: neither a
	// cursor move nor a color prefix may be emitted.
	eb.moveIfNeeded(0, 1)
	eb.fgIfNeeded(ColorWhite)
	eb.writeCell(Cell{Char: 'b'})
	eb.advance()
	if got := len(eb.String()) - before; got != 1 {
		t.Errorf("successor cell emitted %d bytes, want 1 (just the char)", got)
	}

	// A gap forces a move; a color change forces a prefix.
	eb.moveIfNeeded(1, 0)
	eb.fgIfNeeded(ColorRed)
	eb.writeCell(Cell{Char: 'c'})
	out := eb.String()
	if want := "\x1b[2;1H\x1b[31mc"; out[len(out)-len(want):] != want {
		t.Errorf("gap+color tail = %q, want %q", out[len(out)-len(want):], want)
	}
}
