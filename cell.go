package edi

// Cell is a single visible grid position: a character plus foreground and
// background color tags.
type Cell struct {
	Char rune
	Fg   Color
	Bg   Color
}

// NewCell returns a cell holding a space character with default colors.
func NewCell() Cell {
	return Cell{Char: ' ', Fg: ColorDefault, Bg: ColorDefault}
}
