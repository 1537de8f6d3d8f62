package edi

import (
	"strconv"
	"strings"
	"unicode"
)

// Direction is a cursor movement direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// InLinePosition names a position relative to the cursor's current line.
type InLinePosition int

const (
	PosStart InLinePosition = iota
	PosCharacterStart
	PosEnd
	PosCurrentWordEnd
	PosCurrentWordStart
)

// GlobalPosition names a position relative to the whole buffer.
type GlobalPosition int

const (
	GlobalStart GlobalPosition = iota
	GlobalEnd
)

// HighlightKind is the semantic class of a highlighted range, mapped to a
// color by the renderer.
type HighlightKind int

const (
	HighlightNone HighlightKind = iota
	HighlightKeyword
	HighlightOther
)

func (k HighlightKind) color() Color {
	switch k {
	case HighlightKeyword:
		return ColorMagenta
	case HighlightOther:
		return ColorRed
	default:
		return ColorWhite
	}
}

// Highlight is a half-open character range within one line, carrying the
// semantic kind the renderer should color it with. A line's highlight
// slice must be sorted by Start.
type Highlight struct {
	Start, End int
	Kind       HighlightKind
}

// Highlighter computes a buffer's highlight table, keyed by line number.
// The naive keyword-table implementation lives in highlight.go; the
// highlighting machinery here is domain logic, the keyword lists are data.
type Highlighter interface {
	Highlight(t *Tree) map[int][]Highlight
}

// FlushOptions configures one render pass.
type FlushOptions struct {
	Wrap        bool
	LineNumbers bool
	Statusline  bool
	ModeLabel   string
	Highlights  map[int][]Highlight
}

// Buffer owns one piece tree, a cursor offset, and viewport state. Line
// bookkeeping is always derived from the tree's cached newline metrics
// rather than maintained incrementally, so the cursor sitting on the open
// line after a trailing newline (which Lines yields no record for) never
// desynchronizes movement.
type Buffer struct {
	Inner        *Tree
	Dim          Dimensions
	CursorOffset int
	LineOffset   int

	Mode Mode
}

// Mode governs how input is interpreted.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeTerminal
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeTerminal:
		return "TERMINAL"
	default:
		return "?"
	}
}

// NewBuffer builds a buffer over an existing tree, sized for dim.
func NewBuffer(tree *Tree, dim Dimensions) *Buffer {
	return &Buffer{Inner: tree, Dim: dim}
}

// Write inserts ch at the cursor and advances the cursor by one character.
func (b *Buffer) Write(ch rune) {
	b.Inner.Insert(b.CursorOffset, string(ch))
	b.CursorOffset++
	if ch == '\n' {
		b.scrollToCursor()
	}
}

// Delete removes the character immediately before the cursor, if any, and
// returns it.
func (b *Buffer) Delete() (rune, bool) {
	if b.CursorOffset <= 0 {
		return 0, false
	}
	b.CursorOffset--
	r, _ := b.Inner.Get(b.CursorOffset)
	b.Inner.Delete(b.CursorOffset, b.CursorOffset+1)
	if r == '\n' {
		b.scrollToCursor()
	}
	return r, true
}

// currentLineInfo returns the record for the cursor's line. When the
// cursor sits on the open line after a trailing newline, Lines yields no
// record for it, so a synthetic empty one anchored at the end of content
// stands in.
func (b *Buffer) currentLineInfo() LineInfo {
	line := b.Inner.LineOfIndex(b.CursorOffset)
	if li, ok := b.Inner.LineInfo(line); ok {
		return li
	}
	return LineInfo{LineNumber: line, CharacterOffset: b.Inner.Len()}
}

// offsetFromLineStart returns the cursor's column within its line.
func (b *Buffer) offsetFromLineStart() int {
	return b.CursorOffset - b.currentLineInfo().CharacterOffset
}

// MoveCursor moves the cursor steps positions in the given direction.
// Horizontal moves clamp at the current line's bounds and never cross a
// newline; vertical moves preserve the column where the target line is
// long enough and clamp it otherwise.
func (b *Buffer) MoveCursor(dir Direction, steps int) {
	switch dir {
	case DirLeft:
		li := b.currentLineInfo()
		newOffset := b.CursorOffset - steps
		if newOffset < li.CharacterOffset {
			newOffset = li.CharacterOffset
		}
		b.CursorOffset = newOffset
	case DirRight:
		li := b.currentLineInfo()
		lineEnd := li.CharacterOffset + li.Length
		newOffset := b.CursorOffset + steps
		if newOffset > lineEnd {
			newOffset = lineEnd
		}
		b.CursorOffset = newOffset
	case DirUp:
		if b.CurrentLineNumber() == 0 || b.Inner.TotalLines() == 0 {
			b.CursorOffset = 0
			b.scrollToCursor()
			return
		}
		offs := b.offsetFromLineStart()
		target := b.CurrentLineNumber() - steps
		if target < 0 {
			target = 0
		}
		b.setCursorLine(target, offs)
	case DirDown:
		if b.Inner.TotalLines() == 0 {
			return
		}
		b.setCursorLine(b.CurrentLineNumber()+steps, b.offsetFromLineStart())
	}
}

// setCursorLine jumps to line, preserving offs characters from the line
// start where possible. A target past the newline count clamps to it, and
// a clamped target that still has no record (content ending in a newline)
// falls back one line, so vertical movement never dead-ends.
func (b *Buffer) setCursorLine(line, offs int) {
	if total := b.Inner.TotalLines(); line > total {
		line = total
	}
	li, ok := b.Inner.LineInfo(line)
	if !ok && line > 0 {
		li, ok = b.Inner.LineInfo(line - 1)
	}
	if !ok {
		return
	}
	if offs > li.Length {
		offs = li.Length
	}
	b.CursorOffset = li.CharacterOffset + offs
	b.scrollToCursor()
}

// scrollToCursor adjusts LineOffset just enough to keep the cursor's line
// visible.
func (b *Buffer) scrollToCursor() {
	line := b.CurrentLineNumber()
	if line < b.LineOffset {
		b.LineOffset = line
	}
	if line >= b.Dim.Height+b.LineOffset {
		b.LineOffset = line - b.Dim.Height + 1
	}
}

// CurrentLineNumber returns the line number containing the cursor.
func (b *Buffer) CurrentLineNumber() int {
	return b.Inner.LineOfIndex(b.CursorOffset)
}

type wordGroup int

const (
	wgWhitespace wordGroup = iota
	wgAlnum
	wgBracketPunct
	wgOther
)

const bracketPunct = "[](){}.,:;"

func classifyRune(r rune) wordGroup {
	switch {
	case unicode.IsSpace(r):
		return wgWhitespace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return wgAlnum
	case strings.ContainsRune(bracketPunct, r):
		return wgBracketPunct
	default:
		return wgOther
	}
}

// wordEndFrom returns the offset one past the end of the word containing or
// immediately following offset, wrapping to the next line at end-of-line.
func (b *Buffer) wordEndFrom(offset int) int {
	n := b.Inner.Len()
	if offset >= n {
		return n
	}
	r, ok := b.Inner.Get(offset)
	if !ok {
		return n
	}
	if r == '\n' {
		offset++
		r, ok = b.Inner.Get(offset)
		if !ok {
			return offset
		}
	}
	grp := classifyRune(r)
	if grp == wgBracketPunct {
		return offset + 1
	}
	i := offset + 1
	for {
		r, ok := b.Inner.Get(i)
		if !ok || r == '\n' || classifyRune(r) != grp {
			return i
		}
		i++
	}
}

// wordStartFrom returns the offset of the start of the word immediately
// preceding offset, wrapping to the previous line at start-of-line.
func (b *Buffer) wordStartFrom(offset int) int {
	if offset <= 0 {
		return 0
	}
	i := offset - 1
	r, ok := b.Inner.Get(i)
	if !ok {
		return 0
	}
	if r == '\n' {
		if i == 0 {
			return 0
		}
		i--
		r, ok = b.Inner.Get(i)
		if !ok {
			return 0
		}
	}
	grp := classifyRune(r)
	if grp == wgBracketPunct {
		return i
	}
	for i > 0 {
		r2, ok := b.Inner.Get(i - 1)
		if !ok || r2 == '\n' || classifyRune(r2) != grp {
			break
		}
		i--
	}
	return i
}

// MoveInLine moves the cursor to a position relative to its current line.
func (b *Buffer) MoveInLine(pos InLinePosition) {
	switch pos {
	case PosStart:
		b.CursorOffset = b.currentLineInfo().CharacterOffset
	case PosCharacterStart:
		li := b.currentLineInfo()
		sub := b.Inner.Substr(li.CharacterOffset, li.CharacterOffset+li.Length)
		n := 0
		for {
			r, ok := sub.Next()
			if !ok || !unicode.IsSpace(r) {
				break
			}
			n++
		}
		b.CursorOffset = li.CharacterOffset + n
	case PosEnd:
		li := b.currentLineInfo()
		b.CursorOffset = li.CharacterOffset + li.Length
	case PosCurrentWordEnd:
		b.CursorOffset = b.wordEndFrom(b.CursorOffset)
		b.scrollToCursor()
	case PosCurrentWordStart:
		b.CursorOffset = b.wordStartFrom(b.CursorOffset)
		b.scrollToCursor()
	}
}

// lastLine returns the number of the last line record, 0 for an empty
// tree. Content ending in a newline has an open empty line past it that
// the cursor can occupy, but global movement targets the last real record
// the way a reader counts lines.
func (b *Buffer) lastLine() int {
	n := b.Inner.Len()
	if n == 0 {
		return 0
	}
	return b.Inner.LineOfIndex(n - 1)
}

// MoveGlobal jumps to the start or end of the buffer, preserving the
// cursor's column where possible.
func (b *Buffer) MoveGlobal(pos GlobalPosition) {
	offs := b.offsetFromLineStart()
	switch pos {
	case GlobalStart:
		b.setCursorLine(0, offs)
	case GlobalEnd:
		b.setCursorLine(b.lastLine(), offs)
	}
}

// normalizeViewport clamps LineOffset to [CurrentLine-(height-1),
// CurrentLine] so the cursor's line is always visible.
func (b *Buffer) normalizeViewport(contentHeight int) {
	cur := b.CurrentLineNumber()
	lo := cur - (contentHeight - 1)
	if lo < 0 {
		lo = 0
	}
	if b.LineOffset < lo {
		b.LineOffset = lo
	}
	if b.LineOffset > cur {
		b.LineOffset = cur
	}
}

func highlightColorAt(hls []Highlight, idx int) (Color, []Highlight) {
	for len(hls) > 0 && hls[0].End <= idx {
		hls = hls[1:]
	}
	if len(hls) > 0 && hls[0].Start <= idx && idx < hls[0].End {
		return hls[0].Kind.color(), hls
	}
	return ColorWhite, hls
}

func writeGutterNumber(s Surface, lineNumber, row, gutterWidth int) {
	label := strconv.Itoa(lineNumber + 1)
	pad := gutterWidth - 1 - len(label)
	if pad < 0 {
		pad = 0
	}
	col := pad
	for _, ch := range label {
		s.Set(Position{Row: row, Col: col}, Cell{Char: ch, Fg: ColorDefault, Bg: ColorDefault})
		col++
	}
}

func drawStatusline(s Surface, modeLabel string) {
	s.Clear(ColorBlue)
	label := " [" + modeLabel + "]"
	for i, ch := range label {
		s.Set(Position{Row: 0, Col: i}, Cell{Char: ch, Fg: ColorWhite, Bg: ColorBlue})
	}
}

func screenPos(xPx, y, width int, wrap bool) (row, col int, visible bool) {
	if wrap {
		return y + xPx/width, xPx % width, true
	}
	if xPx >= width {
		return y, width - 1, false
	}
	return y, xPx, true
}

// Flush renders the buffer into s: an optional statusline strip at the
// bottom, an optional right-aligned line-number gutter on the left, then
// the content pane line by line from LineOffset, expanding tabs to four
// cells and coloring highlighted ranges.
func (b *Buffer) Flush(s Surface, opts FlushOptions) {
	dim := s.Dimensions()
	contentHeight := dim.Height
	if opts.Statusline {
		contentHeight--
	}
	if contentHeight < 1 {
		contentHeight = 1
	}
	b.normalizeViewport(contentHeight)

	s.Clear(ColorDefault)

	content := s
	if opts.Statusline {
		content = Bind(s, Position{Row: 0, Col: 0}, Dimensions{Width: dim.Width, Height: contentHeight})
		status := Bind(s, Position{Row: contentHeight, Col: 0}, Dimensions{Width: dim.Width, Height: 1})
		drawStatusline(status, opts.ModeLabel)
	}

	gutterWidth := 0
	if opts.LineNumbers {
		digits := len(strconv.Itoa(b.Inner.TotalLines()))
		gutterWidth = digits + 1
		if gutterWidth < 5 {
			gutterWidth = 5
		}
	}
	pane := content
	if gutterWidth > 0 {
		pane = Bind(content, Position{Row: 0, Col: gutterWidth}, Dimensions{Width: dim.Width - gutterWidth, Height: contentHeight})
	}
	paneWidth := pane.Dimensions().Width
	if paneWidth < 1 {
		paneWidth = 1
	}

	if b.Inner.Len() == 0 {
		if opts.LineNumbers {
			writeGutterNumber(content, 0, 0, gutterWidth)
		}
		pane.MoveCursor(Position{Row: 0, Col: 0})
		return
	}

	it := b.Inner.LinesFrom(b.LineOffset)
	y := 0
	foundCursor := false
	for y < contentHeight {
		li, ok := it.Next()
		if !ok {
			break
		}
		if opts.LineNumbers {
			writeGutterNumber(content, li.LineNumber, y, gutterWidth)
		}

		hls := opts.Highlights[li.LineNumber]
		if li.Length == 0 && li.CharacterOffset == b.CursorOffset {
			pane.MoveCursor(Position{Row: y, Col: 0})
			foundCursor = true
		}

		xPx := 0
		maxY := y
		runes := []rune(li.Contents)
		for i, c := range runes {
			absOffset := li.CharacterOffset + i
			width := 1
			isTab := c == '\t'
			if isTab {
				width = 4
			}
			color, rest := highlightColorAt(hls, i)
			hls = rest

			for w := 0; w < width; w++ {
				px := xPx + w
				row, col, visible := screenPos(px, y, paneWidth, opts.Wrap)
				if !visible {
					continue
				}
				ch := c
				if isTab {
					ch = ' '
				}
				pane.Set(Position{Row: row, Col: col}, Cell{Char: ch, Fg: color, Bg: ColorDefault})
				if row > maxY {
					maxY = row
				}
			}

			if b.CursorOffset == absOffset {
				row, col, _ := screenPos(xPx, y, paneWidth, opts.Wrap)
				pane.MoveCursor(Position{Row: row, Col: col})
				foundCursor = true
				if row > maxY {
					maxY = row
				}
			}

			xPx += width
		}

		if !foundCursor && b.CursorOffset == li.CharacterOffset+li.Length {
			row, col, _ := screenPos(xPx, y, paneWidth, opts.Wrap)
			pane.MoveCursor(Position{Row: row, Col: col})
			foundCursor = true
			if row > maxY {
				maxY = row
			}
		}

		y = maxY + 1
	}

	// A trailing newline opens an empty line no record is yielded for; if
	// the cursor sits there, park it at the start of the row after the
	// last drawn line.
	if !foundCursor && b.CursorOffset == b.Inner.Len() && y < contentHeight {
		pane.MoveCursor(Position{Row: y, Col: 0})
	}
}
