package edi

import "io"

// BundleID uniquely identifies a bundle across the process lifetime. It is
// two-part: a brand shared by one EditorState instance plus a local
// counter, so ids minted by distinct editors never collide and ids are
// never reused once minted.
type BundleID struct {
	brand int
	local int
}

var nextBrand int

func newBrand() int {
	b := nextBrand
	nextBrand++
	return b
}

// brandTag mints successive BundleIDs sharing one brand.
type brandTag struct {
	brand int
	next  int
}

func newBrandTag() *brandTag {
	return &brandTag{brand: newBrand()}
}

func (t *brandTag) childID() BundleID {
	id := BundleID{brand: t.brand, local: t.next}
	t.next++
	return id
}

// SelectorKind tags the variant of a Selector.
type SelectorKind int

const (
	SelectorFirst SelectorKind = iota
	SelectorActive
	SelectorNth
	SelectorWithID
)

// Selector abstractly references one bundle in an EditorState. See
// GLOSSARY.
type Selector struct {
	Kind SelectorKind
	N    int
	ID   BundleID
}

func SelFirst() Selector             { return Selector{Kind: SelectorFirst} }
func SelActive() Selector            { return Selector{Kind: SelectorActive} }
func SelNth(n int) Selector          { return Selector{Kind: SelectorNth, N: n} }
func SelWithID(id BundleID) Selector { return Selector{Kind: SelectorWithID, ID: id} }

// BufferMetaFlags is a small flag set carried by a bundle's metadata.
// Currently holds only IsTerminalPrompt.
type BufferMetaFlags struct {
	IsTerminalPrompt bool
}

// BufferMeta holds a bundle's render options, file identity, and layout,
// everything a Buffer itself does not own.
type BufferMeta struct {
	Wrap        bool
	LineNumbers bool
	Statusline  bool
	Highlights  map[int][]Highlight

	Filepath string
	Filetype string

	Size   Vec2
	Offset Vec2

	Flags BufferMetaFlags
}

// NewBufferMeta returns metadata with the usual file-buffer defaults: full
// width/height, no offset, word wrap, line numbers and statusline on.
func NewBufferMeta() BufferMeta {
	return BufferMeta{
		Wrap:        true,
		LineNumbers: true,
		Statusline:  true,
		Size:        Vec2{X: FullWidth(), Y: FullHeight()},
		Offset:      Vec2{X: Zero(), Y: Zero()},
	}
}

// FlushOptions builds the FlushOptions for one render pass of buf against
// this metadata.
func (m *BufferMeta) FlushOptions(buf *Buffer) FlushOptions {
	return FlushOptions{
		Wrap:        m.Wrap,
		LineNumbers: m.LineNumbers,
		Statusline:  m.Statusline,
		ModeLabel:   buf.Mode.String(),
		Highlights:  m.Highlights,
	}
}

// Bundle is {id, position, buffer, meta}: the unit the editor stores per
// open view. position 0 marks the active bundle. See GLOSSARY.
type Bundle struct {
	id       BundleID
	position int
	Buffer   *Buffer
	Meta     BufferMeta
}

func (b *Bundle) ID() BundleID   { return b.id }
func (b *Bundle) Position() int  { return b.position }
func (b *Bundle) IsActive() bool { return b.position == 0 }

// EditorState is an ordered collection of bundles with stable identifiers:
// a position-ordered slice of bundle pointers plus an id-to-index map.
// Positions always form a dense 0..N-1 permutation mirroring the slice.
type EditorState struct {
	tag    *brandTag
	order  []*Bundle
	byID   map[BundleID]int
	Mapper *InputMapper
	Dim    Dimensions // current window/terminal dimensions

	Window *Grid     // the screen surface the draw handler composes into
	Out    io.Writer // the terminal output stream; written only from the main thread
}

// NewEditorState returns an empty editor state sized to dim, with a fresh
// double-buffered Grid bound to it.
func NewEditorState(dim Dimensions, out io.Writer) *EditorState {
	return &EditorState{
		tag:    newBrandTag(),
		byID:   make(map[BundleID]int),
		Mapper: NewInputMapper(),
		Dim:    dim,
		Window: NewGrid(dim),
		Out:    out,
	}
}

// OpenFile loads contents, the already-read text of path, into a fresh
// bundle at the back of the order, inferring filetype from path's
// extension. It does not touch the filesystem.
func (s *EditorState) OpenFile(path string, contents string) BundleID {
	tree := NewTree(contents)
	buf := NewBuffer(tree, s.Dim)
	meta := NewBufferMeta()
	meta.LineNumbers = true
	meta.Filepath = path
	meta.Filetype = filetypeFromExtension(path)
	if hl := NewFiletypeHighlighter(meta.Filetype); hl != nil {
		meta.Highlights = hl.Highlight(tree)
	}
	return s.Attach(buf, meta)
}

func (s *EditorState) reindex(from int) {
	for i := from; i < len(s.order); i++ {
		s.order[i].position = i
		s.byID[s.order[i].id] = i
	}
}

// OpenScratch attaches an empty, pathless scratch buffer at the back of
// the order.
func (s *EditorState) OpenScratch() BundleID {
	return s.Attach(NewBuffer(NewTree(""), s.Dim), NewBufferMeta())
}

// Attach inserts a new bundle at the back, returning its fresh id.
func (s *EditorState) Attach(buf *Buffer, meta BufferMeta) BundleID {
	id := s.tag.childID()
	b := &Bundle{id: id, position: len(s.order), Buffer: buf, Meta: meta}
	s.byID[id] = len(s.order)
	s.order = append(s.order, b)
	return id
}

// AttachFirst inserts a new bundle and swaps it into position 0, making it
// the active bundle.
func (s *EditorState) AttachFirst(buf *Buffer, meta BufferMeta) BundleID {
	id := s.Attach(buf, meta)
	last := len(s.order) - 1
	s.order[0], s.order[last] = s.order[last], s.order[0]
	s.reindex(0)
	return id
}

// Get resolves a selector to its bundle, or nil if none matches.
func (s *EditorState) Get(sel Selector) *Bundle {
	switch sel.Kind {
	case SelectorFirst, SelectorActive:
		return s.Nth(0)
	case SelectorNth:
		return s.Nth(sel.N)
	case SelectorWithID:
		if idx, ok := s.byID[sel.ID]; ok {
			return s.order[idx]
		}
	}
	return nil
}

// Nth returns the bundle at position n, or nil if out of range.
func (s *EditorState) Nth(n int) *Bundle {
	if n < 0 || n >= len(s.order) {
		return nil
	}
	return s.order[n]
}

// First returns the bundle at position 0, or nil if empty.
func (s *EditorState) First() *Bundle { return s.Nth(0) }

// Active is an alias for First: position 0 is always the active bundle.
func (s *EditorState) Active() *Bundle { return s.Nth(0) }

// Second returns the bundle at position 1, or nil if there is none. Used
// by the command handler to reach the file buffer beneath an open
// terminal prompt.
func (s *EditorState) Second() *Bundle { return s.Nth(1) }

// Remove deletes the bundle with the given id, shifting later positions
// down. The id itself is never reused.
func (s *EditorState) Remove(id BundleID) bool {
	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.byID, id)
	s.reindex(idx)
	return true
}

// Len returns the number of open bundles.
func (s *EditorState) Len() int { return len(s.order) }

// Iter calls f for every bundle in position order, front to back.
func (s *EditorState) Iter(f func(*Bundle)) {
	for _, b := range s.order {
		f(b)
	}
}

// IterReverse calls f for every bundle in position order, back to front
// (the order the draw handler paints in, so later-attached/background
// bundles get overdrawn by the active one).
func (s *EditorState) IterReverse(f func(*Bundle)) {
	for i := len(s.order) - 1; i >= 0; i-- {
		f(s.order[i])
	}
}
