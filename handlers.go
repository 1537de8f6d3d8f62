package edi

import (
	"os"
	"strings"
)

// InputHandler is the sole EventHandler: it consumes EventInput and
// translates it, through the active buffer's mode and the editor's
// InputMapper, into queries.
type InputHandler struct{}

func (InputHandler) InterestedIn(_ HandlerID, e Event) bool {
	return e.Payload.Type == EventInput
}

func (InputHandler) Handle(state *EditorState, e Event, ctrl *Handle) {
	active := state.Active()
	mode := ModeNormal
	if active != nil {
		mode = active.Buffer.Mode
	}

	action, ok := state.Mapper.Map(mode, e.Payload.Input)
	if !ok {
		return
	}

	switch action.Kind {
	case ActionRegular:
		ctrl.PushQuery(QueryPayload{Type: QueryMove, Move: MoveAction{Kind: MoveRegular, Direction: action.Direction, Repeat: 1}})
	case ActionInLine:
		ctrl.PushQuery(QueryPayload{Type: QueryMove, Move: MoveAction{Kind: MoveInLine, InLine: action.InLine}})
	case ActionHalfScreen:
		ctrl.PushQuery(QueryPayload{Type: QueryMove, Move: MoveAction{Kind: MoveHalfScreen, Direction: action.Direction}})
	case ActionGlobal:
		ctrl.PushQuery(QueryPayload{Type: QueryMove, Move: MoveAction{Kind: MoveGlobal, Global: action.Global}})
	case ActionSwitchMode:
		ctrl.PushQuery(QueryPayload{Type: QuerySwitchMode, Selector: SelActive(), TargetMode: action.Mode})
	case ActionInsertChar:
		ctrl.PushQuery(QueryPayload{Type: QueryWrite, WriteKind: WriteInsertChar, Ch: action.Ch})
	case ActionDeleteChar:
		ctrl.PushQuery(QueryPayload{Type: QueryWrite, WriteKind: WriteDeleteChar})
	case ActionSubmit:
		if active == nil {
			return
		}
		ctrl.PushQuery(QueryPayload{Type: QueryCommand, Command: active.Buffer.Inner.Chars().Collect()})
	}
}

// WriteHandler performs the QueryWrite kinds: inserting or deleting a
// character at the active buffer's cursor, then rebuilding the buffer's
// highlight table and requesting a redraw.
type WriteHandler struct{}

func (WriteHandler) Handle(state *EditorState, q Query, ctrl *Handle) {
	bundle := state.Active()
	if bundle == nil {
		return
	}

	switch q.Payload.WriteKind {
	case WriteInsertChar:
		offset := bundle.Buffer.CursorOffset
		bundle.Buffer.Write(q.Payload.Ch)
		ctrl.PushEvent(EventPayload{Type: EventCharWritten, BufferID: bundle.ID(), Offset: offset, Ch: q.Payload.Ch})
	case WriteDeleteChar:
		offset := bundle.Buffer.CursorOffset - 1
		if _, ok := bundle.Buffer.Delete(); ok {
			ctrl.PushEvent(EventPayload{Type: EventCharDeleted, BufferID: bundle.ID(), Offset: offset})
		}
	}

	ctrl.PushQuery(QueryPayload{Type: QueryDraw, DrawKind: DrawRehighlight, DrawSelector: SelWithID(bundle.ID())})
	ctrl.QueryRedraw()
}

// historyChange is one recorded edit, either a character write or a
// single-character delete.
type historyChange struct {
	isDelete bool
	offset   int
	ch       rune
}

// history is the change log for one buffer: changes up to currentPos have
// been applied; anything past it was undone and awaits being overwritten
// by the next write.
type history struct {
	changes    []historyChange
	currentPos int
}

func (h *history) record(c historyChange) {
	if h.currentPos != len(h.changes) {
		h.changes = h.changes[:h.currentPos]
	}
	h.changes = append(h.changes, c)
	h.currentPos = len(h.changes)
}

// HistoryHandler observes EventCharWritten/EventCharDeleted to build a
// per-buffer change log. It is registered under QueryHistory even though
// no query of that type is ever constructed; its real work happens in
// CheckEvent.
type HistoryHandler struct {
	byBuffer map[BundleID]*history
}

func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{byBuffer: make(map[BundleID]*history)}
}

func (h *HistoryHandler) Handle(*EditorState, Query, *Handle) {
	Debugf("history query handler invoked directly; this is likely a bug")
}

func (h *HistoryHandler) InterestedInEvent(e Event) bool {
	return e.Payload.Type == EventCharWritten || e.Payload.Type == EventCharDeleted
}

func (h *HistoryHandler) CheckEvent(_ *EditorState, e Event, _ *Handle) {
	hist, ok := h.byBuffer[e.Payload.BufferID]
	if !ok {
		hist = &history{}
		h.byBuffer[e.Payload.BufferID] = hist
	}
	switch e.Payload.Type {
	case EventCharWritten:
		hist.record(historyChange{offset: e.Payload.Offset, ch: e.Payload.Ch})
	case EventCharDeleted:
		hist.record(historyChange{isDelete: true, offset: e.Payload.Offset})
	}
	Debugf("history changed for buffer %v: %d changes", e.Payload.BufferID, len(hist.changes))
}

// ModeHandler performs QuerySwitchMode. Spawning and tearing down the
// terminal-prompt buffer is modeled here rather than in the input mapper:
// switching a non-terminal active buffer to Terminal mode spawns a new
// prompt buffer instead of mutating the current one; switching a terminal
// prompt away from Terminal mode removes it and forwards the mode switch
// to the buffer left active underneath.
type ModeHandler struct{}

func (ModeHandler) Handle(state *EditorState, q Query, ctrl *Handle) {
	bundle := state.Get(q.Payload.Selector)
	if bundle == nil {
		Debugf("no buffer found by selector: %+v", q.Payload.Selector)
		return
	}

	target := q.Payload.TargetMode

	if target == ModeTerminal && !bundle.Meta.Flags.IsTerminalPrompt && bundle.IsActive() {
		ctrl.PushQuery(QueryPayload{Type: QuerySpawn})
		return
	}

	id := bundle.ID()
	bundle.Buffer.Mode = target

	if bundle.IsActive() && bundle.Meta.Flags.IsTerminalPrompt && target != ModeTerminal {
		state.Remove(id)
		ctrl.PushQuery(QueryPayload{Type: QuerySwitchMode, Selector: SelActive(), TargetMode: target})
		return
	}

	ctrl.PushEvent(EventPayload{Type: EventModeSwitched, BufferID: id, Mode: target})
	ctrl.QueryRedraw()
}

// SpawnHandler performs QuerySpawn: it attaches a one-line terminal-prompt
// buffer in front of everything else, seeded with the leading ":" the
// command handler expects when interpreting Submit.
type SpawnHandler struct{}

func (SpawnHandler) Handle(state *EditorState, _ Query, ctrl *Handle) {
	buf := NewBuffer(NewTree(":"), Dimensions{Width: state.Dim.Width, Height: 1})
	buf.CursorOffset = 1
	buf.Mode = ModeTerminal

	meta := NewBufferMeta()
	meta.Statusline = false
	meta.LineNumbers = false
	meta.Size = Vec2{X: FullWidth(), Y: Cells(1)}
	meta.Offset = Vec2{X: Zero(), Y: Cells(state.Dim.Height - 1)}
	meta.Flags.IsTerminalPrompt = true

	state.AttachFirst(buf, meta)
	ctrl.QueryRedraw()
}

// MoveHandler performs QueryMove, dispatching the four MoveAction shapes
// onto the active buffer.
type MoveHandler struct{}

func (MoveHandler) Handle(state *EditorState, q Query, ctrl *Handle) {
	bundle := state.Active()
	if bundle == nil {
		return
	}
	buf := bundle.Buffer

	switch q.Payload.Move.Kind {
	case MoveRegular:
		buf.MoveCursor(q.Payload.Move.Direction, q.Payload.Move.Repeat)
	case MoveInLine:
		buf.MoveInLine(q.Payload.Move.InLine)
	case MoveHalfScreen:
		buf.MoveCursor(q.Payload.Move.Direction, buf.Dim.Height/2)
	case MoveGlobal:
		buf.MoveGlobal(q.Payload.Move.Global)
	}

	ctrl.QueryRedraw()
}

// CommandHandler performs QueryCommand: interpreting the text submitted
// from a terminal-prompt buffer.
type CommandHandler struct{}

func (CommandHandler) Handle(state *EditorState, q Query, ctrl *Handle) {
	cmd := q.Payload.Command

	switch cmd {
	case ":q":
		ctrl.QueryQuit()
	case ":wq":
		saveBuffer(state)
		ctrl.QueryQuit()
	}

	ctrl.QueryRedraw()
}

// saveBuffer writes the buffer beneath the terminal prompt (position 1,
// the file buffer the prompt was spawned in front of) to a sibling .swp
// file, then renames it atomically over the target path, falling back to
// out.txt when the buffer has none.
func saveBuffer(state *EditorState) {
	bundle := state.Second()
	if bundle == nil {
		Debugf("no buffer to write")
		return
	}

	path := bundle.Meta.Filepath
	if path == "" {
		path = "out.txt"
	}
	swapPath := path + ".swp"

	f, err := os.OpenFile(swapPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		Debugf("unable to create swap file %s: %v", swapPath, err)
		return
	}

	var b strings.Builder
	it := bundle.Buffer.Inner.Lines()
	for {
		li, ok := it.Next()
		if !ok {
			break
		}
		b.WriteString(li.Contents)
		b.WriteByte('\n')
	}

	if _, err := f.WriteString(b.String()); err != nil {
		Debugf("unable to write swap file contents: %v", err)
		_ = f.Close()
		return
	}
	if err := f.Close(); err != nil {
		Debugf("unable to close swap file: %v", err)
		return
	}

	if err := os.Rename(swapPath, path); err != nil {
		Debugf("unable to rename %s to %s: %v", swapPath, path, err)
	}
}

// DrawHandler performs QueryDraw's two kinds: a full redraw of every
// bundle back-to-front into the window, and a single bundle's
// rehighlight.
type DrawHandler struct{}

func (DrawHandler) Handle(state *EditorState, q Query, ctrl *Handle) {
	switch q.Payload.DrawKind {
	case DrawRedraw:
		redraw(state)
	case DrawRehighlight:
		rehighlight(state, q.Payload.DrawSelector)
	}
}

func redraw(state *EditorState) {
	state.Window.Clear(ColorDefault)

	state.IterReverse(func(bundle *Bundle) {
		size := bundle.Meta.Size.ResolveDimensions(state.Dim)
		offset := bundle.Meta.Offset.ResolvePosition(state.Dim)
		bundle.Buffer.Dim = size

		bound := Bind(state.Window, offset, size)
		bound.Clear(ColorDefault)
		bundle.Buffer.Flush(bound, bundle.Meta.FlushOptions(bundle.Buffer))
	})

	if state.Out != nil {
		if err := state.Window.Render(state.Out); err != nil {
			Debugf("render failed: %v", err)
		}
	}
}

func rehighlight(state *EditorState, sel Selector) {
	bundle := state.Get(sel)
	if bundle == nil {
		Debugf("invalid selector passed to rehighlight: %+v", sel)
		return
	}
	hl := NewFiletypeHighlighter(bundle.Meta.Filetype)
	if hl == nil {
		return
	}
	bundle.Meta.Highlights = hl.Highlight(bundle.Buffer.Inner)
}

// RegisterDefaultHandlers attaches the baseline handler set to d: one
// event handler (input) and the write/history/switch-mode/spawn/move/
// command/draw query handlers.
func RegisterDefaultHandlers(d *Dispatcher) {
	d.AttachEventHandler(InputHandler{})

	d.AttachQueryHandler(QueryWrite, WriteHandler{})
	d.AttachQueryHandler(QueryHistory, NewHistoryHandler())
	d.AttachQueryHandler(QuerySwitchMode, ModeHandler{})
	d.AttachQueryHandler(QuerySpawn, SpawnHandler{})
	d.AttachQueryHandler(QueryMove, MoveHandler{})
	d.AttachQueryHandler(QueryCommand, CommandHandler{})
	d.AttachQueryHandler(QueryDraw, DrawHandler{})
}
