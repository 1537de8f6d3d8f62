package edi

// ActionKind tags the variant of an Action produced by the input mapper.
type ActionKind int

const (
	ActionRegular ActionKind = iota
	ActionInLine
	ActionHalfScreen
	ActionGlobal
	ActionSwitchMode
	ActionInsertChar
	ActionDeleteChar
	ActionSubmit
)

// Action is what a (mode, input) pair maps to: either a movement shape
// matching MoveAction, or an edit/mode-switch/submit request.
type Action struct {
	Kind ActionKind

	Direction Direction
	InLine    InLinePosition
	Global    GlobalPosition
	Mode      Mode
	Ch        rune
}

type mapperKey struct {
	Mode Mode
	Kind InputKind
	Ch   rune
}

// InputMapper holds a (mode, input) -> action table, seeded with the
// default vi-like bindings.
type InputMapper struct {
	table map[mapperKey]Action
}

// NewInputMapper returns a mapper seeded with the default bindings table.
func NewInputMapper() *InputMapper {
	m := &InputMapper{table: make(map[mapperKey]Action)}
	m.installDefaults()
	return m
}

// Bind overrides (or adds) the action for a (mode, input) pair. Inputs
// carrying no rune (arrows, Enter, Escape, Backspace) match on Kind alone.
func (m *InputMapper) Bind(mode Mode, kind InputKind, ch rune, action Action) {
	m.table[mapperKey{Mode: mode, Kind: kind, Ch: ch}] = action
}

// Map looks up the action bound to (mode, in), returning ok=false for an
// unmapped combination.
func (m *InputMapper) Map(mode Mode, in Input) (Action, bool) {
	ch := rune(0)
	if in.Kind == InputKeypress || in.Kind == InputControl {
		ch = in.Ch
	}
	a, ok := m.table[mapperKey{Mode: mode, Kind: in.Kind, Ch: ch}]
	return a, ok
}

func (m *InputMapper) installDefaults() {
	regular := func(dir Direction) Action { return Action{Kind: ActionRegular, Direction: dir} }
	inLine := func(pos InLinePosition) Action { return Action{Kind: ActionInLine, InLine: pos} }
	halfScreen := func(dir Direction) Action { return Action{Kind: ActionHalfScreen, Direction: dir} }
	global := func(pos GlobalPosition) Action { return Action{Kind: ActionGlobal, Global: pos} }
	switchMode := func(mode Mode) Action { return Action{Kind: ActionSwitchMode, Mode: mode} }
	insertChar := func(ch rune) Action { return Action{Kind: ActionInsertChar, Ch: ch} }

	// Normal mode.
	m.Bind(ModeNormal, InputControl, 'd', halfScreen(DirDown))
	m.Bind(ModeNormal, InputControl, 'u', halfScreen(DirUp))
	m.Bind(ModeNormal, InputKeypress, 'h', regular(DirLeft))
	m.Bind(ModeNormal, InputKeypress, 'j', regular(DirDown))
	m.Bind(ModeNormal, InputKeypress, 'k', regular(DirUp))
	m.Bind(ModeNormal, InputKeypress, 'l', regular(DirRight))
	m.Bind(ModeNormal, InputKeypress, 'i', switchMode(ModeInsert))
	m.Bind(ModeNormal, InputKeypress, ':', switchMode(ModeTerminal))
	m.Bind(ModeNormal, InputKeypress, '0', inLine(PosStart))
	m.Bind(ModeNormal, InputKeypress, '$', inLine(PosEnd))
	m.Bind(ModeNormal, InputKeypress, '^', inLine(PosCharacterStart))
	m.Bind(ModeNormal, InputKeypress, 'e', Action{Kind: ActionInLine, InLine: PosCurrentWordEnd})
	m.Bind(ModeNormal, InputKeypress, 'b', Action{Kind: ActionInLine, InLine: PosCurrentWordStart})
	m.Bind(ModeNormal, InputKeypress, 'G', global(GlobalEnd))

	// Insert mode.
	m.Bind(ModeInsert, InputEscape, 0, switchMode(ModeNormal))
	m.Bind(ModeInsert, InputEnter, 0, insertChar('\n'))
	m.Bind(ModeInsert, InputBackspace, 0, Action{Kind: ActionDeleteChar})
	m.Bind(ModeInsert, InputArrowUp, 0, regular(DirUp))
	m.Bind(ModeInsert, InputArrowDown, 0, regular(DirDown))
	m.Bind(ModeInsert, InputArrowLeft, 0, regular(DirLeft))
	m.Bind(ModeInsert, InputArrowRight, 0, regular(DirRight))

	// Terminal mode.
	m.Bind(ModeTerminal, InputEscape, 0, switchMode(ModeNormal))
	m.Bind(ModeTerminal, InputEnter, 0, Action{Kind: ActionSubmit})
	m.Bind(ModeTerminal, InputBackspace, 0, Action{Kind: ActionDeleteChar})
	m.Bind(ModeTerminal, InputArrowUp, 0, regular(DirUp))
	m.Bind(ModeTerminal, InputArrowDown, 0, regular(DirDown))
	m.Bind(ModeTerminal, InputArrowLeft, 0, regular(DirLeft))
	m.Bind(ModeTerminal, InputArrowRight, 0, regular(DirRight))

	// Printable keypresses in Insert/Terminal insert the character; Normal
	// mode's printable bindings above take priority per entry, everything
	// else in Normal stays unmapped (silent).
	for ch := rune(0x20); ch < 0x7f; ch++ {
		if _, ok := m.table[mapperKey{Mode: ModeInsert, Kind: InputKeypress, Ch: ch}]; !ok {
			m.Bind(ModeInsert, InputKeypress, ch, insertChar(ch))
		}
		if _, ok := m.table[mapperKey{Mode: ModeTerminal, Kind: InputKeypress, Ch: ch}]; !ok {
			m.Bind(ModeTerminal, InputKeypress, ch, insertChar(ch))
		}
	}
}
