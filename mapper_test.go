package edi

import "testing"

func TestMapperNormalModeBindings(t *testing.T) {
	m := NewInputMapper()

	cases := []struct {
		ch   rune
		want Action
	}{
		{'h', Action{Kind: ActionRegular, Direction: DirLeft}},
		{'l', Action{Kind: ActionRegular, Direction: DirRight}},
		{'j', Action{Kind: ActionRegular, Direction: DirDown}},
		{'k', Action{Kind: ActionRegular, Direction: DirUp}},
		{'0', Action{Kind: ActionInLine, InLine: PosStart}},
		{'$', Action{Kind: ActionInLine, InLine: PosEnd}},
		{'^', Action{Kind: ActionInLine, InLine: PosCharacterStart}},
		{'e', Action{Kind: ActionInLine, InLine: PosCurrentWordEnd}},
		{'b', Action{Kind: ActionInLine, InLine: PosCurrentWordStart}},
		{'i', Action{Kind: ActionSwitchMode, Mode: ModeInsert}},
		{':', Action{Kind: ActionSwitchMode, Mode: ModeTerminal}},
		{'G', Action{Kind: ActionGlobal, Global: GlobalEnd}},
	}
	for _, c := range cases {
		got, ok := m.Map(ModeNormal, Input{Kind: InputKeypress, Ch: c.ch})
		if !ok {
			t.Errorf("Map(Normal, %q) not bound", c.ch)
			continue
		}
		if got != c.want {
			t.Errorf("Map(Normal, %q) = %+v, want %+v", c.ch, got, c.want)
		}
	}
}

func TestMapperNormalModeUnboundLetterIsSilent(t *testing.T) {
	m := NewInputMapper()
	if _, ok := m.Map(ModeNormal, Input{Kind: InputKeypress, Ch: 'z'}); ok {
		t.Errorf("Map(Normal, 'z') should be unbound")
	}
}

func TestMapperControlBindings(t *testing.T) {
	m := NewInputMapper()
	got, ok := m.Map(ModeNormal, Input{Kind: InputControl, Ch: 'd'})
	if !ok || got.Kind != ActionHalfScreen || got.Direction != DirDown {
		t.Errorf("Map(Normal, Ctrl-d) = %+v, %v, want HalfScreen/Down", got, ok)
	}
	got, ok = m.Map(ModeNormal, Input{Kind: InputControl, Ch: 'u'})
	if !ok || got.Kind != ActionHalfScreen || got.Direction != DirUp {
		t.Errorf("Map(Normal, Ctrl-u) = %+v, %v, want HalfScreen/Up", got, ok)
	}
}

func TestMapperInsertModePrintableInsertsChar(t *testing.T) {
	m := NewInputMapper()
	got, ok := m.Map(ModeInsert, Input{Kind: InputKeypress, Ch: 'x'})
	if !ok || got.Kind != ActionInsertChar || got.Ch != 'x' {
		t.Errorf("Map(Insert, 'x') = %+v, %v, want InsertChar('x')", got, ok)
	}
}

func TestMapperInsertModeControlKeys(t *testing.T) {
	m := NewInputMapper()
	if got, ok := m.Map(ModeInsert, Input{Kind: InputEscape}); !ok || got.Kind != ActionSwitchMode || got.Mode != ModeNormal {
		t.Errorf("Map(Insert, Escape) = %+v, %v, want SwitchMode(Normal)", got, ok)
	}
	if got, ok := m.Map(ModeInsert, Input{Kind: InputEnter}); !ok || got.Kind != ActionInsertChar || got.Ch != '\n' {
		t.Errorf("Map(Insert, Enter) = %+v, %v, want InsertChar('\\n')", got, ok)
	}
	if got, ok := m.Map(ModeInsert, Input{Kind: InputBackspace}); !ok || got.Kind != ActionDeleteChar {
		t.Errorf("Map(Insert, Backspace) = %+v, %v, want DeleteChar", got, ok)
	}
	if got, ok := m.Map(ModeInsert, Input{Kind: InputArrowLeft}); !ok || got.Kind != ActionRegular || got.Direction != DirLeft {
		t.Errorf("Map(Insert, ArrowLeft) = %+v, %v, want Regular/Left", got, ok)
	}
}

func TestMapperTerminalModeEnterSubmits(t *testing.T) {
	m := NewInputMapper()
	got, ok := m.Map(ModeTerminal, Input{Kind: InputEnter})
	if !ok || got.Kind != ActionSubmit {
		t.Errorf("Map(Terminal, Enter) = %+v, %v, want Submit", got, ok)
	}
}

func TestMapperBindOverridesDefault(t *testing.T) {
	m := NewInputMapper()
	m.Bind(ModeNormal, InputKeypress, 'h', Action{Kind: ActionRegular, Direction: DirDown})
	got, ok := m.Map(ModeNormal, Input{Kind: InputKeypress, Ch: 'h'})
	if !ok || got.Direction != DirDown {
		t.Errorf("Bind did not override the default binding: got %+v", got)
	}
}
