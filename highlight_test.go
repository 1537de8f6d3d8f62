package edi

import "testing"

func TestLineHighlightsWholeWordMatches(t *testing.T) {
	kws := keywordTables["rust"]
	hls := lineHighlights("fn main() {}", kws)
	if len(hls) != 1 {
		t.Fatalf("lineHighlights = %+v, want exactly the fn keyword", hls)
	}
	if hls[0].Start != 0 || hls[0].End != 2 || hls[0].Kind != HighlightKeyword {
		t.Errorf("fn highlight = %+v, want {0 2 keyword}", hls[0])
	}
}

func TestLineHighlightsRejectsSubstrings(t *testing.T) {
	// "iffy" contains the keyword "if" but must not highlight.
	if hls := lineHighlights("iffy business", keywordTables["c"]); len(hls) != 0 {
		t.Errorf("substring matched as keyword: %+v", hls)
	}
}

func TestLineHighlightsSortedByStart(t *testing.T) {
	hls := lineHighlights("return x if y else for", keywordTables["go"])
	for i := 1; i < len(hls); i++ {
		if hls[i-1].Start > hls[i].Start {
			t.Fatalf("highlights not sorted by start: %+v", hls)
		}
	}
}

func TestHighlighterBuildsPerLineTable(t *testing.T) {
	hl := NewFiletypeHighlighter("go")
	if hl == nil {
		t.Fatalf("no highlighter for filetype go")
	}
	table := hl.Highlight(NewTree("package main\n\nfunc main() {}\n"))
	if len(table[0]) == 0 {
		t.Errorf("line 0 should highlight the package keyword: %+v", table)
	}
	if len(table[1]) != 0 {
		t.Errorf("empty line 1 should have no highlights: %+v", table[1])
	}
	if len(table[2]) == 0 {
		t.Errorf("line 2 should highlight the func keyword: %+v", table)
	}
}

func TestHighlighterUnknownFiletype(t *testing.T) {
	if hl := NewFiletypeHighlighter("markdown"); hl != nil {
		t.Errorf("markdown has no keyword table; want nil highlighter")
	}
	if hl := NewFiletypeHighlighter("unknown"); hl != nil {
		t.Errorf("unknown filetype should have no highlighter")
	}
}

func TestHighlightKindColors(t *testing.T) {
	if got := HighlightKeyword.color(); got != ColorMagenta {
		t.Errorf("keyword color = %v, want magenta", got)
	}
	if got := HighlightOther.color(); got != ColorRed {
		t.Errorf("other color = %v, want red", got)
	}
	if got := HighlightNone.color(); got != ColorWhite {
		t.Errorf("none color = %v, want white", got)
	}
}
