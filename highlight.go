package edi

import "strings"

// NaiveHighlighter highlights whole-word matches of a single filetype's
// keyword table as HighlightKeyword, on a per-line basis.
type NaiveHighlighter struct {
	Keywords []string
}

// keywordTables holds one naive keyword list per filetype tag. The tables
// are data, not core logic, and callers may supply their own via
// NaiveHighlighter instead of this registry.
var keywordTables = map[string][]string{
	"go": {
		"break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select",
		"struct", "switch", "type", "var",
	},
	"rust": {
		"as", "break", "const", "continue", "crate", "else", "enum",
		"extern", "false", "fn", "for", "if", "impl", "in", "let", "loop",
		"match", "mod", "move", "mut", "pub", "ref", "return", "self",
		"Self", "static", "struct", "super", "trait", "true", "type",
		"unsafe", "use", "where", "while", "async", "await", "dyn",
	},
	"c": {
		"auto", "break", "case", "char", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "goto",
		"if", "int", "long", "register", "return", "short", "signed",
		"sizeof", "static", "struct", "switch", "typedef", "union",
		"unsigned", "void", "volatile", "while",
	},
}

// NewFiletypeHighlighter returns a NaiveHighlighter for a known filetype
// tag, or nil if the filetype has no keyword table.
func NewFiletypeHighlighter(filetype string) *NaiveHighlighter {
	kws, ok := keywordTables[filetype]
	if !ok {
		return nil
	}
	return &NaiveHighlighter{Keywords: kws}
}

// Highlight rebuilds the full per-line highlight table from scratch.
func (h *NaiveHighlighter) Highlight(t *Tree) map[int][]Highlight {
	out := make(map[int][]Highlight)
	it := t.Lines()
	for {
		li, ok := it.Next()
		if !ok {
			break
		}
		hls := lineHighlights(li.Contents, h.Keywords)
		if len(hls) > 0 {
			out[li.LineNumber] = hls
		}
	}
	return out
}

// lineHighlights finds whole-word keyword matches within one line,
// returning them sorted by start offset.
func lineHighlights(line string, keywords []string) []Highlight {
	runes := []rune(line)
	var hls []Highlight
	for _, kw := range keywords {
		kwRunes := []rune(kw)
		for start := 0; start+len(kwRunes) <= len(runes); start++ {
			if !matchesAt(runes, start, kwRunes) {
				continue
			}
			end := start + len(kwRunes)
			if isWordBoundary(runes, start-1) && isWordBoundary(runes, end) {
				hls = append(hls, Highlight{Start: start, End: end, Kind: HighlightKeyword})
			}
		}
	}
	sortHighlights(hls)
	return hls
}

func matchesAt(runes []rune, start int, word []rune) bool {
	for i, r := range word {
		if runes[start+i] != r {
			return false
		}
	}
	return true
}

// isWordBoundary reports whether idx (possibly -1 or == len(runes)) is
// outside the line or holds a space or tab. Any other character, punctuation
// included, counts as part of the word, so "if(" is not a match for "if".
func isWordBoundary(runes []rune, idx int) bool {
	if idx < 0 || idx >= len(runes) {
		return true
	}
	r := runes[idx]
	return r == ' ' || r == '\t'
}

func sortHighlights(hls []Highlight) {
	for i := 1; i < len(hls); i++ {
		for j := i; j > 0 && hls[j-1].Start > hls[j].Start; j-- {
			hls[j-1], hls[j] = hls[j], hls[j-1]
		}
	}
}

// filetypeFromExtension infers a filetype tag from a path's extension.
func filetypeFromExtension(path string) string {
	ext := ""
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		ext = path[i+1:]
	}
	switch ext {
	case "c", "h":
		return "c"
	case "cpp", "hpp":
		return "cpp"
	case "go":
		return "go"
	case "rs":
		return "rust"
	case "md":
		return "markdown"
	default:
		return "unknown"
	}
}
