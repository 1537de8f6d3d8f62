package edi

// TextInfo is the per-chunk metric triple carried by every piece-tree node:
// byte length, character (codepoint) count, and newline count. All
// positional arithmetic elsewhere in the package uses Chars; Bytes is
// carried and summed but no positional code reads it.
type TextInfo struct {
	Bytes    int
	Chars    int
	Newlines int
}

// textInfoOf computes the metrics of a UTF-8 fragment.
func textInfoOf(s string) TextInfo {
	info := TextInfo{Bytes: len(s)}
	for _, r := range s {
		info.Chars++
		if r == '\n' {
			info.Newlines++
		}
	}
	return info
}

// Add returns the component-wise sum of two metric triples.
func (t TextInfo) Add(other TextInfo) TextInfo {
	return TextInfo{
		Bytes:    t.Bytes + other.Bytes,
		Chars:    t.Chars + other.Chars,
		Newlines: t.Newlines + other.Newlines,
	}
}
