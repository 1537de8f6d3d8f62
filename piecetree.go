package edi

import (
	"strings"
	"unicode/utf8"
)

// maxLeafBytes bounds how large a single leaf fragment may grow before a
// tree is built or rebalanced. Keeping leaves small bounds the cost of
// per-character leaf scans during Get/Chars.
const maxLeafBytes = 128

// node is a piece-tree node. A leaf node carries an immutable UTF-8
// fragment; an internal node carries cached metrics of its left subtree
// (leftInfo) plus optional left and right children. The empty tree is
// represented by an internal node with both children nil.
type node struct {
	isLeaf      bool
	text        string
	left, right *node
	leftInfo    TextInfo
}

func newLeafNode(s string) *node {
	return &node{isLeaf: true, text: s}
}

func newEmptyNode() *node {
	return &node{isLeaf: false}
}

// newInternalNode builds an internal node, computing leftInfo from left.
// Use internalNodeWithInfo instead when leftInfo is already known, to avoid
// a redundant descent.
func newInternalNode(left, right *node) *node {
	return &node{left: left, right: right, leftInfo: nodeFullInfo(left)}
}

func internalNodeWithInfo(left *node, leftInfo TextInfo, right *node) *node {
	return &node{left: left, right: right, leftInfo: leftInfo}
}

func (n *node) isEmptyCanonical() bool {
	return !n.isLeaf && n.left == nil && n.right == nil
}

// nodeFullInfo returns the metrics of the entire subtree rooted at n. For a
// balanced tree this only recurses down the right spine, since every
// internal node already caches its left subtree's metrics.
func nodeFullInfo(n *node) TextInfo {
	if n == nil {
		return TextInfo{}
	}
	if n.isLeaf {
		return textInfoOf(n.text)
	}
	return n.leftInfo.Add(nodeFullInfo(n.right))
}

func nodeDepth(n *node) int {
	if n == nil {
		return 0
	}
	if n.isLeaf {
		return 1
	}
	return 1 + max(nodeDepth(n.left), nodeDepth(n.right))
}

func collectLeaves(n *node, out *[]*node) {
	if n == nil {
		return
	}
	if n.isLeaf {
		*out = append(*out, n)
		return
	}
	collectLeaves(n.left, out)
	collectLeaves(n.right, out)
}

// mergeRange builds a balanced tree over leaves[lo:hi] by recursive
// bottom-up halving.
func mergeRange(leaves []*node, lo, hi int) *node {
	n := hi - lo
	if n == 1 {
		return leaves[lo]
	}
	if n == 2 {
		return &node{left: leaves[lo], right: leaves[lo+1], leftInfo: nodeFullInfo(leaves[lo])}
	}
	mid := lo + n/2
	left := mergeRange(leaves, lo, mid)
	leftInfo := nodeFullInfo(left)
	right := mergeRange(leaves, mid, hi)
	return &node{left: left, right: right, leftInfo: leftInfo}
}

// fibBound[d] is Fibonacci(d), used by the rope-balance property: a tree of
// depth d is considered balanced only if its weight is at least
// fibBound[d+2].
var fibBound [64]int

func init() {
	fibBound[0] = 0
	fibBound[1] = 1
	for i := 2; i < len(fibBound); i++ {
		fibBound[i] = fibBound[i-1] + fibBound[i-2]
	}
}

func isBalanced(n *node) bool {
	depth := nodeDepth(n)
	if depth+2 >= len(fibBound) {
		return false
	}
	return fibBound[depth+2] <= nodeFullInfo(n).Chars
}

// chunkString splits s into fragments no larger than maxLeafBytes, cutting
// only at codepoint boundaries.
func chunkString(s string) []string {
	if s == "" {
		return nil
	}
	var chunks []string
	start := 0
	byteLen := 0
	for i, r := range s {
		w := utf8.RuneLen(r)
		if byteLen+w > maxLeafBytes && i > start {
			chunks = append(chunks, s[start:i])
			start = i
			byteLen = 0
		}
		byteLen += w
	}
	chunks = append(chunks, s[start:])
	return chunks
}

// Tree is a piece tree (rope): a balanced binary tree of immutable UTF-8
// text fragments supporting fast insertion, deletion, and ordered/indexed
// access by character offset.
type Tree struct {
	root *node
}

// NewTree builds a tree representing s, splitting it into bounded chunks at
// codepoint boundaries and combining them via a balanced bottom-up merge.
func NewTree(s string) *Tree {
	chunks := chunkString(s)
	if len(chunks) == 0 {
		return &Tree{root: newEmptyNode()}
	}
	leaves := make([]*node, len(chunks))
	for i, c := range chunks {
		leaves[i] = newLeafNode(c)
	}
	return &Tree{root: mergeRange(leaves, 0, len(leaves))}
}

// Len returns the total number of characters in the tree.
func (t *Tree) Len() int {
	return nodeFullInfo(t.root).Chars
}

// TotalLines returns the total number of newline characters in the tree.
// This is a raw count of '\n' characters, not the number of Lines()
// records; the two differ for content without a trailing newline.
func (t *Tree) TotalLines() int {
	return nodeFullInfo(t.root).Newlines
}

func clampIndex(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// Get returns the i-th character, or ok=false when i is out of range.
func (t *Tree) Get(i int) (r rune, ok bool) {
	if i < 0 {
		return 0, false
	}
	return getNode(t.root, i)
}

func getNode(n *node, idx int) (rune, bool) {
	if n == nil {
		return 0, false
	}
	if n.isLeaf {
		j := 0
		for _, r := range n.text {
			if j == idx {
				return r, true
			}
			j++
		}
		return 0, false
	}
	if idx < n.leftInfo.Chars {
		return getNode(n.left, idx)
	}
	return getNode(n.right, idx-n.leftInfo.Chars)
}

func splitLeafAt(s string, idxChars int) (string, string) {
	if idxChars <= 0 {
		return "", s
	}
	n := 0
	for i := range s {
		if n == idxChars {
			return s[:i], s[i:]
		}
		n++
	}
	return s, ""
}

func splitNode(n *node, idx int) (*node, *node) {
	if n.isLeaf {
		l, r := splitLeafAt(n.text, idx)
		return newLeafNode(l), newLeafNode(r)
	}
	if n.isEmptyCanonical() {
		return newEmptyNode(), newEmptyNode()
	}
	if idx < n.leftInfo.Chars {
		l, r := splitNode(n.left, idx)
		return l, newInternalNode(r, n.right)
	}
	l, r := splitNode(n.right, idx-n.leftInfo.Chars)
	return internalNodeWithInfo(n.left, n.leftInfo, l), r
}

// Split splits the tree into (L, R) such that L represents the first i
// characters and R the remainder; both returned trees are rebalanced.
func (t *Tree) Split(i int) (*Tree, *Tree) {
	i = clampIndex(i, 0, t.Len())
	lNode, rNode := splitNode(t.root, i)
	left := &Tree{root: lNode}
	right := &Tree{root: rNode}
	left.rebalance()
	right.rebalance()
	return left, right
}

// Concat appends other's content to self. An empty self becomes other
// unchanged; an empty other leaves self unchanged.
func (t *Tree) Concat(other *Tree) {
	if t.Len() == 0 {
		t.root = other.root
		return
	}
	if other.Len() == 0 {
		return
	}
	t.root = internalNodeWithInfo(t.root, nodeFullInfo(t.root), other.root)
	t.rebalance()
}

// Insert inserts s at character offset i.
func (t *Tree) Insert(i int, s string) {
	if s == "" {
		return
	}
	left, right := t.Split(i)
	left.Concat(NewTree(s))
	left.Concat(right)
	t.root = left.root
}

// Delete removes the character range [start, end).
func (t *Tree) Delete(start, end int) {
	n := t.Len()
	start = clampIndex(start, 0, n)
	end = clampIndex(end, start, n)
	if start == end {
		return
	}
	left, _ := t.Split(start)
	_, right := t.Split(end)
	left.Concat(right)
	t.root = left.root
}

// rebalance re-merges the tree's leaves into a balanced shape iff the
// current depth no longer satisfies the rope-balance (Fibonacci) property.
func (t *Tree) rebalance() {
	if isBalanced(t.root) {
		return
	}
	var leaves []*node
	collectLeaves(t.root, &leaves)
	if len(leaves) == 0 {
		t.root = newEmptyNode()
		return
	}
	t.root = mergeRange(leaves, 0, len(leaves))
}

// String materializes the entire tree's text. Intended for tests and small
// trees; large documents should use Chars or Substr instead.
func (t *Tree) String() string {
	var b strings.Builder
	it := t.Chars()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// leafSeq produces the tree's leaf fragments in order via an explicit stack
// of frames, pushing left children on entry and descending right at
// leaves.
type leafSeq struct {
	stack []*node
}

func newLeafSeq(root *node) *leafSeq {
	ls := &leafSeq{}
	ls.pushLeft(root)
	return ls
}

func (ls *leafSeq) pushLeft(n *node) {
	for n != nil {
		ls.stack = append(ls.stack, n)
		if n.isLeaf {
			return
		}
		n = n.left
	}
}

func (ls *leafSeq) next() (string, bool) {
	for {
		if len(ls.stack) == 0 {
			return "", false
		}
		top := ls.stack[len(ls.stack)-1]
		ls.stack = ls.stack[:len(ls.stack)-1]
		if !top.isLeaf {
			ls.pushLeft(top.right)
			continue
		}
		s := top.text
		if len(ls.stack) == 0 {
			return s, true
		}
		parent := ls.stack[len(ls.stack)-1]
		ls.stack = ls.stack[:len(ls.stack)-1]
		ls.pushLeft(parent.right)
		return s, true
	}
}

// CharIter is a lazy, restartable, in-order sequence of characters.
type CharIter struct {
	seq    *leafSeq
	cur    string
	curPos int
}

func newCharIterFrom(root *node) *CharIter {
	return &CharIter{seq: newLeafSeq(root)}
}

// Chars returns a fresh, restartable sequence of the tree's characters.
func (t *Tree) Chars() *CharIter {
	return newCharIterFrom(t.root)
}

// Next returns the next character in the sequence, or ok=false at the end.
func (it *CharIter) Next() (rune, bool) {
	for it.curPos >= len(it.cur) {
		s, ok := it.seq.next()
		if !ok {
			return 0, false
		}
		it.cur = s
		it.curPos = 0
	}
	r, size := utf8.DecodeRuneInString(it.cur[it.curPos:])
	it.curPos += size
	return r, true
}

// Collect drains the iterator into a string.
func (it *CharIter) Collect() string {
	var b strings.Builder
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// skipTo walks down from n toward the subtree containing character target,
// skipping whole left subtrees that lie entirely before it. Returns the
// subtree root and the number of characters skipped before it. Only right
// descents are taken, so the returned subtree still covers everything from
// the target to the end of the tree.
func skipTo(n *node, target int) (*node, int) {
	skipped := 0
	cur := n
	for !cur.isLeaf {
		if cur.leftInfo.Chars >= target-skipped || cur.right == nil {
			break
		}
		skipped += cur.leftInfo.Chars
		cur = cur.right
	}
	return cur, skipped
}

// Substring is a lazy character sequence over a fixed-length range.
type Substring struct {
	it        *CharIter
	remaining int
}

// Substr returns a lazy sequence over the character range [start, end),
// skipping whole subtrees that lie entirely before start.
func (t *Tree) Substr(start, end int) *Substring {
	n := t.Len()
	start = clampIndex(start, 0, n)
	end = clampIndex(end, start, n)
	subRoot, skipped := skipTo(t.root, start)
	it := newCharIterFrom(subRoot)
	for i := 0; i < start-skipped; i++ {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	return &Substring{it: it, remaining: end - start}
}

// Next returns the next character in the range, or ok=false when exhausted.
func (s *Substring) Next() (rune, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	r, ok := s.it.Next()
	if !ok {
		return 0, false
	}
	s.remaining--
	return r, true
}

// Collect drains the substring iterator into a string.
func (s *Substring) Collect() string {
	var b strings.Builder
	for {
		r, ok := s.Next()
		if !ok {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LineInfo describes one line yielded by Lines.
type LineInfo struct {
	LineNumber      int
	CharacterOffset int
	Length          int // excludes the trailing newline
	Contents        string
	HasContents     bool
}

// LineIter is a lazy, forward-only sequence of LineInfo records.
type LineIter struct {
	it          *CharIter
	lineNumber  int
	offset      int
	totalChars  int
	withContent bool
	done        bool
}

func newLineIter(t *Tree, startOffset, startLine int, withContent bool) *LineIter {
	subRoot, skipped := skipTo(t.root, startOffset)
	it := newCharIterFrom(subRoot)
	for i := 0; i < startOffset-skipped; i++ {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	return &LineIter{it: it, offset: startOffset, lineNumber: startLine, totalChars: t.Len(), withContent: withContent}
}

// Lines returns a sequence of line records over the whole tree, with
// contents populated.
func (t *Tree) Lines() *LineIter {
	return newLineIter(t, 0, 0, true)
}

// LinesNoContents is like Lines but skips allocating line contents.
func (t *Tree) LinesNoContents() *LineIter {
	return newLineIter(t, 0, 0, false)
}

// LinesFrom starts line iteration at line n, skipping the subtrees that
// make up the preceding lines rather than visiting them character by
// character.
func (t *Tree) LinesFrom(n int) *LineIter {
	if n <= 0 {
		return t.Lines()
	}
	offset := t.IndexOfLine(n)
	return newLineIter(t, offset, n, true)
}

// Next returns the next line record, or ok=false once the sequence (and any
// trailing newline) has been fully consumed. A trailing newline opens no
// new record.
func (li *LineIter) Next() (LineInfo, bool) {
	if li.done || li.offset >= li.totalChars {
		return LineInfo{}, false
	}
	start := li.offset
	lineNum := li.lineNumber
	var buf strings.Builder
	length := 0
	for {
		r, ok := li.it.Next()
		if !ok {
			li.done = true
			break
		}
		li.offset++
		if r == '\n' {
			break
		}
		length++
		if li.withContent {
			buf.WriteRune(r)
		}
	}
	li.lineNumber++
	info := LineInfo{LineNumber: lineNum, CharacterOffset: start, Length: length}
	if li.withContent {
		info.Contents = buf.String()
		info.HasContents = true
	}
	return info, true
}

// lineOfIndexNode counts newlines in the first idx characters of n's
// subtree, descending via cached leftInfo.Newlines the way Get descends via
// leftInfo.Chars.
func lineOfIndexNode(n *node, idx int) int {
	if n == nil || idx <= 0 {
		return 0
	}
	if n.isLeaf {
		cnt := 0
		j := 0
		for _, r := range n.text {
			if j >= idx {
				break
			}
			if r == '\n' {
				cnt++
			}
			j++
		}
		return cnt
	}
	if idx <= n.leftInfo.Chars {
		return lineOfIndexNode(n.left, idx)
	}
	return n.leftInfo.Newlines + lineOfIndexNode(n.right, idx-n.leftInfo.Chars)
}

// LineOfIndex returns the line number containing character i: the count of
// newlines before it, with i clamped to [0, Len]. At Len past a trailing
// newline this is the number of the open empty line after it.
func (t *Tree) LineOfIndex(i int) int {
	n := t.Len()
	i = clampIndex(i, 0, n)
	return lineOfIndexNode(t.root, i)
}

// LineInfo returns the record for line n, or ok=false if the tree has no
// such line.
func (t *Tree) LineInfo(n int) (LineInfo, bool) {
	it := t.LinesFrom(n)
	li, ok := it.Next()
	if !ok || li.LineNumber != n {
		return LineInfo{}, false
	}
	return li, true
}

// indexOfLineNode returns the character offset, within n's subtree, just
// past the line-th newline. Descends via cached leftInfo.Newlines, only
// scanning character by character inside the final leaf.
func indexOfLineNode(n *node, line int) int {
	if n == nil {
		return 0
	}
	if n.isLeaf {
		offs := 0
		for _, r := range n.text {
			offs++
			if r == '\n' {
				line--
				if line == 0 {
					return offs
				}
			}
		}
		return offs
	}
	if line <= n.leftInfo.Newlines {
		return indexOfLineNode(n.left, line)
	}
	return n.leftInfo.Chars + indexOfLineNode(n.right, line-n.leftInfo.Newlines)
}

// IndexOfLine returns the character offset at which line n starts, or the
// total length when the tree holds fewer than n lines.
func (t *Tree) IndexOfLine(n int) int {
	if n <= 0 {
		return 0
	}
	if n > t.TotalLines() {
		return t.Len()
	}
	return indexOfLineNode(t.root, n)
}
