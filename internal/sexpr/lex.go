package sexpr

import (
	sc "modernc.org/scanner"
)

// runeSource wraps modernc.org/scanner's low-level rune scanner (the same
// dependency rugo/scanner built its bracket/string tracking on top of) to
// give the reader below a single entry point for "what's the next rune and
// where is it in the source," with byte-offset bookkeeping done once here
// instead of scattered across every reader production rule.
type runeSource struct {
	s    *sc.Scanner
	peek rune
	ok   bool
	pos  int
}

func newRuneSource(src []byte) *runeSource {
	rs := &runeSource{s: sc.New(src)}
	rs.advance()
	return rs
}

func (rs *runeSource) advance() {
	r, size, ok := rs.s.Next()
	rs.peek = r
	rs.ok = ok
	if ok {
		rs.pos += size
	}
}

// Peek returns the next rune without consuming it.
func (rs *runeSource) Peek() (rune, bool) { return rs.peek, rs.ok }

// Next consumes and returns the next rune.
func (rs *runeSource) Next() (rune, bool) {
	r, ok := rs.peek, rs.ok
	if ok {
		rs.advance()
	}
	return r, ok
}

// Offset returns the current byte offset into the source, for error
// messages and Pos tracking.
func (rs *runeSource) Offset() int { return rs.pos }
