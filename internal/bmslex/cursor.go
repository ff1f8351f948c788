package bmslex

import (
	"strings"

	"nitro-core-dx/internal/diag"
)

// Cursor is a stateful view into BMS source text. Grounded on
// original_source/src/bms/lex/cursor.rs, translated into the teacher's
// position-tracking style (internal/corelx/lexer.go's line/column fields).
type Cursor struct {
	source string
	index  int
}

// Checkpoint is an opaque snapshot returned by SaveCheckpoint.
type Checkpoint struct {
	index int
}

func NewCursor(source string) *Cursor {
	return &Cursor{source: source}
}

func isSeparator(r byte) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func (c *Cursor) nextTokenRange() (start, end int) {
	i := c.index
	for i < len(c.source) && isSeparator(c.source[i]) {
		i++
	}
	start = i
	for i < len(c.source) && !isSeparator(c.source[i]) {
		i++
	}
	end = i
	return
}

// PeekNextToken returns the next whitespace-delimited token without
// consuming it, or "", false at end of input.
func (c *Cursor) PeekNextToken() (string, bool) {
	start, end := c.nextTokenRange()
	if start == end {
		return "", false
	}
	return c.source[start:end], true
}

// NextToken consumes and returns the next token and its byte range.
func (c *Cursor) NextToken() (string, diag.ByteRange, bool) {
	start, end := c.nextTokenRange()
	if start == end {
		return "", diag.ByteRange{}, false
	}
	c.index = end
	return c.source[start:end], diag.ByteRange{Start: start, End: end}, true
}

// NextLineRemaining consumes the rest of the current line (from the cursor
// to the next '\n', or EOF), strips a trailing '\r', and returns it
// trimmed of surrounding whitespace along with its byte range.
func (c *Cursor) NextLineRemaining() (string, diag.ByteRange) {
	start := c.index
	nl := strings.IndexByte(c.source[c.index:], '\n')
	var lineEnd int
	if nl < 0 {
		lineEnd = len(c.source)
	} else {
		lineEnd = c.index + nl
	}
	rangeEnd := lineEnd
	if rangeEnd > start && c.source[rangeEnd-1] == '\r' {
		rangeEnd--
	}
	c.index = lineEnd
	text := strings.TrimSpace(c.source[start:rangeEnd])
	return text, diag.ByteRange{Start: start, End: rangeEnd}
}

// SkipToNextLine advances the cursor past the next newline, if any.
func (c *Cursor) SkipToNextLine() {
	nl := strings.IndexByte(c.source[c.index:], '\n')
	if nl < 0 {
		c.index = len(c.source)
		return
	}
	c.index += nl + 1
}

// IsEnd reports whether no more tokens remain.
func (c *Cursor) IsEnd() bool {
	_, ok := c.PeekNextToken()
	return !ok
}

// Index returns the current byte offset.
func (c *Cursor) Index() int { return c.index }

func (c *Cursor) SaveCheckpoint() Checkpoint {
	return Checkpoint{index: c.index}
}

func (c *Cursor) RestoreCheckpoint(cp Checkpoint) {
	c.index = cp.index
}

// HereRange returns a zero-width byte range at the cursor's current
// position, for tagging diagnostics raised without a token to anchor on
// (mirrors Cursor::make_err_* in original_source/src/bms/lex/cursor.rs).
func (c *Cursor) HereRange() diag.ByteRange {
	return diag.ByteRange{Start: c.index, End: c.index}
}
