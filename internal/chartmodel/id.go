package chartmodel

import "strings"

// ObjectID is the 2-character BMS object identifier (spec.md §3
// "Identifiers"). "00" denotes absent. Decoding is base-36 by default, or
// base-62 when the chart's metadata sets CaseSensitiveObjectID.
type ObjectID struct {
	chars [2]byte
}

const absentChars = "00"

// AbsentObjectID is the sentinel "00" id.
var AbsentObjectID = ObjectID{chars: [2]byte{'0', '0'}}

// NewObjectID builds an ObjectID from its exact two source characters.
// Equality is exact on both characters, per spec.md §3.
func NewObjectID(a, b byte) ObjectID {
	return ObjectID{chars: [2]byte{a, b}}
}

// ParseObjectID reads a 2-character token. ok is false if s is not exactly
// two characters or contains characters outside the accepted alphabet for
// the given case-sensitivity mode. In non-case-sensitive mode, base-36 ids
// are conventionally case-insensitive, so lowercase a-z is folded to
// uppercase rather than rejected.
func ParseObjectID(s string, caseSensitive bool) (ObjectID, bool) {
	if len(s) != 2 {
		return ObjectID{}, false
	}
	a, ok := normalizeIDChar(s[0], caseSensitive)
	if !ok {
		return ObjectID{}, false
	}
	b, ok := normalizeIDChar(s[1], caseSensitive)
	if !ok {
		return ObjectID{}, false
	}
	return ObjectID{chars: [2]byte{a, b}}, true
}

func normalizeIDChar(c byte, caseSensitive bool) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c, true
	case c >= 'A' && c <= 'Z':
		return c, true
	case c >= 'a' && c <= 'z':
		if caseSensitive {
			return c, true
		}
		return c - ('a' - 'A'), true
	default:
		return 0, false
	}
}

func (id ObjectID) String() string {
	return string(id.chars[:])
}

// IsAbsent reports whether id is the "00" sentinel.
func (id ObjectID) IsAbsent() bool {
	return id.chars == [2]byte{'0', '0'}
}

// Value returns the numeric interpretation of id as a 16-bit index, base-36
// (default) or base-62 (case-sensitive mode), per spec.md §3.
func (id ObjectID) Value(caseSensitive bool) uint16 {
	base := uint16(36)
	if caseSensitive {
		base = 62
	}
	hi := digitValue(id.chars[0], caseSensitive)
	lo := digitValue(id.chars[1], caseSensitive)
	return hi*base + lo
}

func digitValue(c byte, caseSensitive bool) uint16 {
	switch {
	case c >= '0' && c <= '9':
		return uint16(c - '0')
	case c >= 'A' && c <= 'Z':
		return uint16(c-'A') + 10
	case caseSensitive && c >= 'a' && c <= 'z':
		return uint16(c-'a') + 36
	default:
		return 0
	}
}

// Less provides a deterministic total order over ids for use as map keys in
// ordered output (Go maps don't order; round-trip and timeline emission
// need a stable order for ids encountered at the same position).
func (id ObjectID) Less(other ObjectID) bool {
	return strings.Compare(id.String(), other.String()) < 0
}
