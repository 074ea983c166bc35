package engine

import (
	"fmt"
	"strings"
)

// Flags is a set of pattern modifiers.
//
// Flags render as the modifier letters that follow the closing delimiter of
// a delimited pattern, e.g. "#abc#im".
type Flags uint16

const (
	// CaseInsensitive makes letters match both cases (modifier "i").
	CaseInsensitive Flags = 1 << iota

	// Multiline makes ^ and $ match at line boundaries (modifier "m").
	Multiline

	// DotAll makes . match newlines (modifier "s").
	DotAll

	// Extended ignores unescaped whitespace and #-comments in the pattern
	// (modifier "x"). Only the regexp2 backend implements it.
	Extended

	// Ungreedy swaps the meaning of x* and x*? (modifier "U").
	// Only the coregex backend implements it.
	Ungreedy

	// UTF8 rejects patterns and subjects that are not valid UTF-8
	// (modifier "u").
	UTF8

	// Study is accepted for compatibility and has no effect (modifier "S").
	Study
)

var modifierLetters = []struct {
	flag   Flags
	letter byte
}{
	{CaseInsensitive, 'i'},
	{Multiline, 'm'},
	{DotAll, 's'},
	{Extended, 'x'},
	{Ungreedy, 'U'},
	{UTF8, 'u'},
	{Study, 'S'},
}

// ParseModifiers parses modifier letters into Flags.
// Repeated letters are allowed. Newlines and spaces are ignored.
func ParseModifiers(modifiers string) (Flags, error) {
	var f Flags
	for i := 0; i < len(modifiers); i++ {
		c := modifiers[i]
		if c == '\n' || c == '\r' || c == ' ' {
			continue
		}
		known := false
		for _, m := range modifierLetters {
			if m.letter == c {
				f |= m.flag
				known = true
				break
			}
		}
		if !known {
			return 0, fmt.Errorf("unknown modifier '%c'", c)
		}
	}
	return f, nil
}

// String returns the modifier letters for f in canonical order.
func (f Flags) String() string {
	var b strings.Builder
	for _, m := range modifierLetters {
		if f&m.flag != 0 {
			b.WriteByte(m.letter)
		}
	}
	return b.String()
}

// Has reports whether all flags in g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}
