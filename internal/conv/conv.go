// Package conv converts between the position units used by the regex
// backends.
//
// coregex reports byte offsets. regexp2 runs on a []rune copy of the subject
// and reports rune indexes. Match results are always exposed as byte offsets,
// so regexp2 positions go through a RuneOffsets table first.
package conv

import "unicode/utf8"

// RuneOffsets maps rune indexes of a string to byte offsets.
//
// Entry i is the byte offset of the i-th rune; the final entry is len(s), so
// an index one past the last rune (the end of a match) is valid. Invalid
// UTF-8 bytes count as one rune each, which is how both range loops and
// []rune(s) decode them.
type RuneOffsets []int

// NewRuneOffsets builds the offset table for s.
// It returns nil when s is pure ASCII, in which case rune indexes and byte
// offsets coincide.
func NewRuneOffsets(s string) RuneOffsets {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return nil
	}

	offsets := make(RuneOffsets, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

// Byte returns the byte offset of rune index r.
// Panics if r is outside [0, rune count].
//
//go:inline
func (o RuneOffsets) Byte(r int) int {
	if o == nil {
		return r
	}
	if r < 0 || r >= len(o) {
		panic("conv: rune index out of range")
	}
	return o[r]
}
