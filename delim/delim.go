// Package delim handles delimited regular expressions of the form
// "#body#modifiers".
//
// A delimited pattern carries its own boundaries so that option modifiers
// can follow the body. Any occurrence of the delimiter inside the body must
// be escaped, otherwise the body would end early:
//
//	delim.Wrap(`a#b`, '#', "i") // `#a\#b#i`
//
// The package does not validate the body as a regular expression.
package delim

import (
	"errors"
	"strings"
)

// Default is the delimiter used when none is configured.
const Default byte = '#'

var (
	// ErrEmpty indicates an empty delimited pattern.
	ErrEmpty = errors.New("empty regular expression")

	// ErrInvalidDelimiter indicates a delimiter outside Delimiters.
	ErrInvalidDelimiter = errors.New("delimiter must be one of " + Delimiters)

	// ErrNoEndingDelimiter indicates that the closing delimiter is missing.
	ErrNoEndingDelimiter = errors.New("no ending delimiter")
)

// Delimiters lists the bytes accepted as delimiters. None of them is a
// regex metacharacter or part of group, quantifier or class syntax, so
// escaping them leaves the meaning of a pattern unchanged.
const Delimiters = "#~/%@;\"`&"

// Valid reports whether d can delimit a pattern.
func Valid(d byte) error {
	if d == 0 || strings.IndexByte(Delimiters, d) < 0 {
		return ErrInvalidDelimiter
	}
	return nil
}

// Escape inserts a backslash before every d in pattern that is not already
// escaped, i.e. not preceded by an odd number of backslashes.
//
// Only raw, undelimited input should be passed in, once.
//
// Example:
//
//	delim.Escape(`a#b\#c\\#d`, '#') // `a\#b\#c\\\#d`
func Escape(pattern string, d byte) string {
	if strings.IndexByte(pattern, d) < 0 {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern) + 4)

	backslashes := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == d && backslashes%2 == 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)

		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}
	return b.String()
}

// Wrap escapes pattern for d and encloses it in d, appending modifiers after
// the closing delimiter.
func Wrap(pattern string, d byte, modifiers string) string {
	escaped := Escape(pattern, d)

	var b strings.Builder
	b.Grow(len(escaped) + len(modifiers) + 2)
	b.WriteByte(d)
	b.WriteString(escaped)
	b.WriteByte(d)
	b.WriteString(modifiers)
	return b.String()
}

// Unwrap splits a delimited pattern into its body, delimiter and modifiers.
//
// The first byte is the delimiter. The body ends at the first delimiter that
// is not escaped by a backslash; escapes are kept in the body as written.
// Everything after the closing delimiter is returned as modifiers.
func Unwrap(delimited string) (body string, d byte, modifiers string, err error) {
	if delimited == "" {
		return "", 0, "", ErrEmpty
	}

	d = delimited[0]
	if err := Valid(d); err != nil {
		return "", d, "", err
	}

	for i := 1; i < len(delimited); i++ {
		switch delimited[i] {
		case '\\':
			// Skip the escaped byte.
			i++
		case d:
			return delimited[1:i], d, delimited[i+1:], nil
		}
	}
	return "", d, "", ErrNoEndingDelimiter
}
