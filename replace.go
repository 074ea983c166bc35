package pcre

import "strings"

// expand appends template to b, replacing group references with the text
// of the corresponding submatch of src.
//
// References are $n, ${n} and \n, where n is one or two decimal digits;
// two digits are always read as one number, so "$12" is group 12 and
// "${1}2" is group 1 followed by "2". References to groups that do not
// exist or did not participate expand to nothing. "\\" and "\$" stand for
// a literal backslash and dollar. Anything else is copied as is, including
// a lone "$" or "\".
func expand(b *strings.Builder, template, src string, match []int) {
	i := 0
	for i < len(template) {
		c := template[i]
		if (c != '$' && c != '\\') || i+1 >= len(template) {
			b.WriteByte(c)
			i++
			continue
		}

		group, width := -1, 0
		switch next := template[i+1]; {
		case isDigit(next):
			group, width = readGroup(template[i+1:])
			width++
		case c == '$' && next == '{':
			if n, w := readGroup(template[i+2:]); w > 0 && i+2+w < len(template) && template[i+2+w] == '}' {
				group, width = n, w+3
			}
		case c == '\\' && next == '\\':
			// "\\" is a literal backslash.
			b.WriteByte('\\')
			i += 2
			continue
		case c == '\\' && next == '$':
			b.WriteByte('$')
			i += 2
			continue
		}

		if width == 0 {
			b.WriteByte(c)
			i++
			continue
		}

		if 2*group+1 < len(match) && match[2*group] >= 0 {
			b.WriteString(src[match[2*group]:match[2*group+1]])
		}
		i += width
	}
}

// readGroup reads up to two leading digits of s.
func readGroup(s string) (n, width int) {
	for width < 2 && width < len(s) && isDigit(s[width]) {
		n = n*10 + int(s[width]-'0')
		width++
	}
	return n, width
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// quote escapes regex metacharacters in text, plus d.
// NUL is written as \x00 so the result stays printable.
func quote(text string, d byte) string {
	const special = `.\+*?[^]$(){}=!<>|:-#/`

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == 0:
			b.WriteString(`\x00`)
			continue
		case c == d || strings.IndexByte(special, c) >= 0:
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
