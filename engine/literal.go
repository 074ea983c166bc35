package engine

import (
	"regexp/syntax"

	"github.com/coregx/ahocorasick"
)

// literalMatcher finds plain literal alternations such as "cat|dog|bird"
// with an Aho-Corasick automaton. It never has capture groups.
type literalMatcher struct {
	auto *ahocorasick.Automaton
}

// literalFlags are the modifiers that cannot change how a literal matches.
const literalFlags = Multiline | DotAll | Ungreedy | UTF8 | Study

// literalAlternation reports whether body is a literal or an alternation
// of literals, and returns them in priority order.
//
// The parser factors common prefixes and merges single characters into
// classes ("foo|foobar" becomes "foo(?:bar)?", "a|b" becomes "[ab]"); such
// bodies are not literal alternations and go to a regex backend.
func literalAlternation(body string, flags Flags) ([]string, bool) {
	if flags&^literalFlags != 0 {
		return nil, false
	}

	re, err := syntax.Parse(body, syntax.Perl)
	if err != nil {
		return nil, false
	}

	literal := func(re *syntax.Regexp) (string, bool) {
		if re.Op != syntax.OpLiteral || re.Flags&syntax.FoldCase != 0 || len(re.Rune) == 0 {
			return "", false
		}
		return string(re.Rune), true
	}

	switch re.Op {
	case syntax.OpLiteral:
		lit, ok := literal(re)
		if !ok {
			return nil, false
		}
		return []string{lit}, true
	case syntax.OpAlternate:
		lits := make([]string, 0, len(re.Sub))
		for _, sub := range re.Sub {
			lit, ok := literal(sub)
			if !ok {
				return nil, false
			}
			lits = append(lits, lit)
		}
		return lits, true
	}
	return nil, false
}

func compileLiteral(lits []string) (matcher, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}
	return &literalMatcher{auto: auto}, nil
}

func (m *literalMatcher) findSubmatchIndex(s string) ([]int, error) {
	found := m.auto.Find([]byte(s), 0)
	if found == nil {
		return nil, nil
	}
	return []int{found.Start, found.End}, nil
}

func (m *literalMatcher) findAllSubmatchIndex(s string, n int) ([][]int, error) {
	haystack := []byte(s)

	var locs [][]int
	for at := 0; at < len(haystack); {
		found := m.auto.Find(haystack, at)
		if found == nil {
			break
		}
		locs = append(locs, []int{found.Start, found.End})
		if n > 0 && len(locs) >= n {
			break
		}
		at = found.End
	}
	return locs, nil
}

func (m *literalMatcher) subexpNames() []string {
	return []string{""}
}
