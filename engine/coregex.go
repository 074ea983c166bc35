package engine

import (
	"fmt"

	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"
)

// coregexMatcher runs patterns on coregex.
type coregexMatcher struct {
	re    *coregex.Regex
	names []string
}

// coregexFlags renders flags as an inline group such as "(?imsU)".
// Extended has no RE2 equivalent.
func coregexFlags(flags Flags) (string, error) {
	if flags.Has(Extended) {
		return "", fmt.Errorf("modifier 'x' is not supported by coregex")
	}

	var inline []byte
	if flags.Has(CaseInsensitive) {
		inline = append(inline, 'i')
	}
	if flags.Has(Multiline) {
		inline = append(inline, 'm')
	}
	if flags.Has(DotAll) {
		inline = append(inline, 's')
	}
	if flags.Has(Ungreedy) {
		inline = append(inline, 'U')
	}
	if len(inline) == 0 {
		return "", nil
	}
	return "(?" + string(inline) + ")", nil
}

func compileCoregex(body string, flags Flags, config meta.Config) (matcher, error) {
	prefix, err := coregexFlags(flags)
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}

	re, err := coregex.CompileWithConfig(prefix+body, config)
	if err != nil {
		return nil, &Error{Status: compileStatus(err), Op: "compile", Err: err}
	}

	// Copy: the slice returned by SubexpNames is shared.
	names := append([]string(nil), re.SubexpNames()...)
	if len(names) == 0 {
		names = []string{""}
	}
	return &coregexMatcher{re: re, names: names}, nil
}

func (m *coregexMatcher) findSubmatchIndex(s string) ([]int, error) {
	loc := m.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, nil
	}
	return m.pad(loc), nil
}

func (m *coregexMatcher) findAllSubmatchIndex(s string, n int) ([][]int, error) {
	locs := m.re.FindAllStringSubmatchIndex(s, n)
	for i, loc := range locs {
		locs[i] = m.pad(loc)
	}
	return locs, nil
}

func (m *coregexMatcher) subexpNames() []string {
	return m.names
}

// pad extends loc with -1 pairs so that every group has an entry.
func (m *coregexMatcher) pad(loc []int) []int {
	want := 2 * len(m.names)
	for len(loc) < want {
		loc = append(loc, -1)
	}
	return loc
}
