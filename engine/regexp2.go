package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/coregx/pcre/internal/conv"
)

// regexp2Matcher runs patterns on the backtracking regexp2 engine.
//
// regexp2 reports rune indexes; they are converted to byte offsets per
// subject.
type regexp2Matcher struct {
	re      *regexp2.Regexp
	numbers []int // group numbers in ascending order
	names   []string
}

func regexp2Options(flags Flags) (regexp2.RegexOptions, error) {
	if flags.Has(Ungreedy) {
		return 0, fmt.Errorf("modifier 'U' is not supported by regexp2")
	}

	opts := regexp2.None
	if flags.Has(CaseInsensitive) {
		opts |= regexp2.IgnoreCase
	}
	if flags.Has(Multiline) {
		opts |= regexp2.Multiline
	}
	if flags.Has(DotAll) {
		opts |= regexp2.Singleline
	}
	if flags.Has(Extended) {
		opts |= regexp2.IgnorePatternWhitespace
	}
	return opts, nil
}

func compileRegexp2(body string, flags Flags, timeout time.Duration) (matcher, error) {
	opts, err := regexp2Options(flags)
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}

	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	numbers := re.GetGroupNumbers()
	highest := 0
	for _, n := range numbers {
		if n > highest {
			highest = n
		}
	}

	names := make([]string, highest+1)
	for _, n := range numbers {
		if n == 0 {
			continue
		}
		// Unnamed groups are named after their number.
		if name := re.GroupNameFromNumber(n); name != strconv.Itoa(n) {
			names[n] = name
		}
	}

	return &regexp2Matcher{re: re, numbers: numbers, names: names}, nil
}

func (m *regexp2Matcher) findSubmatchIndex(s string) ([]int, error) {
	match, err := m.re.FindStringMatch(s)
	if err != nil {
		return nil, searchError("match", err)
	}
	if match == nil {
		return nil, nil
	}
	return m.indexes(match, conv.NewRuneOffsets(s)), nil
}

func (m *regexp2Matcher) findAllSubmatchIndex(s string, n int) ([][]int, error) {
	offsets := conv.NewRuneOffsets(s)

	var locs [][]int
	match, err := m.re.FindStringMatch(s)
	for match != nil {
		locs = append(locs, m.indexes(match, offsets))
		if n > 0 && len(locs) >= n {
			break
		}
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return nil, searchError("match-all", err)
	}
	return locs, nil
}

func (m *regexp2Matcher) subexpNames() []string {
	return m.names
}

// indexes converts a regexp2 match into byte offset pairs.
func (m *regexp2Matcher) indexes(match *regexp2.Match, offsets conv.RuneOffsets) []int {
	loc := make([]int, 2*len(m.names))
	for i := range loc {
		loc[i] = -1
	}
	for _, n := range m.numbers {
		g := match.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		loc[2*n] = offsets.Byte(g.Index)
		loc[2*n+1] = offsets.Byte(g.Index + g.Length)
	}
	return loc
}

// searchError classifies a regexp2 search error. regexp2 only fails a
// search when MatchTimeout elapses, which is where a backtracking engine
// gives up.
func searchError(op string, err error) error {
	return &Error{Status: BacktrackLimit, Op: op, Err: err}
}
