package pcre

// Group is one capture group of a match.
type Group struct {
	Index  int
	Name   string // empty for unnamed groups
	Text   string
	Offset int // byte offset of Text in the subject
}

// End returns the byte offset just past the group text.
func (g Group) End() int {
	return g.Offset + len(g.Text)
}

// Match is a single match of a pattern against a subject.
//
// Group 0 is the whole match. Groups that did not take part in the match are
// absent: Has reports false for them and Text/Offset return a *GroupError,
// even when a later group did participate. For `(a)(lol)?(b)` against "ab",
// groups 0, 1 and 3 are present and group 2 is not.
//
// A Match is immutable.
type Match struct {
	groups []*Group // nil entries are absent groups
}

// MatchCollection holds successive matches in subject order.
type MatchCollection []*Match

// newMatch builds a Match from regexp-style index pairs.
// Pairs with a start of -1 are dropped.
func newMatch(subject string, loc []int, names []string) *Match {
	n := len(loc) / 2
	groups := make([]*Group, n)
	for i := 0; i < n; i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start == -1 {
			continue
		}
		g := &Group{Index: i, Text: subject[start:end], Offset: start}
		if i < len(names) {
			g.Name = names[i]
		}
		groups[i] = g
	}
	return &Match{groups: groups}
}

// Has reports whether group n participated in the match.
func (m *Match) Has(n int) bool {
	return n >= 0 && n < len(m.groups) && m.groups[n] != nil
}

// HasSubPattern reports whether group n participated in the match.
//
// Deprecated: use Has.
func (m *Match) HasSubPattern(n int) bool {
	return m.Has(n)
}

// Group returns group n and whether it is present.
func (m *Match) Group(n int) (Group, bool) {
	if !m.Has(n) {
		return Group{}, false
	}
	return *m.groups[n], true
}

// Named returns the group with the given name and whether it is present.
func (m *Match) Named(name string) (Group, bool) {
	if name == "" {
		return Group{}, false
	}
	for _, g := range m.groups {
		if g != nil && g.Name == name {
			return *g, true
		}
	}
	return Group{}, false
}

// Text returns the text of group n.
func (m *Match) Text(n int) (string, error) {
	if !m.Has(n) {
		return "", &GroupError{Index: n}
	}
	return m.groups[n].Text, nil
}

// Offset returns the byte offset of group n in the subject.
func (m *Match) Offset(n int) (int, error) {
	if !m.Has(n) {
		return 0, &GroupError{Index: n}
	}
	return m.groups[n].Offset, nil
}

// Groups returns the present groups in index order.
func (m *Match) Groups() []Group {
	groups := make([]Group, 0, len(m.groups))
	for _, g := range m.groups {
		if g != nil {
			groups = append(groups, *g)
		}
	}
	return groups
}

// String returns the text of the whole match.
func (m *Match) String() string {
	if !m.Has(0) {
		return ""
	}
	return m.groups[0].Text
}

// Strings returns the whole-match text of every match.
func (c MatchCollection) Strings() []string {
	if len(c) == 0 {
		return nil
	}
	out := make([]string, len(c))
	for i, m := range c {
		out[i] = m.String()
	}
	return out
}
