package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func mustCompile(t *testing.T, delimited string, opts Options) *Program {
	t.Helper()
	p, err := Compile(delimited, opts)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", delimited, err)
	}
	return p
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBackendSelection(t *testing.T) {
	tests := []struct {
		delimited string
		want      Backend
	}{
		{`#cat#`, BackendLiteral},
		{`#cat|dog|bird#`, BackendLiteral},
		{`#a\#b#`, BackendLiteral},
		{`#cat|dog#m`, BackendLiteral},
		{`#cat|dog#i`, BackendCoregex},
		{`#a+#`, BackendCoregex},
		{`#(a)(lol)?b#`, BackendCoregex},
		{`#foo|foobar#`, BackendCoregex}, // factored by the parser
		{`#a+#U`, BackendCoregex},
		{`#(?<=a)b#`, BackendRegexp2},
		{`#(a)\1#`, BackendRegexp2},
		{`#a + b#x`, BackendRegexp2},
	}

	for _, tt := range tests {
		t.Run(tt.delimited, func(t *testing.T) {
			p := mustCompile(t, tt.delimited, DefaultOptions())
			if p.Backend() != tt.want {
				t.Errorf("Backend() = %s, want %s", p.Backend(), tt.want)
			}
		})
	}
}

func TestForcedBackends(t *testing.T) {
	backends := []Backend{BackendAuto, BackendCoregex, BackendRegexp2}
	for _, b := range backends {
		t.Run(b.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Backend = b

			p := mustCompile(t, `#(a)(lol)?(b)#`, opts)
			loc, err := p.FindSubmatchIndex("xab")
			if err != nil {
				t.Fatal(err)
			}
			want := []int{1, 3, 1, 2, -1, -1, 2, 3}
			if !equalInts(loc, want) {
				t.Errorf("FindSubmatchIndex = %v, want %v", loc, want)
			}

			locs, err := p.FindAllSubmatchIndex("ab xab ab", -1)
			if err != nil {
				t.Fatal(err)
			}
			if len(locs) != 3 {
				t.Fatalf("FindAllSubmatchIndex found %d matches, want 3", len(locs))
			}
			if locs[1][0] != 4 || locs[2][0] != 7 {
				t.Errorf("match starts = %d, %d, want 4, 7", locs[1][0], locs[2][0])
			}
		})
	}
}

func TestLiteralBackend(t *testing.T) {
	opts := DefaultOptions()
	opts.Backend = BackendLiteral

	p := mustCompile(t, `#cat|dog#`, opts)

	loc, err := p.FindSubmatchIndex("hotdog cat")
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(loc, []int{3, 6}) {
		t.Errorf("FindSubmatchIndex = %v, want [3 6]", loc)
	}

	locs, err := p.FindAllSubmatchIndex("catdogcat", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(locs) != 2 || !equalInts(locs[1], []int{3, 6}) {
		t.Errorf("FindAllSubmatchIndex(n=2) = %v", locs)
	}

	if _, err := Compile(`#ca+t#`, opts); StatusOf(err) != InternalError {
		t.Errorf("literal backend accepted a non-literal pattern: %v", err)
	}
}

func TestRegexp2ByteOffsets(t *testing.T) {
	opts := DefaultOptions()
	opts.Backend = BackendRegexp2

	// "é" is two bytes; regexp2 reports rune indexes internally.
	p := mustCompile(t, `#(?<=é)(b)#`, opts)
	loc, err := p.FindSubmatchIndex("aéb")
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(loc, []int{3, 4, 3, 4}) {
		t.Errorf("FindSubmatchIndex = %v, want [3 4 3 4]", loc)
	}
}

func TestSubexpNames(t *testing.T) {
	p := mustCompile(t, `#(?P<year>\d+)-(\d+)#`, DefaultOptions())
	names := p.SubexpNames()
	if len(names) != 3 || names[1] != "year" || names[2] != "" {
		t.Errorf("coregex SubexpNames = %q", names)
	}

	opts := DefaultOptions()
	opts.Backend = BackendRegexp2
	p = mustCompile(t, `#(?<=x)(?<word>\w+)#`, opts)
	names = p.SubexpNames()
	if len(names) != 2 || names[1] != "word" {
		t.Errorf("regexp2 SubexpNames = %q", names)
	}

	p = mustCompile(t, `#cat|dog#`, DefaultOptions())
	if names := p.SubexpNames(); len(names) != 1 {
		t.Errorf("literal SubexpNames = %q", names)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		delimited string
		subject   string
		want      []int
	}{
		{`#abc#i`, "xABC", []int{1, 4}},
		{`#^b#m`, "a\nb", []int{2, 3}},
		{`#a.b#s`, "a\nb", []int{0, 3}},
		{`#a.b#`, "a\nb", nil},
		{`#a+#U`, "aaa", []int{0, 1}},
		{`#a b c#x`, "abc", []int{0, 3}},
		{`#a#S`, "a", []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.delimited, func(t *testing.T) {
			p := mustCompile(t, tt.delimited, DefaultOptions())
			loc, err := p.FindSubmatchIndex(tt.subject)
			if err != nil {
				t.Fatal(err)
			}
			if len(loc) > 2 {
				loc = loc[:2]
			}
			if !equalInts(loc, tt.want) {
				t.Errorf("FindSubmatchIndex(%q) = %v, want %v", tt.subject, loc, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	deep := "#" + strings.Repeat("(", 1200) + "a" + strings.Repeat(")", 1200) + "#"

	tests := []struct {
		name      string
		delimited string
		want      Status
	}{
		{"empty", ``, InternalError},
		{"no ending delimiter", `#abc`, InternalError},
		{"alphanumeric delimiter", `aabca`, InternalError},
		{"unknown modifier", `#abc#q`, InternalError},
		{"syntax error", `#(abc#`, InternalError},
		{"ungreedy extended", `#a#xU`, InternalError},
		{"nesting", deep, RecursionLimit},
		{"bad utf8 pattern", "#\xff#u", BadUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.delimited, DefaultOptions())
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, want %s", tt.delimited, tt.want)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}
			if e.Status != tt.want || e.Op != "compile" {
				t.Errorf("status = %s (op %s), want %s", e.Status, e.Op, tt.want)
			}
		})
	}
}

func TestBadUTF8Subject(t *testing.T) {
	p := mustCompile(t, `#a#u`, DefaultOptions())
	_, err := p.FindSubmatchIndex("a\xff")
	if StatusOf(err) != BadUTF8 {
		t.Errorf("FindSubmatchIndex status = %s, want BadUTF8", StatusOf(err))
	}
	_, err = p.FindAllSubmatchIndex("a\xff", -1)
	if StatusOf(err) != BadUTF8 {
		t.Errorf("FindAllSubmatchIndex status = %s, want BadUTF8", StatusOf(err))
	}

	// Without the flag invalid bytes are just bytes.
	p = mustCompile(t, `#a#`, DefaultOptions())
	if _, err := p.FindSubmatchIndex("a\xff"); err != nil {
		t.Errorf("unexpected error without u: %v", err)
	}
}

func TestMatchTimeout(t *testing.T) {
	opts := DefaultOptions()
	opts.Backend = BackendRegexp2
	opts.MatchTimeout = time.Millisecond

	p := mustCompile(t, `#^(a+)+$#`, opts)
	_, err := p.FindSubmatchIndex(strings.Repeat("a", 40) + "!")
	if StatusOf(err) != BacktrackLimit {
		t.Fatalf("status = %s (%v), want BacktrackLimit", StatusOf(err), err)
	}
}

func TestFindAllEmptyMatches(t *testing.T) {
	tests := []struct {
		subject string
		n       int
		want    [][]int
	}{
		{"axb", -1, [][]int{{0, 0}, {1, 2}, {3, 3}}},
		{"axxbx", -1, [][]int{{0, 0}, {1, 3}, {4, 5}}},
		{"", -1, [][]int{{0, 0}}},
		{"axb", 2, [][]int{{0, 0}, {1, 2}}},
		{"axb", 3, [][]int{{0, 0}, {1, 2}, {3, 3}}},
	}

	for _, b := range []Backend{BackendCoregex, BackendRegexp2} {
		opts := DefaultOptions()
		opts.Backend = b
		p := mustCompile(t, `#x*#`, opts)

		for _, tt := range tests {
			locs, err := p.FindAllSubmatchIndex(tt.subject, tt.n)
			if err != nil {
				t.Fatalf("%s: FindAllSubmatchIndex(%q) error: %v", b, tt.subject, err)
			}
			if len(locs) != len(tt.want) {
				t.Errorf("%s: FindAllSubmatchIndex(%q, %d) = %v, want %v", b, tt.subject, tt.n, locs, tt.want)
				continue
			}
			for i := range locs {
				if !equalInts(locs[i], tt.want[i]) {
					t.Errorf("%s: FindAllSubmatchIndex(%q, %d) = %v, want %v", b, tt.subject, tt.n, locs, tt.want)
					break
				}
			}
		}
	}
}

func TestSkipAdjacentEmpty(t *testing.T) {
	locs := [][]int{{0, 0}, {1, 2}, {2, 2}, {3, 3}, {3, 4}, {4, 4}}
	got := skipAdjacentEmpty(locs)
	want := [][]int{{0, 0}, {1, 2}, {3, 3}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("skipAdjacentEmpty = %v, want %v", got, want)
	}
	for i := range got {
		if !equalInts(got[i], want[i]) {
			t.Fatalf("skipAdjacentEmpty = %v, want %v", got, want)
		}
	}
}

func TestFindAllZero(t *testing.T) {
	p := mustCompile(t, `#a#`, DefaultOptions())
	locs, err := p.FindAllSubmatchIndex("aaa", 0)
	if err != nil || locs != nil {
		t.Errorf("FindAllSubmatchIndex(n=0) = %v, %v, want nil, nil", locs, err)
	}
}

func TestStatusOf(t *testing.T) {
	if StatusOf(nil) != NoError {
		t.Error("StatusOf(nil) != NoError")
	}
	if StatusOf(errors.New("x")) != InternalError {
		t.Error("foreign errors should be InternalError")
	}
	wrapped := &Error{Status: BacktrackLimit, Op: "match"}
	if StatusOf(wrapped) != BacktrackLimit {
		t.Error("StatusOf(*Error) lost the status")
	}
	if got := Status(42).String(); got != "UnknownStatus(42)" {
		t.Errorf("Status(42).String() = %q", got)
	}
}

func TestParseModifiers(t *testing.T) {
	f, err := ParseModifiers("imsxUuS")
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "imsxUuS" {
		t.Errorf("String() = %q", f.String())
	}
	if f, _ := ParseModifiers("ii\n"); f != CaseInsensitive {
		t.Errorf("ParseModifiers(repeated) = %v", f)
	}
	if _, err := ParseModifiers("e"); err == nil {
		t.Error("ParseModifiers(e) succeeded")
	}
}

func TestParseBackend(t *testing.T) {
	for _, b := range []Backend{BackendAuto, BackendCoregex, BackendRegexp2, BackendLiteral} {
		got, err := ParseBackend(b.String())
		if err != nil || got != b {
			t.Errorf("ParseBackend(%q) = %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseBackend("pcre2"); err == nil {
		t.Error("ParseBackend(pcre2) succeeded")
	}
}
