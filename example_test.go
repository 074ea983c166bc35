package pcre_test

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coregx/pcre"
	"github.com/coregx/pcre/engine"
)

// ExampleMatch demonstrates a single match with capture groups.
func ExampleMatch() {
	m, err := pcre.Match(`(\w+)@(\w+)\.com`, "mail: bob@example.com", 0)
	if err != nil {
		panic(err)
	}

	user, _ := m.Text(1)
	offset, _ := m.Offset(2)
	fmt.Println(user, offset)
	// Output: bob 10
}

// ExampleMatch_noMatch shows that a failed match is not an error.
func ExampleMatch_noMatch() {
	m, err := pcre.Match(`^F`, "Goo", 0)
	fmt.Println(m == nil, err)
	// Output: true <nil>
}

// ExampleMatch_Has demonstrates optional groups that did not participate.
func ExampleMatch_Has() {
	m, _ := pcre.Match(`(a)(lol)?(b)`, "ab", 0)
	fmt.Println(m.Has(1), m.Has(2), m.Has(3))
	// Output: true false true
}

// ExampleMatchAll demonstrates collecting every match.
func ExampleMatchAll() {
	matches, _ := pcre.MatchAll(`\d+`, "7 apples, 12 pears", 0)
	fmt.Println(matches.Strings())
	// Output: [7 12]
}

// ExampleReplace demonstrates a limited replacement with group references.
func ExampleReplace() {
	out, _ := pcre.Replace(`(#\w+) (\w+)`, "#foo bar #baz boo #bary bob", "$1 LOL", 2, 0)
	fmt.Println(out)
	// Output: #foo LOL #baz LOL #bary bob
}

// ExampleSplit demonstrates a limited split.
func ExampleSplit() {
	parts, _ := pcre.Split(`ab*`, "cabbcacbbcabbbcbcabb", 4, 0)
	fmt.Println(strings.Join(parts, ","))
	// Output: c,c,cbbc,cbcabb
}

// ExampleCompose shows how the delimiter is escaped.
func ExampleCompose() {
	fmt.Println(pcre.Compose(`a#b`, pcre.CaseInsensitive))
	// Output: #a\#b#i
}

// ExampleQuote demonstrates literal matching of arbitrary text.
func ExampleQuote() {
	m, _ := pcre.Match(pcre.Quote("1+1=2"), "is 1+1=2?", 0)
	fmt.Println(pcre.Quote("1+1=2"), m.String())
	// Output: 1\+1\=2 1+1=2
}

// ExampleNew demonstrates a custom configuration.
func ExampleNew() {
	config := pcre.DefaultConfig()
	config.Delimiter = '~'
	config.Backend = engine.BackendRegexp2
	config.MatchTimeout = 100 * time.Millisecond

	p, err := pcre.New(config)
	if err != nil {
		panic(err)
	}

	m, _ := p.Match(`(?<=\$)\d+`, "total $42", 0)
	fmt.Println(p.Compose(`a~b`, 0), m.String())
	// Output: ~a\~b~ 42
}

// ExampleEngineError demonstrates inspecting an engine failure.
func ExampleEngineError() {
	_, err := pcre.Match(`(unclosed`, "x", 0)

	var ee *pcre.EngineError
	if errors.As(err, &ee) {
		fmt.Println(ee.Code, ee.Message)
	}
	fmt.Println(errors.Is(err, pcre.ErrInternal))
	// Output:
	// 1 Internal PCRE error
	// true
}
