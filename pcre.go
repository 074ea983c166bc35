// Package pcre runs delimited regular expressions and returns match objects
// with named accessors.
//
// Each operation composes a delimited pattern from a raw pattern and Flags,
// compiles it with the engine package, and translates any engine failure
// into an *EngineError carrying a message and a numeric code. A pattern that
// does not match is not an error.
//
// Basic usage:
//
//	m, err := pcre.Match(`(\w+)@(\w+)\.com`, "mail bob@example.com", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m != nil {
//	    user, _ := m.Text(1) // "bob"
//	}
//
//	out, _ := pcre.Replace(`(#\w+) (\w+)`, "#foo bar #baz boo", "$1 LOL", pcre.NoLimit, 0)
//	// out == "#foo LOL #baz LOL"
//
//	parts, _ := pcre.Split(`\s*,\s*`, "a , b,c", pcre.NoLimit, 0)
//	// parts == ["a", "b", "c"]
//
// The delimiter (default '#') may appear freely in patterns; it is escaped
// before composition.
//
// Engines:
//   - coregex: RE2 syntax, linear time, used by default
//   - regexp2: backtracking, used for lookaround, backreferences and the
//     Extended flag when coregex cannot compile the pattern
//   - literal: Aho-Corasick for plain literal alternations
package pcre

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coregx/pcre/delim"
	"github.com/coregx/pcre/engine"
)

// Flags is a set of pattern modifiers. See the engine package constants.
type Flags = engine.Flags

// Modifiers.
const (
	CaseInsensitive = engine.CaseInsensitive // i
	Multiline       = engine.Multiline       // m
	DotAll          = engine.DotAll          // s
	Extended        = engine.Extended        // x
	Ungreedy        = engine.Ungreedy        // U
	UTF8            = engine.UTF8            // u
	Study           = engine.Study           // S
)

// NoLimit as a limit for Replace and Split means no limit.
const NoLimit = -1

// PCRE runs delimited patterns with a fixed configuration.
//
// A PCRE is safe for concurrent use by multiple goroutines.
type PCRE struct {
	config Config
	opts   engine.Options
	cache  *lru.Cache[string, *engine.Program]
}

// New creates a PCRE with the given configuration.
func New(config Config) (*PCRE, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &PCRE{
		config: config,
		opts: engine.Options{
			Backend:      config.Backend,
			MatchTimeout: config.MatchTimeout,
			Coregex:      config.Engine,
		},
	}

	if config.CacheSize > 0 {
		cache, err := lru.New[string, *engine.Program](config.CacheSize)
		if err != nil {
			return nil, &ConfigError{Field: "CacheSize", Message: err.Error()}
		}
		p.cache = cache
	}
	return p, nil
}

// MustNew is like New but panics if the configuration is invalid.
func MustNew(config Config) *PCRE {
	p, err := New(config)
	if err != nil {
		panic(err)
	}
	return p
}

var std = MustNew(DefaultConfig())

// Default returns the instance used by the package-level functions.
func Default() *PCRE {
	return std
}

// Config returns the configuration of p.
func (p *PCRE) Config() Config {
	return p.config
}

// Compose returns pattern escaped for the delimiter of p and enclosed in it,
// followed by the modifier letters of flags.
//
// Example:
//
//	pcre.Compose(`a#b`, pcre.CaseInsensitive) // `#a\#b#i`
func (p *PCRE) Compose(pattern string, flags Flags) string {
	return delim.Wrap(pattern, p.config.Delimiter, flags.String())
}

// Compile composes and compiles pattern, consulting the cache first.
func (p *PCRE) Compile(pattern string, flags Flags) (*engine.Program, error) {
	source := p.Compose(pattern, flags)

	if p.cache != nil {
		if prog, ok := p.cache.Get(source); ok {
			return prog, nil
		}
	}

	log := Logger()
	opts := p.opts
	opts.Logger = log

	prog, err := engine.Compile(source, opts)
	if err := checkError(err); err != nil {
		log.Warn().Str("pattern", source).Err(err).Msg("compile failed")
		return nil, err
	}

	if p.cache != nil {
		p.cache.Add(source, prog)
		log.Debug().Str("pattern", source).Stringer("backend", prog.Backend()).Msg("cached compiled pattern")
	}
	return prog, nil
}

// Match returns the leftmost match of pattern in subject, or nil if there
// is none. Offsets are byte offsets into subject.
func (p *PCRE) Match(pattern, subject string, flags Flags) (*Match, error) {
	prog, err := p.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}

	loc, err := prog.FindSubmatchIndex(subject)
	if err := p.check("match", prog, err); err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	if err := validateLoc("match", loc, len(subject)); err != nil {
		return nil, err
	}
	return newMatch(subject, loc, prog.SubexpNames()), nil
}

// MatchAll returns every non-overlapping match of pattern in subject, in
// order. The collection is empty when nothing matches.
func (p *PCRE) MatchAll(pattern, subject string, flags Flags) (MatchCollection, error) {
	prog, err := p.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}

	locs, err := prog.FindAllSubmatchIndex(subject, -1)
	if err := p.check("match-all", prog, err); err != nil {
		return nil, err
	}
	if err := validateLocs("match-all", locs, len(subject)); err != nil {
		return nil, err
	}

	if len(locs) == 0 {
		return nil, nil
	}
	names := prog.SubexpNames()
	matches := make(MatchCollection, len(locs))
	for i, loc := range locs {
		matches[i] = newMatch(subject, loc, names)
	}
	return matches, nil
}

// Replace replaces up to limit matches of pattern in subject with
// replacement. A negative limit (NoLimit) replaces every match; zero
// replaces none.
//
// Inside replacement, $n, ${n} and \n (n from 0 to 99) refer to capture
// group n; groups that did not participate expand to nothing. \$ and \\
// are a literal dollar and backslash.
//
// An empty match directly after the previous match is not replaced, as
// with the regexp package and unlike PHP: Replace(`x*`, "axb", "-", ...)
// gives "-a-b-" where preg_replace gives "-a--b-".
func (p *PCRE) Replace(pattern, subject, replacement string, limit int, flags Flags) (string, error) {
	if limit < 0 {
		limit = NoLimit
	}

	prog, err := p.Compile(pattern, flags)
	if err != nil {
		return "", err
	}
	if limit == 0 {
		return subject, nil
	}

	locs, err := prog.FindAllSubmatchIndex(subject, limit)
	if err := p.check("replace", prog, err); err != nil {
		return "", err
	}
	if err := validateLocs("replace", locs, len(subject)); err != nil {
		return "", err
	}
	if len(locs) == 0 {
		return subject, nil
	}

	var b strings.Builder
	b.Grow(len(subject) + len(replacement)*len(locs))
	last := 0
	for _, loc := range locs {
		b.WriteString(subject[last:loc[0]])
		expand(&b, replacement, subject, loc)
		last = loc[1]
	}
	b.WriteString(subject[last:])
	return b.String(), nil
}

// Split slices subject around the matches of pattern and returns at most
// limit pieces; the last piece is the unsplit remainder. A negative limit
// (NoLimit) returns all pieces; a limit of zero is treated as one.
//
// An empty match directly after the previous match does not split, as with
// the regexp package and unlike PHP: Split(`x*`, "axb", ...) gives
// ["", "a", "b", ""] where preg_split gives ["", "a", "", "b", ""].
func (p *PCRE) Split(pattern, subject string, limit int, flags Flags) ([]string, error) {
	switch {
	case limit < 0:
		limit = NoLimit
	case limit == 0:
		limit = 1
	}

	prog, err := p.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if limit == 1 {
		return []string{subject}, nil
	}

	n := NoLimit
	if limit > 0 {
		n = limit - 1
	}
	locs, err := prog.FindAllSubmatchIndex(subject, n)
	if err := p.check("split", prog, err); err != nil {
		return nil, err
	}
	if err := validateLocs("split", locs, len(subject)); err != nil {
		return nil, err
	}

	pieces := make([]string, 0, len(locs)+1)
	last := 0
	for _, loc := range locs {
		pieces = append(pieces, subject[last:loc[0]])
		last = loc[1]
	}
	return append(pieces, subject[last:]), nil
}

// Quote escapes every regular expression metacharacter in text, and the
// delimiter of p, so that the result matches text literally.
func (p *PCRE) Quote(text string) string {
	return quote(text, p.config.Delimiter)
}

// check translates a search error and logs it.
func (p *PCRE) check(op string, prog *engine.Program, err error) error {
	err = checkError(err)
	if err != nil {
		Logger().Warn().
			Str("op", op).
			Str("pattern", prog.String()).
			Stringer("backend", prog.Backend()).
			Err(err).
			Msg("engine error")
	}
	return err
}

// validateLoc checks that loc is a well-formed set of index pairs inside a
// subject of length n.
func validateLoc(op string, loc []int, n int) error {
	if len(loc) < 2 || len(loc)%2 != 0 {
		return &UnexpectedResultError{Op: op, Reason: "odd or empty index list"}
	}
	for i := 0; i < len(loc); i += 2 {
		start, end := loc[i], loc[i+1]
		if start == -1 && end == -1 && i > 0 {
			continue
		}
		if start < 0 || end < start || end > n {
			return &UnexpectedResultError{Op: op, Reason: "group offsets out of range"}
		}
	}
	return nil
}

// validateLocs also requires matches to be ordered and non-overlapping.
func validateLocs(op string, locs [][]int, n int) error {
	last := 0
	for _, loc := range locs {
		if err := validateLoc(op, loc, n); err != nil {
			return err
		}
		if loc[0] < last {
			return &UnexpectedResultError{Op: op, Reason: "matches out of order"}
		}
		last = loc[1]
	}
	return nil
}

// Match runs Default().Match.
func Match(pattern, subject string, flags Flags) (*Match, error) {
	return std.Match(pattern, subject, flags)
}

// MatchAll runs Default().MatchAll.
func MatchAll(pattern, subject string, flags Flags) (MatchCollection, error) {
	return std.MatchAll(pattern, subject, flags)
}

// Replace runs Default().Replace.
func Replace(pattern, subject, replacement string, limit int, flags Flags) (string, error) {
	return std.Replace(pattern, subject, replacement, limit, flags)
}

// Split runs Default().Split.
func Split(pattern, subject string, limit int, flags Flags) ([]string, error) {
	return std.Split(pattern, subject, limit, flags)
}

// Compose runs Default().Compose.
func Compose(pattern string, flags Flags) string {
	return std.Compose(pattern, flags)
}

// Quote runs Default().Quote.
func Quote(text string) string {
	return std.Quote(text)
}
