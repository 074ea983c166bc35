// Package engine compiles delimited patterns and runs them on one of several
// regex backends.
//
// A delimited pattern such as "#(\w+)@example#i" is split into its body and
// modifier letters, then compiled by a backend:
//   - coregex: RE2 syntax, linear time, the default
//   - regexp2: backtracking, Perl/.NET syntax (lookaround, backreferences)
//   - literal: Aho-Corasick for bodies that are plain literal alternations
//
// BackendAuto picks literal when possible, then coregex, and falls back to
// regexp2 when coregex rejects the pattern or a modifier needs it.
//
// Every call returns its own error. Failures are *Error values carrying a
// Status, so callers never consult shared state to learn what went wrong.
package engine

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"
	"github.com/rs/zerolog"

	"github.com/coregx/pcre/delim"
)

// Backend selects the regex implementation.
type Backend uint8

const (
	// BackendAuto selects literal, coregex or regexp2 per pattern.
	BackendAuto Backend = iota

	// BackendCoregex always uses coregex.
	BackendCoregex

	// BackendRegexp2 always uses regexp2.
	BackendRegexp2

	// BackendLiteral always uses the Aho-Corasick literal matcher and fails
	// for patterns that are not plain literal alternations.
	BackendLiteral
)

// String returns the backend name as accepted by ParseBackend.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendCoregex:
		return "coregex"
	case BackendRegexp2:
		return "regexp2"
	case BackendLiteral:
		return "literal"
	default:
		return fmt.Sprintf("Backend(%d)", b)
	}
}

// ParseBackend parses a backend name.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "", "auto":
		return BackendAuto, nil
	case "coregex":
		return BackendCoregex, nil
	case "regexp2":
		return BackendRegexp2, nil
	case "literal":
		return BackendLiteral, nil
	}
	return BackendAuto, fmt.Errorf("unknown backend %q", name)
}

// Options controls compilation.
type Options struct {
	Backend Backend

	// MatchTimeout bounds a single regexp2 search. Zero means no bound.
	MatchTimeout time.Duration

	// Coregex is passed to coregex.CompileWithConfig.
	Coregex meta.Config

	// Logger receives backend selection events. The zero value discards.
	Logger *zerolog.Logger
}

// DefaultOptions returns Options using BackendAuto and coregex defaults.
func DefaultOptions() Options {
	return Options{
		Backend: BackendAuto,
		Coregex: coregex.DefaultConfig(),
	}
}

// matcher is implemented by each backend.
//
// Index slices follow the regexp convention: loc[2*i:2*i+2] holds the byte
// offsets of group i, or -1, -1 when the group did not participate.
type matcher interface {
	findSubmatchIndex(s string) ([]int, error)
	findAllSubmatchIndex(s string, n int) ([][]int, error)
	subexpNames() []string
}

// Program is a compiled delimited pattern.
//
// A Program is safe for concurrent use.
type Program struct {
	source  string
	body    string
	flags   Flags
	backend Backend
	m       matcher
}

// Compile compiles a delimited pattern.
//
// Errors are *Error values: malformed delimiters, unknown modifiers and
// syntax errors report InternalError; patterns nesting too deeply report
// RecursionLimit; a body that is not valid UTF-8 under the UTF8 flag reports
// BadUTF8.
func Compile(delimited string, opts Options) (*Program, error) {
	body, _, modifiers, err := delim.Unwrap(delimited)
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}

	flags, err := ParseModifiers(modifiers)
	if err != nil {
		return nil, &Error{Status: InternalError, Op: "compile", Err: err}
	}

	if flags.Has(UTF8) && !utf8.ValidString(body) {
		return nil, &Error{Status: BadUTF8, Op: "compile", Err: fmt.Errorf("pattern is not valid UTF-8")}
	}

	log := opts.logger()
	m, backend, err := compileBackend(body, flags, opts)
	if err != nil {
		log.Debug().Str("pattern", delimited).Stringer("backend", opts.Backend).Err(err).Msg("compile failed")
		return nil, err
	}
	log.Debug().Str("pattern", delimited).Stringer("backend", backend).Msg("compiled")

	return &Program{
		source:  delimited,
		body:    body,
		flags:   flags,
		backend: backend,
		m:       m,
	}, nil
}

func compileBackend(body string, flags Flags, opts Options) (matcher, Backend, error) {
	switch opts.Backend {
	case BackendCoregex:
		m, err := compileCoregex(body, flags, opts.Coregex)
		return m, BackendCoregex, err
	case BackendRegexp2:
		m, err := compileRegexp2(body, flags, opts.MatchTimeout)
		return m, BackendRegexp2, err
	case BackendLiteral:
		lits, ok := literalAlternation(body, flags)
		if !ok {
			return nil, BackendLiteral, &Error{
				Status: InternalError,
				Op:     "compile",
				Err:    fmt.Errorf("pattern %q is not a literal alternation", body),
			}
		}
		m, err := compileLiteral(lits)
		return m, BackendLiteral, err
	case BackendAuto:
		return compileAuto(body, flags, opts)
	}
	return nil, opts.Backend, &Error{
		Status: InternalError,
		Op:     "compile",
		Err:    fmt.Errorf("unknown backend %d", opts.Backend),
	}
}

// compileAuto tries the literal matcher, then coregex, then regexp2.
// When both regex backends reject the pattern, the coregex error wins:
// its messages follow the stdlib format.
func compileAuto(body string, flags Flags, opts Options) (matcher, Backend, error) {
	log := opts.logger()

	if lits, ok := literalAlternation(body, flags); ok {
		if m, err := compileLiteral(lits); err == nil {
			return m, BackendLiteral, nil
		}
	}

	if flags.Has(Extended) {
		m, err := compileRegexp2(body, flags, opts.MatchTimeout)
		return m, BackendRegexp2, err
	}

	m, cerr := compileCoregex(body, flags, opts.Coregex)
	if cerr == nil {
		return m, BackendCoregex, nil
	}
	if StatusOf(cerr) != InternalError || flags.Has(Ungreedy) {
		return nil, BackendCoregex, cerr
	}

	log.Debug().Str("body", body).Err(cerr).Msg("coregex rejected pattern, trying regexp2")
	m, rerr := compileRegexp2(body, flags, opts.MatchTimeout)
	if rerr != nil {
		return nil, BackendCoregex, cerr
	}
	return m, BackendRegexp2, nil
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return o.Logger
}

// String returns the delimited source of the program.
func (p *Program) String() string {
	return p.source
}

// Body returns the pattern between the delimiters, escapes included.
func (p *Program) Body() string {
	return p.body
}

// Flags returns the parsed modifiers.
func (p *Program) Flags() Flags {
	return p.flags
}

// Backend returns the backend that compiled the program.
func (p *Program) Backend() Backend {
	return p.backend
}

// SubexpNames returns the capture group names, indexed by group number.
// Element 0 and unnamed groups are empty strings.
func (p *Program) SubexpNames() []string {
	return p.m.subexpNames()
}

// FindSubmatchIndex returns the byte offsets of the leftmost match and its
// groups, or nil if there is no match.
func (p *Program) FindSubmatchIndex(subject string) (loc []int, err error) {
	if err := p.checkSubject("match", subject); err != nil {
		return nil, err
	}
	defer recoverInto("match", &err)

	loc, err = p.m.findSubmatchIndex(subject)
	if err != nil {
		return nil, wrapMatchError("match", err)
	}
	return loc, nil
}

// FindAllSubmatchIndex returns the byte offsets of successive
// non-overlapping matches. If n >= 0, at most n matches are returned.
//
// An empty match that starts where the previous match ended is skipped,
// whatever the backend, so `x*` finds three matches in "axb": [0,0],
// [1,2] and [3,3].
func (p *Program) FindAllSubmatchIndex(subject string, n int) (locs [][]int, err error) {
	if n == 0 {
		return nil, nil
	}
	if err := p.checkSubject("match-all", subject); err != nil {
		return nil, err
	}
	defer recoverInto("match-all", &err)

	locs, err = p.m.findAllSubmatchIndex(subject, n)
	if err != nil {
		return nil, wrapMatchError("match-all", err)
	}
	if kept := skipAdjacentEmpty(locs); len(kept) < len(locs) && n > 0 && len(locs) == n {
		// Dropped matches left room for more; search the whole subject.
		if locs, err = p.m.findAllSubmatchIndex(subject, -1); err != nil {
			return nil, wrapMatchError("match-all", err)
		}
		locs = skipAdjacentEmpty(locs)
		if len(locs) > n {
			locs = locs[:n]
		}
	} else {
		locs = kept
	}
	return locs, nil
}

// skipAdjacentEmpty returns locs without the empty matches that start at
// the end of the match before them.
func skipAdjacentEmpty(locs [][]int) [][]int {
	kept := make([][]int, 0, len(locs))
	prevEnd := -1
	for _, loc := range locs {
		if loc[0] == loc[1] && loc[0] == prevEnd {
			continue
		}
		kept = append(kept, loc)
		prevEnd = loc[1]
	}
	return kept
}

func (p *Program) checkSubject(op, subject string) error {
	if p.flags.Has(UTF8) && !utf8.ValidString(subject) {
		return &Error{Status: BadUTF8, Op: op, Err: fmt.Errorf("subject is not valid UTF-8")}
	}
	return nil
}

// recoverInto turns a backend panic into an InternalError.
func recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		*err = &Error{Status: InternalError, Op: op, Err: fmt.Errorf("backend panic: %v", r)}
	}
}

func wrapMatchError(op string, err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Status: InternalError, Op: op, Err: err}
}
