// Package pattern compiles partial combinations into predicates over flat
// keys.
//
// A partial combination is a list of tokens, each either a literal or the
// wildcard Any. The wildcard stands for exactly one token: one or more
// characters that do not contain the delimiter. Literal tokens are escaped,
// so metacharacters inside them, "*" included, never act as syntax.
//
// Every mode is token aligned: StartWith(["os"]) matches "os,linux" but not
// "osx,linux".
package pattern

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/ttokutake/combination-map/flatkey"
)

// Wildcard is the token text Glob turns into Any.
const Wildcard = "*"

// Token is a single position of a partial combination.
type Token struct {
	text string
	wild bool
}

// Any matches exactly one arbitrary token.
var Any = Token{wild: true}

// Lit returns a token that matches text literally, "*" included.
func Lit(text string) Token {
	return Token{text: text}
}

func (tok Token) IsWildcard() bool {
	return tok.wild
}

// Text returns the literal text; it is empty for Any.
func (tok Token) Text() string {
	return tok.text
}

func (tok Token) String() string {
	if tok.wild {
		return Wildcard
	}
	return fmt.Sprintf("%q", tok.text)
}

// Partial is a combination fragment used in queries.
type Partial []Token

// Literal builds a partial combination where every token is literal.
func Literal(tokens ...string) Partial {
	p := make(Partial, len(tokens))
	for i, text := range tokens {
		p[i] = Lit(text)
	}
	return p
}

// Glob builds a partial combination where "*" tokens are wildcards.
func Glob(tokens ...string) Partial {
	p := make(Partial, len(tokens))
	for i, text := range tokens {
		if text == Wildcard {
			p[i] = Any
		} else {
			p[i] = Lit(text)
		}
	}
	return p
}

// LiteralPrefix returns the literal tokens before the first wildcard.
func (p Partial) LiteralPrefix() []string {
	var out []string
	for _, tok := range p {
		if tok.wild {
			break
		}
		out = append(out, tok.text)
	}
	return out
}

func (p Partial) String() string {
	parts := make([]string, len(p))
	for i, tok := range p {
		parts[i] = tok.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Mode selects where a partial combination has to occur in a key.
type Mode int

const (
	// StartWith matches keys whose leading tokens equal the partial.
	StartWith Mode = iota
	// EndWith matches keys whose trailing tokens equal the partial.
	EndWith
	// Have matches keys containing the partial as a token-aligned span.
	Have
	// Shave matches like StartWith but needs at least one token after the
	// partial; Strip cuts the partial and its delimiter off.
	Shave
)

func (m Mode) String() string {
	switch m {
	case StartWith:
		return "startWith"
	case EndWith:
		return "endWith"
	case Have:
		return "have"
	case Shave:
		return "shave"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Matcher tests flat keys against a compiled partial combination.
type Matcher struct {
	mode   Mode
	depth  int
	prefix string
	expr   string
	re     *regexp2.Regexp // nil matches everything
}

// Compile builds a Matcher for p under mode using the codec's delimiter.
func Compile(p Partial, mode Mode, codec flatkey.Codec) (*Matcher, error) {
	if codec.Delimiter() == "" {
		return nil, flatkey.ErrEmptyDelimiter
	}
	m := &Matcher{
		mode:   mode,
		depth:  len(p),
		prefix: codec.Encode(p.LiteralPrefix()),
	}
	if len(p) == 0 {
		return m, nil
	}

	qd := codec.Quoted()
	parts := make([]string, len(p))
	for i, tok := range p {
		if tok.wild {
			parts[i] = "(?:(?!" + qd + ").)+"
		} else {
			parts[i] = codec.Escape(tok.text)
		}
	}
	body := "(?:" + strings.Join(parts, qd) + ")"

	switch mode {
	case StartWith:
		m.expr = `\A` + body + `(?:` + qd + `|\z)`
	case EndWith:
		m.expr = `(?:\A|` + qd + `)` + body + `\z`
	case Have:
		// leading span, trailing span, the whole key or a delimited interior span
		m.expr = `(?:\A|` + qd + `)` + body + `(?:` + qd + `|\z)`
	case Shave:
		m.expr = `\A` + body + qd
	default:
		return nil, fmt.Errorf("pattern: unknown mode %v", mode)
	}

	re, err := regexp2.Compile(m.expr, regexp2.Singleline)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %v: %w", p, err)
	}
	m.re = re
	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(p Partial, mode Mode, codec flatkey.Codec) *Matcher {
	m, err := Compile(p, mode, codec)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matcher) Mode() Mode {
	return m.mode
}

// Depth is the number of tokens in the compiled partial.
func (m *Matcher) Depth() int {
	return m.depth
}

// Prefix returns the flat encoding of the literal tokens before the first
// wildcard. For StartWith and Shave every matching key begins with it.
func (m *Matcher) Prefix() string {
	return m.prefix
}

func (m *Matcher) String() string {
	if m.re == nil {
		return m.mode.String() + "(*)"
	}
	return m.mode.String() + "(" + m.expr + ")"
}

// Match reports whether key satisfies the pattern. Keys are compared byte
// by byte.
func (m *Matcher) Match(key string) bool {
	if m.re == nil {
		return true
	}
	// no MatchTimeout is set, so the engine cannot fail
	ok, _ := m.re.MatchRunes(flatkey.Runes(key))
	return ok
}

// Strip returns key without the matched leading partial and the delimiter
// after it. It reports false when key does not match. Only Shave matchers
// strip; other modes return key unchanged.
func (m *Matcher) Strip(key string) (string, bool) {
	if m.re == nil {
		return key, true
	}
	if m.mode != Shave {
		return key, m.Match(key)
	}
	found, _ := m.re.FindRunesMatch(flatkey.Runes(key))
	if found == nil {
		return "", false
	}
	// one rune per byte, so match offsets are byte offsets
	return key[found.Index+found.Length:], true
}
