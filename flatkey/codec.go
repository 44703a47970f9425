// Package flatkey converts combinations (ordered token sequences) to and from
// flat string keys, and flat key spaces to and from nested trees.
//
// A flat key is the tokens of a combination joined with a delimiter:
//
//	Combination{"os", "linux", "ubuntu"}  --(",")-->  "os,linux,ubuntu"
//
// Encoding does not escape anything. A token that contains the delimiter
// produces a key that decodes into more tokens than it was built from, so
// callers keep the delimiter out of their tokens if they need Decode to
// invert Encode.
package flatkey

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ","

var ErrEmptyDelimiter = errors.New("flatkey: delimiter must be a non-empty string")

// Combination is an ordered sequence of tokens identifying one entry.
type Combination []string

// Clone returns a copy that does not share the backing array.
func (c Combination) Clone() Combination {
	if c == nil {
		return nil
	}
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// Row is a combination together with its value.
type Row[V any] struct {
	Combination Combination
	Value       V
}

// Codec joins and splits combinations with a fixed delimiter.
type Codec struct {
	delim  string
	quoted string
}

// NewCodec returns a codec for delim or ErrEmptyDelimiter.
func NewCodec(delim string) (Codec, error) {
	if delim == "" {
		return Codec{}, ErrEmptyDelimiter
	}
	return Codec{
		delim:  delim,
		quoted: regexp2.Escape(string(Runes(delim))),
	}, nil
}

// Delimiter returns the raw delimiter.
func (c Codec) Delimiter() string {
	return c.delim
}

// Runes widens s to one rune per byte. Patterns are compiled and run over
// this form, so bytes compare exactly and invalid UTF-8 never folds into
// U+FFFD.
func Runes(s string) []rune {
	out := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = rune(s[i])
	}
	return out
}

// Quoted returns the delimiter escaped for use inside a pattern over Runes.
func (c Codec) Quoted() string {
	return c.quoted
}

// Escape quotes every pattern metacharacter of a literal token, in the
// per-byte form of Runes.
func (c Codec) Escape(token string) string {
	return regexp2.Escape(string(Runes(token)))
}

// Encode joins the tokens of a combination into a flat key.
func (c Codec) Encode(comb Combination) string {
	return strings.Join(comb, c.delim)
}

// Decode splits a flat key back into tokens. Empty tokens produced by
// adjacent, leading or trailing delimiters are kept, so "" decodes to a
// single empty token.
func (c Codec) Decode(key string) Combination {
	return Combination(strings.Split(key, c.delim))
}

// Depth returns the number of tokens Decode would produce for key.
func (c Codec) Depth(key string) int {
	return strings.Count(key, c.delim) + 1
}
