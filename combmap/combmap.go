// Package combmap implements a combination map: a dictionary keyed by
// ordered token sequences such as {"os", "linux", "ubuntu"}.
//
// Every combination is stored under its flat key (the tokens joined with the
// map's delimiter). Entries keep insertion order, convert to and from nested
// trees, and can be queried by partial combinations:
//
//	m, _ := combmap.New[int](combmap.WithDelimiter("/"))
//	m.Set([]string{"os", "linux", "ubuntu"}, 310)
//	m.Set([]string{"os", "windows"}, 100)
//	m.StartWith(combmap.Glob("os", "*", "ubuntu")) // {os/linux/ubuntu: 310}
//	m.Shave(combmap.Glob("os"))                   // {linux/ubuntu: 310, windows: 100}
//
// Derived maps never share storage with the map they came from. A Map is
// not safe for concurrent mutation.
package combmap

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ttokutake/combination-map/flatkey"
	"github.com/ttokutake/combination-map/internal/critbit"
	"github.com/ttokutake/combination-map/pattern"
)

type (
	Combination = flatkey.Combination
	Partial     = pattern.Partial
	Token       = pattern.Token
)

var (
	ErrNilFunc           = errors.New("combmap: function must not be nil")
	ErrNilMap            = errors.New("combmap: map must not be nil")
	ErrDelimiterMismatch = errors.New("combmap: maps use different delimiters")

	ErrEmptyDelimiter = flatkey.ErrEmptyDelimiter
	ErrConflict       = flatkey.ErrConflict
)

// Any is the wildcard token: exactly one arbitrary token.
var Any = pattern.Any

// Lit returns a token matching text literally.
func Lit(text string) Token {
	return pattern.Lit(text)
}

// Glob builds a partial combination where "*" tokens are wildcards.
func Glob(tokens ...string) Partial {
	return pattern.Glob(tokens...)
}

// Literal builds a partial combination of literal tokens only.
func Literal(tokens ...string) Partial {
	return pattern.Literal(tokens...)
}

type config struct {
	delimiter string
}

// Option configures a new Map.
type Option func(*config)

// WithDelimiter sets the string placed between tokens of a flat key.
func WithDelimiter(delim string) Option {
	return func(c *config) {
		c.delimiter = delim
	}
}

// Map is a combination map with values of type V.
type Map[V any] struct {
	codec   flatkey.Codec
	entries *orderedmap.OrderedMap[string, V]
	index   *critbit.Tree
	seq     uint64
}

// New returns an empty map. The delimiter defaults to ","; an empty one
// fails with ErrEmptyDelimiter.
func New[V any](opts ...Option) (*Map[V], error) {
	cfg := config{delimiter: flatkey.DefaultDelimiter}
	for _, opt := range opts {
		opt(&cfg)
	}
	codec, err := flatkey.NewCodec(cfg.delimiter)
	if err != nil {
		return nil, err
	}
	return newMap[V](codec), nil
}

// MustNew is like New but panics on error.
func MustNew[V any](opts ...Option) *Map[V] {
	m, err := New[V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func newMap[V any](codec flatkey.Codec) *Map[V] {
	return &Map[V]{
		codec:   codec,
		entries: orderedmap.New[string, V](),
		index:   critbit.New(),
	}
}

// FromTree builds a map from every leaf of tree. A nil tree fails with
// ErrNilMap.
func FromTree[V any](tree *flatkey.Tree[V], opts ...Option) (*Map[V], error) {
	if tree == nil {
		return nil, ErrNilMap
	}
	m, err := New[V](opts...)
	if err != nil {
		return nil, err
	}
	tree.Walk(func(c Combination, v V) bool {
		m.Set(c, v)
		return true
	})
	return m, nil
}

// FromRows builds a map from rows; a later row wins over an earlier one with
// the same combination.
func FromRows[V any](rows []flatkey.Row[V], opts ...Option) (*Map[V], error) {
	m, err := New[V](opts...)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		m.Set(row.Combination, row.Value)
	}
	return m, nil
}

// FromJSON builds a map from a JSON object tree.
func FromJSON[V any](data []byte, opts ...Option) (*Map[V], error) {
	tree := flatkey.NewTree[V]()
	if err := tree.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return FromTree(tree, opts...)
}

// spawn returns an empty map sharing the delimiter.
func (m *Map[V]) spawn() *Map[V] {
	return newMap[V](m.codec)
}

// Delimiter returns the delimiter of the flat keys.
func (m *Map[V]) Delimiter() string {
	return m.codec.Delimiter()
}

// Len returns the number of stored combinations.
func (m *Map[V]) Len() int {
	return m.entries.Len()
}

// Set stores v under c. Overwriting keeps the original position.
func (m *Map[V]) Set(c Combination, v V) {
	m.put(m.codec.Encode(c), v)
}

func (m *Map[V]) put(key string, v V) {
	if _, present := m.entries.Set(key, v); !present {
		m.index.Set(key, m.seq)
		m.seq++
	}
}

// Get returns the value stored under c. ok is false if there is none.
func (m *Map[V]) Get(c Combination) (v V, ok bool) {
	return m.entries.Get(m.codec.Encode(c))
}

// Exist reports whether c is stored.
func (m *Map[V]) Exist(c Combination) bool {
	_, ok := m.entries.Get(m.codec.Encode(c))
	return ok
}

// Apply replaces the value under c with fn(old, ok), where ok is false and
// old is the zero value if c is not stored.
func (m *Map[V]) Apply(c Combination, fn func(old V, ok bool) V) error {
	if fn == nil {
		return ErrNilFunc
	}
	key := m.codec.Encode(c)
	old, ok := m.entries.Get(key)
	m.put(key, fn(old, ok))
	return nil
}

// Erase removes c. Erasing a missing combination does nothing.
func (m *Map[V]) Erase(c Combination) {
	key := m.codec.Encode(c)
	if _, present := m.entries.Delete(key); present {
		m.index.Del(key)
	}
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map[V]) Each(fn func(Combination, V) bool) {
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(m.codec.Decode(pair.Key), pair.Value) {
			return
		}
	}
}

// Values returns a snapshot of the values in insertion order.
func (m *Map[V]) Values() []V {
	vals := make([]V, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		vals = append(vals, pair.Value)
	}
	return vals
}

// Keys returns a snapshot of the combinations in insertion order.
func (m *Map[V]) Keys() []Combination {
	keys := make([]Combination, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, m.codec.Decode(pair.Key))
	}
	return keys
}

// Clone returns an independent copy.
func (m *Map[V]) Clone() *Map[V] {
	out := m.spawn()
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		out.put(pair.Key, pair.Value)
	}
	return out
}

// Map returns a map with every value replaced by fn(value).
func (m *Map[V]) Map(fn func(V) V) (*Map[V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	out := m.spawn()
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		out.put(pair.Key, fn(pair.Value))
	}
	return out, nil
}

// Filter returns a map of the entries whose value satisfies keep.
func (m *Map[V]) Filter(keep func(V) bool) (*Map[V], error) {
	if keep == nil {
		return nil, ErrNilFunc
	}
	out := m.spawn()
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		if keep(pair.Value) {
			out.put(pair.Key, pair.Value)
		}
	}
	return out, nil
}

// Transform maps every entry of m to a value of another type, keeping keys
// and order.
func Transform[V, W any](m *Map[V], fn func(Combination, V) W) (*Map[W], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	out := newMap[W](m.codec)
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		out.put(pair.Key, fn(m.codec.Decode(pair.Key), pair.Value))
	}
	return out, nil
}

// Reduce folds the values of m from the left, starting with seed.
func Reduce[V, A any](m *Map[V], fn func(acc A, v V) A, seed A) (A, error) {
	if fn == nil {
		return seed, ErrNilFunc
	}
	acc := seed
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		acc = fn(acc, pair.Value)
	}
	return acc, nil
}

// Number is the set of value types Sum accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sum adds up all values of m.
func Sum[V Number](m *Map[V]) V {
	var sum V
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		sum += pair.Value
	}
	return sum
}
