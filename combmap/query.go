package combmap

import (
	"github.com/ttokutake/combination-map/internal/critbit"
	"github.com/ttokutake/combination-map/internal/veb"
	"github.com/ttokutake/combination-map/pattern"
)

// StartWith returns the entries whose leading tokens match p.
func (m *Map[V]) StartWith(p Partial) *Map[V] {
	return m.part(p, pattern.StartWith)
}

// EndWith returns the entries whose trailing tokens match p.
func (m *Map[V]) EndWith(p Partial) *Map[V] {
	return m.part(p, pattern.EndWith)
}

// Have returns the entries containing p as a token-aligned span: at the
// start, at the end, as the whole key or between two delimiters.
func (m *Map[V]) Have(p Partial) *Map[V] {
	return m.part(p, pattern.Have)
}

// Shave returns the entries that start with p and have at least one more
// token, re-keyed without the matched prefix. Entries whose stripped keys
// collide keep the later value.
func (m *Map[V]) Shave(p Partial) *Map[V] {
	matcher := m.compile(p, pattern.Shave)
	out := m.spawn()
	m.candidates(matcher, func(key string, v V) {
		if rest, ok := m.strip(matcher, key); ok {
			out.put(rest, v)
		}
	})
	return out
}

// Trim is Shave without the filtering: entries starting with p lose the
// prefix, all other entries are kept as they are.
func (m *Map[V]) Trim(p Partial) *Map[V] {
	matcher := m.compile(p, pattern.Shave)
	narrowed, _ := m.narrow(matcher)
	out := m.spawn()
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if seq, _ := m.index.Get(key); narrowed == nil || narrowed.Has(seq) {
			if rest, ok := m.strip(matcher, key); ok {
				key = rest
			}
		}
		out.put(key, pair.Value)
	}
	return out
}

func (m *Map[V]) compile(p Partial, mode pattern.Mode) *pattern.Matcher {
	// the codec is validated on construction and every mode is known
	return pattern.MustCompile(p, mode, m.codec)
}

// strip removes the matched prefix of key. The stripped key must have lost
// exactly as many tokens as the partial holds.
func (m *Map[V]) strip(matcher *pattern.Matcher, key string) (string, bool) {
	rest, ok := matcher.Strip(key)
	if !ok || m.codec.Depth(rest) != m.codec.Depth(key)-matcher.Depth() {
		return "", false
	}
	return rest, true
}

func (m *Map[V]) part(p Partial, mode pattern.Mode) *Map[V] {
	matcher := m.compile(p, mode)
	out := m.spawn()
	m.candidates(matcher, func(key string, v V) {
		if matcher.Match(key) {
			out.put(key, v)
		}
	})
	return out
}

// narrow returns the sequence numbers, and the keys behind them, that the
// prefix index offers for a left-anchored matcher with a literal prefix. hits
// is nil when every key is a candidate.
func (m *Map[V]) narrow(matcher *pattern.Matcher) (hits *veb.Set, keys map[uint64]string) {
	prefix := matcher.Prefix()
	anchored := matcher.Mode() == pattern.StartWith || matcher.Mode() == pattern.Shave
	if prefix == "" || !anchored {
		return nil, nil
	}

	hits, keys = veb.NewSet(), make(map[uint64]string)
	m.index.Iter(prefix, func(item critbit.Item) bool {
		hits.Add(item.Seq)
		keys[item.Seq] = item.Key
		return true
	})
	return hits, keys
}

// candidates calls fn, in insertion order, for every entry that can match.
// Left-anchored matchers with a literal prefix only visit the keys the prefix
// index returns; everything else is a full scan.
func (m *Map[V]) candidates(matcher *pattern.Matcher, fn func(string, V)) {
	hits, keys := m.narrow(matcher)
	if hits == nil {
		for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
			fn(pair.Key, pair.Value)
		}
		return
	}
	if hits.Len() == 0 {
		return
	}

	hits.Each(func(seq uint64) bool {
		key := keys[seq]
		if v, ok := m.entries.Get(key); ok {
			fn(key, v)
		}
		return true
	})
}
