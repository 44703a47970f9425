package critbit

import (
	"fmt"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(tr *Tree) (s []string) {
	tr.Iter("", func(item Item) bool {
		s = append(s, item.Key)
		return true
	})
	return
}

func TestEmptyTree(t *testing.T) {
	t.Parallel()

	tr := New()

	assert.Nil(t, keys(tr))
	assert.True(t, tr.Empty())

	_, ok := tr.Get("a")
	assert.False(t, ok)
	_, ok = tr.Get("")
	assert.False(t, ok)
	_, ok = tr.Del("a")
	assert.False(t, ok)
}

func TestKeyOrder(t *testing.T) {
	t.Parallel()

	for i, tcase := range []*struct {
		Ins []string
		Res []string
	}{
		{
			[]string{"x", "y", "z", "c", "c", "b", "b", "a", "a"},
			[]string{"a", "b", "c", "x", "y", "z"},
		},
		{
			[]string{"aaa", "aa", "a"},
			[]string{"a", "aa", "aaa"},
		},
		{
			[]string{"b", "a", "aa"},
			[]string{"a", "aa", "b"},
		},
		{
			[]string{"aa", "aaa", "aab", "ab", "ba", "bb", "bba", "bbb"},
			[]string{"aa", "aaa", "aab", "ab", "ba", "bb", "bba", "bbb"},
		},
		{
			[]string{"a\x00", "a", "", "\x00", "a\x00\x00", "b"},
			[]string{"", "\x00", "a", "a\x00", "a\x00\x00", "b"},
		},
	} {
		tcase := tcase

		t.Run(fmt.Sprint(i), func(t *testing.T) {
			t.Parallel()

			tr := New()
			for seq, s := range tcase.Ins {
				tr.Set(s, uint64(seq))

				_, ok := tr.Get(s)
				require.True(t, ok, s)
			}

			assert.Equal(t, tcase.Res, keys(tr))
			assert.Equal(t, len(tcase.Res), tr.Len())

			for j := len(tcase.Res) - 1; j >= 0; j-- {
				_, ok := tr.Del(tcase.Res[j])
				require.True(t, ok, tcase.Res[j])

				_, ok = tr.Get(tcase.Res[j])
				require.False(t, ok, tcase.Res[j])
			}
			assert.True(t, tr.Empty())
		})
	}
}

func TestSet_ReplacesSeq(t *testing.T) {
	t.Parallel()

	tr := New(Item{"a", 1}, Item{"b", 2})

	prev, ok := tr.Set("a", 7)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), prev)
	assert.Equal(t, 2, tr.Len())

	seq, ok := tr.Get("a")
	assert.True(t, ok)
	assert.Equal(t, uint64(7), seq)
}

func TestDeleteUnknownKey(t *testing.T) {
	t.Parallel()

	tr := New()
	_, ok := tr.Set("aa", 2)
	assert.False(t, ok)

	_, ok = tr.Del("ab")
	assert.False(t, ok)
	_, ok = tr.Del("a")
	assert.False(t, ok)
	assert.Equal(t, 1, tr.Len())
}

func TestIter(t *testing.T) {
	t.Parallel()

	tr := New()
	all := []string{"aa", "aaa", "aab", "ab", "ba", "bb", "bba", "bbb"}
	for i, s := range all {
		tr.Set(s, uint64(i))
	}

	for _, tcase := range []*struct {
		Prefix string
		Keys   []string
	}{
		{"", all},
		{"a", []string{"aa", "aaa", "aab", "ab"}},
		{"aa", []string{"aa", "aaa", "aab"}},
		{"aaa", []string{"aaa"}},
		{"aaaa", nil},
		{"c", nil},
		{"bb", []string{"bb", "bba", "bbb"}},
	} {
		tcase := tcase

		t.Run(tcase.Prefix, func(t *testing.T) {
			t.Parallel()

			var got []string
			done := tr.Iter(tcase.Prefix, func(item Item) bool {
				got = append(got, item.Key)
				return true
			})

			assert.True(t, done)
			assert.Equal(t, tcase.Keys, got)
		})
	}
}

func TestIter_Abort(t *testing.T) {
	t.Parallel()

	tr := New(Item{"a", 0}, Item{"b", 1}, Item{"c", 2})

	var got []string
	done := tr.Iter("", func(item Item) bool {
		got = append(got, item.Key)
		return len(got) < 2
	})

	assert.False(t, done)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestIter_AllSorted(t *testing.T) {
	t.Parallel()

	tr := New(Item{"os/windows", 1}, Item{"browser/chrome", 0}, Item{"os/linux/ubuntu", 2})

	var got []Item
	tr.Iter("", func(item Item) bool {
		got = append(got, item)
		return true
	})

	assert.Equal(t, []Item{
		{"browser/chrome", 0},
		{"os/linux/ubuntu", 2},
		{"os/windows", 1},
	}, got)
}

func TestFakeData(t *testing.T) {
	t.Parallel()

	const (
		total = 5_000
		seed  = 1234567890
	)

	var (
		tr    = New()
		state = map[string]uint64{}
		fake  = gofakeit.New(seed)
	)

	for i := 0; i < total; i++ {
		key := fake.HipsterSentence(3)
		tr.Set(key, uint64(i))
		state[key] = uint64(i)
	}

	for key, seq := range state {
		actual, ok := tr.Get(key)

		assert.True(t, ok, key)
		assert.Equal(t, seq, actual, key)
	}

	expected := make([]string, 0, len(state))
	for key := range state {
		expected = append(expected, key)
	}
	sort.Strings(expected)

	assert.Equal(t, expected, keys(tr))
	assert.Equal(t, len(state), tr.Len())

	// delete every other key
	for i, key := range expected {
		if i%2 == 0 {
			_, ok := tr.Del(key)
			assert.True(t, ok, key)
		}
	}
	for i, key := range expected {
		_, ok := tr.Get(key)
		assert.Equal(t, i%2 != 0, ok, key)
	}
}
