package flatkey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func osTree(t *testing.T) *Tree[int] {
	t.Helper()

	tree := NewTree[int]()
	require.NoError(t, tree.Insert(Combination{"os", "linux", "ubuntu"}, 310))
	require.NoError(t, tree.Insert(Combination{"os", "windows"}, 100))
	require.NoError(t, tree.Insert(Combination{"os", "linux", "centos"}, 320))
	require.NoError(t, tree.Insert(Combination{"browser", "firefox"}, 10))

	return tree
}

func TestTree_Insert(t *testing.T) {
	t.Parallel()

	tree := osTree(t)

	assert.Equal(t, []string{"os", "browser"}, tree.Keys())

	linux, ok := tree.Lookup(Combination{"os", "linux"})
	require.True(t, ok)
	assert.False(t, linux.IsLeaf())
	assert.Equal(t, []string{"ubuntu", "centos"}, linux.Keys())

	ubuntu, ok := tree.Lookup(Combination{"os", "linux", "ubuntu"})
	require.True(t, ok)
	val, ok := ubuntu.Value()
	assert.True(t, ok)
	assert.Equal(t, 310, val)

	_, ok = tree.Lookup(Combination{"os", "osx"})
	assert.False(t, ok)
}

func TestTree_InsertReplacesLeaf(t *testing.T) {
	t.Parallel()

	tree := osTree(t)
	require.NoError(t, tree.Insert(Combination{"os", "windows"}, 101))

	leaf, ok := tree.Lookup(Combination{"os", "windows"})
	require.True(t, ok)
	val, _ := leaf.Value()
	assert.Equal(t, 101, val)

	os, _ := tree.Child("os")
	assert.Equal(t, []string{"linux", "windows"}, os.Keys())
}

func TestTree_InsertConflict(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name    string
		Path    Combination
		ExpPath Combination
	}{
		{"through a leaf", Combination{"os", "windows", "10"}, Combination{"os", "windows"}},
		{"onto a branch", Combination{"os", "linux"}, Combination{"os", "linux"}},
		{"onto the root", Combination{}, Combination{}},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			tree := osTree(t)
			before, err := json.Marshal(tree)
			require.NoError(t, err)

			err = tree.Insert(tcase.Path, 1)
			require.ErrorIs(t, err, ErrConflict)

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tcase.ExpPath, conflict.Path)

			after, err := json.Marshal(tree)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestTree_Walk(t *testing.T) {
	t.Parallel()

	var rows []Row[int]
	osTree(t).Walk(func(c Combination, v int) bool {
		rows = append(rows, Row[int]{c, v})
		return true
	})

	assert.Equal(t, []Row[int]{
		{Combination{"os", "linux", "ubuntu"}, 310},
		{Combination{"os", "linux", "centos"}, 320},
		{Combination{"os", "windows"}, 100},
		{Combination{"browser", "firefox"}, 10},
	}, rows)
}

func TestTree_WalkAbort(t *testing.T) {
	t.Parallel()

	var seen int
	done := osTree(t).Walk(func(Combination, int) bool {
		seen++
		return seen < 2
	})

	assert.False(t, done)
	assert.Equal(t, 2, seen)
}

func TestTree_WalkPathsAreIndependent(t *testing.T) {
	t.Parallel()

	var paths []Combination
	osTree(t).Walk(func(c Combination, _ int) bool {
		paths = append(paths, c)
		return true
	})

	paths[0][0] = "changed"
	assert.Equal(t, Combination{"os", "linux", "centos"}, paths[1])
}

func TestTree_Put(t *testing.T) {
	t.Parallel()

	tree := NewTree[string]().
		Put("a", Leaf("1")).
		Put("b", NewTree[string]().Put("c", Leaf("2"))).
		Put("a", Leaf("3"))

	assert.Equal(t, []string{"a", "b"}, tree.Keys())
	assert.Equal(t, 2, tree.Len())

	a, _ := tree.Child("a")
	val, _ := a.Value()
	assert.Equal(t, "3", val)

	// a leaf turns into a branch once it gets children
	a.Put("x", Leaf("4"))
	assert.False(t, a.IsLeaf())
	_, ok := a.Value()
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	dst := NewTree[int]()
	require.NoError(t, dst.Insert(Combination{"item1", "version"}, 1))
	require.NoError(t, dst.Insert(Combination{"item2", "version"}, 2))

	src := NewTree[int]()
	require.NoError(t, src.Insert(Combination{"item1", "valuation"}, 10))
	require.NoError(t, src.Insert(Combination{"item2", "version"}, 3))
	require.NoError(t, src.Insert(Combination{"item3", "valuation"}, 30))

	merged, err := Merge(dst, src)
	require.NoError(t, err)

	raw, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.Equal(t,
		`{"item1":{"version":1,"valuation":10},"item2":{"version":3},"item3":{"valuation":30}}`,
		string(raw))

	// inputs are left alone
	raw, err = json.Marshal(dst)
	require.NoError(t, err)
	assert.Equal(t, `{"item1":{"version":1},"item2":{"version":2}}`, string(raw))
}

func TestMerge_Conflict(t *testing.T) {
	t.Parallel()

	dst := NewTree[int]()
	require.NoError(t, dst.Insert(Combination{"a"}, 1))

	src := NewTree[int]()
	require.NoError(t, src.Insert(Combination{"a", "b"}, 2))

	_, err := Merge(dst, src)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = Merge(src, dst)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTree_Clone(t *testing.T) {
	t.Parallel()

	orig := osTree(t)
	dup := orig.Clone()
	require.NoError(t, dup.Insert(Combination{"os", "osx"}, 200))

	_, ok := orig.Lookup(Combination{"os", "osx"})
	assert.False(t, ok)
	_, ok = dup.Lookup(Combination{"os", "osx"})
	assert.True(t, ok)
}
