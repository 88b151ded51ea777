package btree

import (
	"math/rand"
	"strings"
	"testing"

	gbtree "github.com/google/btree"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, degree int) *Tree[int] {
	tr, err := New[int](degree)
	require.NoError(t, err)
	return tr
}

// all extracts all keys from a tree in order as a slice.
func all[K any](tr *Tree[K]) (out []K) {
	tr.ascend(func(k K) bool {
		out = append(out, k)
		return true
	})
	return
}

// rang returns an ordered list of ints in the range [1, n].
func rang(n int) (out []int) {
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return
}

func TestNewRejectsSmallDegree(t *testing.T) {
	for _, degree := range []int{1, 0, -3} {
		tr, err := New[int](degree)
		require.Error(t, err)
		require.Nil(t, tr)
		require.Equal(t, ErrInvalidDegree, errors.Cause(err))
		require.Contains(t, err.Error(), "minimum degree")
	}

	tr, err := NewWithCompare[int](3, nil)
	require.Nil(t, tr)
	require.Equal(t, ErrNilCompare, errors.Cause(err))
}

func TestEmptyTree(t *testing.T) {
	tr := newTestTree(t, 2)
	require.Equal(t, 2, tr.Degree())
	require.Equal(t, 0, tr.Len())
	require.Equal(t, 0, tr.Height())
	require.Equal(t, "[]", tr.String())
	require.NoError(t, tr.Verify())

	n, idx, found := tr.Search(1)
	require.False(t, found)
	require.Nil(t, n)
	require.Equal(t, -1, idx)
	require.False(t, tr.Delete(1))
	require.NoError(t, tr.Verify())
}

func TestMinimalTreeScenario(t *testing.T) {
	tr := newTestTree(t, 2)
	keys := []int{10, 20, 5, 6, 12, 30, 7, 17}
	for _, k := range keys {
		tr.Insert(k)
		require.NoError(t, tr.Verify())
	}
	require.Equal(t, "[[5 6 7] 10 [12 17] 20 [30]]", tr.String())
	require.Equal(t, 1, tr.Height())

	n, idx, found := tr.Search(6)
	require.True(t, found)
	require.Equal(t, 6, n.Key(idx))
	require.True(t, n.IsLeaf())
	_, _, found = tr.Search(100)
	require.False(t, found)

	require.True(t, tr.Delete(6))
	require.NoError(t, tr.Verify())
	_, _, found = tr.Search(6)
	require.False(t, found)
	for _, k := range []int{10, 20, 5, 12, 30, 7, 17} {
		require.True(t, tr.Contains(k), "key %d", k)
	}
	require.Equal(t, []int{5, 7, 10, 12, 17, 20, 30}, all(tr))
	require.Equal(t, 7, tr.Len())
}

func TestRootSplitAtMaxFanOut(t *testing.T) {
	tr := newTestTree(t, 100)
	for _, k := range rang(199) {
		tr.Insert(k)
	}
	require.Equal(t, 0, tr.Height())
	require.Equal(t, 199, tr.root.NumKeys())

	tr.Insert(200)
	require.NoError(t, tr.Verify())
	require.Equal(t, 1, tr.Height())
	require.Equal(t, 1, tr.root.NumKeys())
	require.Equal(t, 100, tr.root.Key(0))
	require.Equal(t, 99, tr.root.children[0].NumKeys())
	require.Equal(t, 100, tr.root.children[1].NumKeys())
	require.Equal(t, rang(200), all(tr))
}

func TestDeleteAllAscending(t *testing.T) {
	for _, degree := range []int{2, 3, 5} {
		tr := newTestTree(t, degree)
		for _, k := range rang(50) {
			tr.Insert(k)
		}
		require.NoError(t, tr.Verify())
		for i, k := range rang(50) {
			require.True(t, tr.Delete(k))
			require.NoError(t, tr.Verify(), "degree %d after deleting %d", degree, k)
			require.Equal(t, len(rang(50))-i-1, tr.Len())
			if tr.Len() > 0 {
				require.Equal(t, rang(50)[i+1:], all(tr))
			}
		}
		require.True(t, tr.root.IsLeaf())
		require.Equal(t, 0, tr.root.NumKeys())
		require.Equal(t, 0, tr.Height())
		require.Equal(t, 0, tr.Len())
	}
}

func TestRoundTripRandom(t *testing.T) {
	const n = 1000
	r := rand.New(rand.NewSource(42))
	for _, degree := range []int{2, 3, 4, 7, 32} {
		tr := newTestTree(t, degree)
		for _, k := range r.Perm(n) {
			tr.Insert(k)
			require.NoError(t, tr.Verify())
		}
		require.Equal(t, n, tr.Len())
		for k := 0; k < n; k++ {
			node, idx, found := tr.Search(k)
			require.True(t, found)
			require.Equal(t, k, node.Key(idx))
		}
		for _, k := range r.Perm(n) {
			require.True(t, tr.Delete(k))
			require.NoError(t, tr.Verify(), "degree %d after deleting %d", degree, k)
		}
		for k := 0; k < n; k++ {
			require.False(t, tr.Contains(k))
		}
		require.Equal(t, "[]", tr.String())
	}
}

func TestDuplicateKeys(t *testing.T) {
	tr := newTestTree(t, 2)
	for i := 0; i < 20; i++ {
		tr.Insert(5)
		tr.Insert(i)
	}
	require.NoError(t, tr.Verify())
	require.Equal(t, 40, tr.Len())

	for i := 0; i < 21; i++ {
		require.True(t, tr.Contains(5))
		require.True(t, tr.Delete(5))
		require.NoError(t, tr.Verify())
	}
	require.False(t, tr.Contains(5))
	require.False(t, tr.Delete(5))
	require.Equal(t, 19, tr.Len())
}

func TestRandomMultiset(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, degree := range []int{2, 3, 6} {
		tr := newTestTree(t, degree)
		counts := make(map[int]int)
		for i := 0; i < 3000; i++ {
			k := r.Intn(100)
			if r.Intn(3) == 0 {
				require.Equal(t, counts[k] > 0, tr.Delete(k))
				if counts[k] > 0 {
					counts[k]--
				}
			} else {
				tr.Insert(k)
				counts[k]++
			}
			require.NoError(t, tr.Verify())
		}
		total := 0
		for k, c := range counts {
			require.Equal(t, c > 0, tr.Contains(k))
			total += c
		}
		require.Equal(t, total, tr.Len())
	}
}

func TestDeleteAbsentLeavesTreeUntouched(t *testing.T) {
	tr := newTestTree(t, 2)
	for _, k := range rang(30) {
		tr.Insert(k * 2)
	}
	before := tr.String()
	require.False(t, tr.Delete(7))
	once := tr.String()
	require.False(t, tr.Delete(7))
	require.Equal(t, before, once)
	require.Equal(t, once, tr.String())
	require.Equal(t, 30, tr.Len())
}

func TestAgainstGoogleBTree(t *testing.T) {
	r := rand.New(rand.NewSource(2023))
	tr := newTestTree(t, 4)
	ref := gbtree.NewOrderedG[int](4)
	for i := 0; i < 5000; i++ {
		k := r.Intn(500)
		if r.Intn(2) == 0 {
			_, had := ref.Delete(k)
			require.Equal(t, had, tr.Delete(k))
			continue
		}
		if _, had := ref.ReplaceOrInsert(k); !had {
			tr.Insert(k)
		}
	}
	require.NoError(t, tr.Verify())
	require.Equal(t, ref.Len(), tr.Len())

	var want []int
	ref.Ascend(func(k int) bool {
		want = append(want, k)
		return true
	})
	require.Equal(t, want, all(tr))
}

func TestCustomCompare(t *testing.T) {
	desc := func(a, b string) int { return strings.Compare(b, a) }
	tr, err := NewWithCompare[string](2, desc)
	require.NoError(t, err)
	for _, k := range []string{"b", "d", "a", "e", "c", "f"} {
		tr.Insert(k)
	}
	require.NoError(t, tr.Verify())
	require.Equal(t, []string{"f", "e", "d", "c", "b", "a"}, all(tr))
	require.True(t, tr.Delete("d"))
	require.False(t, tr.Contains("d"))
	require.NoError(t, tr.Verify())
}

func BenchmarkInsert(b *testing.B) {
	keys := rand.New(rand.NewSource(1)).Perm(b.N)
	tr, _ := New[int](32)
	b.ResetTimer()
	for _, k := range keys {
		tr.Insert(k)
	}
}

func BenchmarkSearch(b *testing.B) {
	const n = 100000
	tr, _ := New[int](32)
	for _, k := range rand.New(rand.NewSource(1)).Perm(n) {
		tr.Insert(k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Search(i % n)
	}
}
