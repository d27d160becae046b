package btree_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowtable/index/btree"
)

type row struct {
	ID   int
	Name string
}

type byName struct{}

func (byName) Less(a, b row) bool             { return a.Name < b.Name }
func (byName) KeyBefore(k string, r row) bool { return k < r.Name }
func (byName) RowBefore(r row, k string) bool { return r.Name < k }

type sliceStore struct{ rows []row }

func (s *sliceStore) At(pos uint32) *row { return &s.rows[pos] }
func (s *sliceStore) Len() uint32        { return uint32(len(s.rows)) }

func insertSorted(t *testing.T, store *sliceStore, idx *btree.Index[row, string], r row) uint32 {
	pos := uint32(len(store.rows))
	store.rows = append(store.rows, r)
	_, ok, err := idx.Insert(store, pos)
	require.NoError(t, err)
	require.False(t, ok)
	return pos
}

func TestBTreeIndex_OrderedTraversal(t *testing.T) {
	store := &sliceStore{}
	idx := btree.New[row, string](byName{})

	for i, n := range []string{"delta", "alpha", "charlie", "echo", "bravo"} {
		insertSorted(t, store, idx, row{ID: i, Name: n})
	}

	var got []string
	for slot := range idx.Ordered(store) {
		got = append(got, store.rows[slot].Name)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, got)
	require.NoError(t, idx.Verify(store))
}

func TestBTreeIndex_DuplicateInsertReportsExistingSlot(t *testing.T) {
	store := &sliceStore{}
	idx := btree.New[row, string](byName{})

	pos := insertSorted(t, store, idx, row{ID: 1, Name: "same"})
	store.rows = append(store.rows, row{ID: 2, Name: "same"})
	existing, ok, err := idx.Insert(store, uint32(len(store.rows)-1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos, existing)
}

func TestBTreeIndex_Find(t *testing.T) {
	store := &sliceStore{}
	idx := btree.New[row, string](byName{})
	for i, n := range []string{"a", "b", "c", "d"} {
		insertSorted(t, store, idx, row{ID: i, Name: n})
	}

	slot, ok := idx.Find(store, "c")
	require.True(t, ok)
	assert.Equal(t, "c", store.rows[slot].Name)

	_, ok = idx.Find(store, "z")
	assert.False(t, ok)
}

func TestBTreeIndex_RangeQuery(t *testing.T) {
	store := &sliceStore{}
	idx := btree.New[row, string](byName{})
	for i, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		insertSorted(t, store, idx, row{ID: i, Name: n})
	}

	var got []string
	for slot := range idx.Range(store, "b", "e") {
		got = append(got, store.rows[slot].Name)
	}
	assert.Equal(t, []string{"b", "c", "d"}, got)
}

func TestBTreeIndex_SplitsAndMergesUnderLoad(t *testing.T) {
	store := &sliceStore{}
	idx := btree.New[row, string](byName{})

	const n = 500
	for i := 0; i < n; i++ {
		insertSorted(t, store, idx, row{ID: i, Name: fmt.Sprintf("k%04d", i)})
	}
	require.NoError(t, idx.Verify(store))

	for i := n - 1; i >= 0; i -= 2 {
		idx.Erase(store, uint32(i))
		last := uint32(len(store.rows) - 1)
		if uint32(i) != last {
			store.rows[i] = store.rows[last]
			idx.Move(store, last, uint32(i))
		}
		store.rows = store.rows[:last]
	}
	require.NoError(t, idx.Verify(store))

	var got []string
	for slot := range idx.Ordered(store) {
		got = append(got, store.rows[slot].Name)
	}
	assert.Len(t, got, n/2)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}
