package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowtable/index/order"
)

type row struct{ ID int }

type sliceStore struct{ rows []row }

func (s *sliceStore) At(pos uint32) *row { return &s.rows[pos] }
func (s *sliceStore) Len() uint32        { return uint32(len(s.rows)) }

func TestOrderIndex_PreservesInsertionOrder(t *testing.T) {
	store := &sliceStore{}
	idx := order.New[row]()

	for i := 0; i < 5; i++ {
		store.rows = append(store.rows, row{ID: i})
		_, ok, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
		require.False(t, ok)
	}

	var got []int
	for slot := range idx.Ordered(store) {
		got = append(got, store.rows[slot].ID)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	require.NoError(t, idx.Verify(store))
}

func TestOrderIndex_EraseCompactionPreservesSurvivorsPosition(t *testing.T) {
	store := &sliceStore{}
	idx := order.New[row]()

	for i := 0; i < 5; i++ {
		store.rows = append(store.rows, row{ID: i})
		_, _, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
	}

	// Erase slot 1 (ID 1); table compaction swaps the last row (ID 4) into
	// slot 1. Insertion order must still read 0, 2, 3, 4 — ID 4 keeps its
	// original (last) position, it is not moved to where ID 1 was.
	idx.Erase(store, 1)
	store.rows[1] = store.rows[4]
	store.rows = store.rows[:4]
	idx.Move(store, 4, 1)

	var got []int
	for slot := range idx.Ordered(store) {
		got = append(got, store.rows[slot].ID)
	}
	assert.Equal(t, []int{0, 2, 3, 4}, got)
	require.NoError(t, idx.Verify(store))
}

func TestOrderIndex_Clear(t *testing.T) {
	store := &sliceStore{}
	idx := order.New[row]()
	for i := 0; i < 3; i++ {
		store.rows = append(store.rows, row{ID: i})
		_, _, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
	}
	idx.Clear()
	store.rows = nil
	require.NoError(t, idx.Verify(store))

	var got []int
	for slot := range idx.Ordered(store) {
		got = append(got, store.rows[slot].ID)
	}
	assert.Empty(t, got)
}
