package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowtable/index/hash"
)

type row struct {
	ID   int
	Name string
	Code string
}

type byID struct{}

func (byID) HashCode(r row) (uint32, error)         { return uint32(r.ID), nil }
func (byID) Equal(a, b row) (bool, error)            { return a.ID == b.ID, nil }
func (byID) HashKey(k int) (uint32, error)           { return uint32(k), nil }
func (byID) Matches(r row, k int) (bool, error)      { return r.ID == k, nil }

type sliceStore struct{ rows []row }

func (s *sliceStore) At(pos uint32) *row { return &s.rows[pos] }
func (s *sliceStore) Len() uint32        { return uint32(len(s.rows)) }

func TestHashIndex_InsertAndFind(t *testing.T) {
	store := &sliceStore{}
	idx := hash.New[row, int](byID{})

	for i, r := range []row{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}} {
		store.rows = append(store.rows, r)
		_, ok, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
		require.False(t, ok)
	}

	slot, ok := idx.Find(store, 2)
	require.True(t, ok)
	assert.Equal(t, row{ID: 2, Name: "b"}, store.rows[slot])

	_, ok = idx.Find(store, 99)
	assert.False(t, ok)

	require.NoError(t, idx.Verify(store))
}

func TestHashIndex_DuplicateInsertReportsExistingSlot(t *testing.T) {
	store := &sliceStore{}
	idx := hash.New[row, int](byID{})

	store.rows = append(store.rows, row{ID: 1, Name: "a"})
	_, ok, err := idx.Insert(store, 0)
	require.NoError(t, err)
	require.False(t, ok)

	store.rows = append(store.rows, row{ID: 1, Name: "a-again"})
	existing, ok, err := idx.Insert(store, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(0), existing)
}

func TestHashIndex_EraseAndCompactionMove(t *testing.T) {
	store := &sliceStore{}
	idx := hash.New[row, int](byID{})

	for i, r := range []row{{ID: 1}, {ID: 2}, {ID: 3}} {
		store.rows = append(store.rows, r)
		_, _, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
	}

	idx.Erase(store, 0)
	store.rows[0] = store.rows[2]
	store.rows = store.rows[:2]
	idx.Move(store, 2, 0)

	_, ok := idx.Find(store, 1)
	assert.False(t, ok)

	slot, ok := idx.Find(store, 3)
	require.True(t, ok)
	assert.Equal(t, uint32(0), slot)

	require.NoError(t, idx.Verify(store))
}

type byCode struct{}

func (byCode) HashCode(r row) (uint32, error)    { return hash.CRC32C([]byte(r.Code)), nil }
func (byCode) Equal(a, b row) (bool, error)      { return a.Code == b.Code, nil }
func (byCode) HashKey(k string) (uint32, error)  { return hash.CRC32C([]byte(k)), nil }
func (byCode) Matches(r row, k string) (bool, error) { return r.Code == k, nil }

func TestHashIndex_CRC32CKeyedRows(t *testing.T) {
	store := &sliceStore{}
	idx := hash.New[row, string](byCode{})

	for _, code := range []string{"alpha", "bravo", "charlie"} {
		store.rows = append(store.rows, row{Code: code})
		_, ok, err := idx.Insert(store, uint32(len(store.rows)-1))
		require.NoError(t, err)
		require.False(t, ok)
	}

	slot, ok := idx.Find(store, "bravo")
	require.True(t, ok)
	assert.Equal(t, "bravo", store.rows[slot].Code)
	require.NoError(t, idx.Verify(store))
}

func TestHashIndex_RehashUnderLoad(t *testing.T) {
	store := &sliceStore{}
	idx := hash.New[row, int](byID{})

	const n = 200
	for i := 0; i < n; i++ {
		store.rows = append(store.rows, row{ID: i})
		_, ok, err := idx.Insert(store, uint32(i))
		require.NoError(t, err)
		require.False(t, ok)
	}

	for i := 0; i < n; i++ {
		slot, ok := idx.Find(store, i)
		require.True(t, ok)
		assert.Equal(t, i, store.rows[slot].ID)
	}
	require.NoError(t, idx.Verify(store))
}
