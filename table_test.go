package rowtable_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowtable"
	"rowtable/index/btree"
	"rowtable/index/hash"
	"rowtable/index/order"
)

type person struct {
	ID   int
	Name string
}

type byID struct {
	failNext bool
}

func (c *byID) HashCode(p person) (uint32, error) {
	if c.failNext {
		c.failNext = false
		return 0, errors.New("injected failure")
	}
	return uint32(p.ID), nil
}
func (c *byID) Equal(a, b person) (bool, error)        { return a.ID == b.ID, nil }
func (c *byID) HashKey(k int) (uint32, error)          { return uint32(k), nil }
func (c *byID) Matches(p person, k int) (bool, error)  { return p.ID == k, nil }

type byName struct{}

func (byName) Less(a, b person) bool             { return a.Name < b.Name }
func (byName) KeyBefore(k string, r person) bool { return k < r.Name }
func (byName) RowBefore(r person, k string) bool { return r.Name < k }

func newTestTable() (*rowtable.Table[person], *byID, *order.Index[person], *btree.Index[person, string]) {
	cb := &byID{}
	idIdx := hash.New[person, int](cb)
	orderIdx := order.New[person]()
	nameIdx := btree.New[person, string](byName{})
	tbl := rowtable.New[person](
		rowtable.WithIndex[person](idIdx),
		rowtable.WithIndex[person](orderIdx),
		rowtable.WithIndex[person](nameIdx),
	)
	return tbl, cb, orderIdx, nameIdx
}

func TestTable_InsertFindErase(t *testing.T) {
	tbl, _, _, _ := newTestTable()

	slot, err := tbl.Insert(person{ID: 1, Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), slot)

	idIdx, err := rowtable.Use[*hash.Index[person, int]](tbl)
	require.NoError(t, err)

	got, ok := rowtable.Find[person, int](tbl, idIdx, 1)
	require.True(t, ok)
	assert.Equal(t, "Ada", got.Name)

	_, err = rowtable.EraseMatch[person, int](tbl, idIdx, 1)
	require.NoError(t, err)

	_, ok = rowtable.Find[person, int](tbl, idIdx, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Size())
	require.NoError(t, tbl.Verify())
}

func TestTable_DuplicateInsertRollsBack(t *testing.T) {
	tbl, _, _, _ := newTestTable()

	_, err := tbl.Insert(person{ID: 1, Name: "Ada"})
	require.NoError(t, err)

	_, err = tbl.Insert(person{ID: 1, Name: "Ada2"})
	require.ErrorIs(t, err, rowtable.ErrDuplicateRow)
	assert.Equal(t, 1, tbl.Size())
	require.NoError(t, tbl.Verify())
}

func TestTable_CallbackFailureRollsBack(t *testing.T) {
	tbl, cb, _, _ := newTestTable()

	_, err := tbl.Insert(person{ID: 1, Name: "Ada"})
	require.NoError(t, err)

	cb.failNext = true
	_, err = tbl.Insert(person{ID: 2, Name: "Grace"})
	require.Error(t, err)

	var cbErr *rowtable.CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, 1, tbl.Size())
	require.NoError(t, tbl.Verify())

	// The table is usable again on the next call, since the failing
	// callback only fires once.
	slot, err := tbl.Insert(person{ID: 2, Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), slot)
}

func TestTable_InsertAllAndEraseAll(t *testing.T) {
	tbl, _, orderIdx, _ := newTestTable()

	rows := []person{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}}
	n, err := tbl.InsertAll(rows)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	erased := tbl.EraseAll(func(p person) bool { return p.ID%2 == 0 })
	assert.Equal(t, 2, erased)
	assert.Equal(t, 3, tbl.Size())
	require.NoError(t, tbl.Verify())

	var ids []int
	for p := range rowtable.Ordered[person](tbl, orderIdx) {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int{1, 3, 5}, ids)
}

func TestTable_InsertAllStopsAtFirstDuplicate(t *testing.T) {
	tbl, _, _, _ := newTestTable()

	rows := []person{{1, "a"}, {2, "b"}, {2, "b-dup"}, {3, "c"}}
	n, err := tbl.InsertAll(rows)
	require.ErrorIs(t, err, rowtable.ErrDuplicateRow)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, tbl.Size())
}

func TestTable_UpsertInsertsThenUpdates(t *testing.T) {
	tbl, _, _, _ := newTestTable()
	idIdx, err := rowtable.Use[*hash.Index[person, int]](tbl)
	require.NoError(t, err)

	slot, err := rowtable.Upsert[person, int](tbl, idIdx, 1, person{ID: 1, Name: "Ada"}, nil)
	require.NoError(t, err)

	_, err = rowtable.Upsert[person, int](tbl, idIdx, 1, person{}, func(existing *person) error {
		existing.Name = "Ada Lovelace"
		return nil
	})
	require.NoError(t, err)

	got, _ := tbl.RowAt(slot)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, 1, tbl.Size())
}

func TestTable_UseIsAmbiguousWithTwoIndexesOfSameType(t *testing.T) {
	idA := hash.New[person, int](&byID{})
	idB := hash.New[person, int](&byID{})
	tbl := rowtable.New[person](
		rowtable.WithIndex[person](idA),
		rowtable.WithIndex[person](idB),
	)
	_, err := rowtable.Use[*hash.Index[person, int]](tbl)
	assert.ErrorIs(t, err, rowtable.ErrAmbiguousIndex)
}

func TestTable_EraseSlotRejectsOutOfRangeSlot(t *testing.T) {
	tbl, _, _, _ := newTestTable()
	err := tbl.EraseSlot(5)
	assert.ErrorIs(t, err, rowtable.ErrNotMember)
}

func TestTable_RangeAndEraseRangeWithBTreeIndex(t *testing.T) {
	tbl, _, _, nameIdx := newTestTable()

	rows := []person{
		{1, "alice"}, {2, "bob"}, {3, "carol"}, {4, "dave"}, {5, "erin"},
	}
	n, err := tbl.InsertAll(rows)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	idxAt, err := rowtable.UseAt[person](tbl, 2)
	require.NoError(t, err)
	assert.Same(t, nameIdx, idxAt)

	var names []string
	for p := range rowtable.Range[person, string](tbl, nameIdx, "bob", "erin") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"bob", "carol", "dave"}, names)

	erased := rowtable.EraseRange[person, string](tbl, nameIdx, "bob", "erin")
	assert.Equal(t, 3, erased)
	assert.Equal(t, 2, tbl.Size())
	require.NoError(t, tbl.Verify())

	var remaining []string
	for p := range tbl.Rows() {
		remaining = append(remaining, p.Name)
	}
	assert.ElementsMatch(t, []string{"alice", "erin"}, remaining)
}

func TestTable_EraseSlots(t *testing.T) {
	tbl, _, _, _ := newTestTable()

	rows := []person{{1, "alpha"}, {2, "bravo"}, {3, "charlie"}, {4, "delta"}}
	_, err := tbl.InsertAll(rows)
	require.NoError(t, err)

	n := tbl.EraseSlots([]uint32{0, 2})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, tbl.Size())
	require.NoError(t, tbl.Verify())

	var ids []int
	for p := range tbl.Rows() {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int{2, 4}, ids)
}
