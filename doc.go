// Package rowtable provides an in-memory row container addressable
// through any number of coordinated secondary indexes.
//
// A Table holds a growable sequence of rows plus a fixed, ordered list of
// indexes configured at construction time. Every mutation — Insert,
// EraseSlot, EraseAll — runs as a transaction across that whole list:
// every index sees the same change, in the same declared order, or none
// of them do.
//
// # Quick Start
//
//	type person struct {
//	    ID   int
//	    Name string
//	}
//
//	byID := hash.New[person, int](idByIDCallbacks{})
//	byName := btree.New[person, string](byNameCallbacks{})
//
//	t := rowtable.New[person](
//	    rowtable.WithIndex[person](byID),
//	    rowtable.WithIndex[person](byName),
//	)
//
//	slot, err := t.Insert(person{ID: 1, Name: "Ada"})
//
// # Indexes
//
// Every index implements index.Index: Reserve, Clear, Insert, Erase,
// Move. An index can additionally implement index.Finder for exact
// lookups by key, index.Ranger for ordered subranges, index.Ordered for
// full traversal in the index's own order, and index.Verifier for
// self-auditing. This module ships three: a hash index (open addressing,
// unordered, exact lookup only), a B-tree index (ordered, supports
// range queries), and an insertion-order index (no lookup, preserves
// first-inserted-first-out order across compaction).
//
// # Guarantees
//
// Insert is all-or-nothing: if any index reports the row already exists,
// or a user callback fails, every index touched so far is rolled back and
// the row store is left exactly as it was. EraseSlot fails only with
// ErrNotMember, for a slot at or beyond Size(); the batched erase
// operations return no error.
//
// # Non-goals
//
// No persistence, no cross-process sharing, no concurrent access to a
// single Table, no automatic key extraction from a Row, no iterator
// stability across mutations.
package rowtable
