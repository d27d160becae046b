// Package order implements the insertion-order index from spec §4.3/§4.5:
// a doubly linked list over row-store slots, with head and tail pointers
// so Insert always appends and Move relinks in place instead of moving the
// row to the end of iteration order.
package order

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"rowtable/index"
)

// sentinelRef marks the ends of the list. It never corresponds to a row
// slot; prev/next link values (and head/tail) of sentinelRef mean "no row
// on that side".
const sentinelRef = ^uint32(0)

type link struct {
	prev, next uint32
}

// Index preserves the order rows were inserted in, independent of their
// row-store slot numbers, surviving the compaction that Erase causes.
type Index[Row any] struct {
	links  map[uint32]link
	head   uint32 // first row slot in order, sentinelRef if empty
	tail   uint32 // last row slot in order, sentinelRef if empty
	logger index.InconsistencyLogger
	name   string
}

// New creates an empty insertion-order index.
func New[Row any]() *Index[Row] {
	return &Index[Row]{
		links:  make(map[uint32]link),
		head:   sentinelRef,
		tail:   sentinelRef,
		logger: index.NopInconsistencyLogger{},
		name:   "order",
	}
}

// SetLogger implements index.LoggerSetter.
func (o *Index[Row]) SetLogger(l index.InconsistencyLogger) { o.logger = l }

// SetName tags this index's log lines and error messages.
func (o *Index[Row]) SetName(name string) { o.name = name }

// Name returns this index's label, "order" unless SetName was called.
func (o *Index[Row]) Name() string { return o.name }

// Reserve pre-sizes the backing map.
func (o *Index[Row]) Reserve(n int) {
	if len(o.links) < n {
		grown := make(map[uint32]link, n)
		for k, v := range o.links {
			grown[k] = v
		}
		o.links = grown
	}
}

// Clear drops every row from the order.
func (o *Index[Row]) Clear() {
	o.links = make(map[uint32]link)
	o.head = sentinelRef
	o.tail = sentinelRef
}

// Insert implements index.Index. This index defines no equivalence, so it
// never reports a duplicate; it only appends pos to the tail of the order.
func (o *Index[Row]) Insert(store index.Store[Row], pos uint32) (uint32, bool, error) {
	if o.tail == sentinelRef {
		o.links[pos] = link{prev: sentinelRef, next: sentinelRef}
		o.head = pos
		o.tail = pos
		return 0, false, nil
	}
	o.links[o.tail] = link{prev: o.links[o.tail].prev, next: pos}
	o.links[pos] = link{prev: o.tail, next: sentinelRef}
	o.tail = pos
	return 0, false, nil
}

// Erase implements index.Index.
func (o *Index[Row]) Erase(store index.Store[Row], pos uint32) {
	l, ok := o.links[pos]
	if !ok {
		o.logger.Report(o.name, "erase", pos, "slot not present in insertion order")
		return
	}
	if l.prev == sentinelRef {
		o.head = l.next
	} else {
		pl := o.links[l.prev]
		pl.next = l.next
		o.links[l.prev] = pl
	}
	if l.next == sentinelRef {
		o.tail = l.prev
	} else {
		nl := o.links[l.next]
		nl.prev = l.prev
		o.links[l.next] = nl
	}
	delete(o.links, pos)
}

// Move implements index.Index. The row's position in insertion order is
// unaffected by row-store compaction (spec's resolved Open Question: Move
// relinks old's slot number to new without changing where it sits in the
// order), so this only rewrites the map key, preserving neighbors' links.
func (o *Index[Row]) Move(store index.Store[Row], old, new uint32) {
	l, ok := o.links[old]
	if !ok {
		o.logger.Report(o.name, "move", old, "slot not present in insertion order")
		return
	}
	delete(o.links, old)
	o.links[new] = l
	if l.prev == sentinelRef {
		o.head = new
	} else {
		pl := o.links[l.prev]
		pl.next = new
		o.links[l.prev] = pl
	}
	if l.next == sentinelRef {
		o.tail = new
	} else {
		nl := o.links[l.next]
		nl.prev = new
		o.links[l.next] = nl
	}
}

// Ordered implements index.Ordered: every slot in insertion order.
func (o *Index[Row]) Ordered(store index.Store[Row]) func(yield func(uint32) bool) {
	return func(yield func(uint32) bool) {
		for cur := o.head; cur != sentinelRef; cur = o.links[cur].next {
			if !yield(cur) {
				return
			}
		}
	}
}

// Verify implements index.Verifier: the list must visit exactly the row
// store's slots, each exactly once, with consistent prev/next links.
func (o *Index[Row]) Verify(store index.Store[Row]) error {
	size := store.Len()
	if uint32(len(o.links)) != size {
		return fmt.Errorf("%s index: tracks %d slots but row store has %d", o.name, len(o.links), size)
	}
	seen := bitset.New(uint(size))
	prev := sentinelRef
	var count uint32
	for cur := o.head; cur != sentinelRef; {
		if cur >= size {
			return fmt.Errorf("%s index: references out-of-range slot %d (size %d)", o.name, cur, size)
		}
		if seen.Test(uint(cur)) {
			return fmt.Errorf("%s index: slot %d visited twice", o.name, cur)
		}
		seen.Set(uint(cur))
		count++
		l, ok := o.links[cur]
		if !ok {
			return fmt.Errorf("%s index: slot %d missing from link table", o.name, cur)
		}
		if l.prev != prev {
			return fmt.Errorf("%s index: slot %d has inconsistent prev link", o.name, cur)
		}
		prev = cur
		cur = l.next
	}
	if o.tail != prev {
		return fmt.Errorf("%s index: tail pointer inconsistent with list traversal", o.name)
	}
	if count != size {
		return fmt.Errorf("%s index: visited %d slots but row store has %d", o.name, count, size)
	}
	return nil
}
