// Package btree implements the ordered B-tree index from spec §4.5:
// cache-line-sized nodes, a freelist of reclaimed node slots, and
// insertion/deletion that keep every node at least half full.
//
// Node layout follows spec §3 "B-tree node" directly: a leaf holds up to
// 14 nullable row references plus prev/next leaf links for range
// iteration; a parent holds up to 7 nullable separator row references
// plus 8 child node references. "Nullable" row references use the same
// +1-biased encoding the original implementation's MaybeUint applies (0
// means absent, n+1 means slot n) — see nullableSlot below. Node
// references are not biased; they use the noNode sentinel instead.
//
// Deletion here is the textbook bottom-up borrow/merge (detect underflow
// after removing a key, then fix up one level at a time), rather than the
// proactive top-down merge-before-descending strategy table.h uses. The
// two approaches keep the same node occupancy invariants; top-down avoids
// a second descent but is materially harder to get right, and nothing in
// this index's size range makes that second descent costly.
package btree

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"rowtable/index"
)

// Callbacks describes the ordering an Index maintains over Row, and how a
// lookup Key compares against a Row. Go has no operator overloading, so
// the three comparisons table.h's "isBefore" family expresses as overloads
// become three named methods.
type Callbacks[Row, Key any] interface {
	// Less reports whether a sorts strictly before b.
	Less(a, b Row) bool
	// KeyBefore reports whether key sorts strictly before row.
	KeyBefore(key Key, row Row) bool
	// RowBefore reports whether row sorts strictly before key.
	RowBefore(row Row, key Key) bool
}

const (
	leafCap        = 14
	parentKeyCap   = 7
	parentChildCap = 8

	leafMinFill   = leafCap / 2
	parentMinFill = parentChildCap / 2
)

// noNode marks an absent node reference. Node 0 is a legitimate node (the
// root never moves), so node references can't reuse 0 as "none" the way
// row slots do.
const noNode = ^uint32(0)

// nullableSlot is a row-store slot biased by one so the zero value means
// "absent", matching table.h's MaybeUint.
type nullableSlot uint32

func someSlot(s uint32) nullableSlot { return nullableSlot(s + 1) }
func (s nullableSlot) isNull() bool  { return s == 0 }
func (s nullableSlot) slot() uint32  { return uint32(s) - 1 }

type kind uint8

const (
	kindFree kind = iota
	kindLeaf
	kindParent
)

// node carries leaf, parent, and freelist fields together as a tagged
// struct rather than table.h's C++ union of the three layouts, so there is
// no reordering hazard across a kind change for a compilerBarrier() to
// guard: an ordinary struct literal assignment (blankLeaf, blankParent, or
// the kindFree literal in freeNode) replaces kind and its payload together
// in one write.
type node struct {
	kind kind

	// leaf fields
	rows       [leafCap]nullableSlot
	prev, next uint32

	// parent fields
	keys     [parentKeyCap]nullableSlot
	children [parentChildCap]uint32

	// freelist link, valid when kind == kindFree
	nextFree uint32
}

func blankLeaf() node {
	return node{kind: kindLeaf, prev: noNode, next: noNode}
}

func blankParent() node {
	n := node{kind: kindParent}
	for i := range n.children {
		n.children[i] = noNode
	}
	return n
}

func leafCount(n *node) int {
	c := 0
	for c < leafCap && !n.rows[c].isNull() {
		c++
	}
	return c
}

func childCount(n *node) int {
	c := 0
	for c < parentChildCap && n.children[c] != noNode {
		c++
	}
	return c
}

// Index is the B-tree ordered index over Row, rooted at a fixed node slot.
type Index[Row, Key any] struct {
	cb       Callbacks[Row, Key]
	nodes    []node
	freeHead uint32
	logger   index.InconsistencyLogger
	name     string
}

const rootIdx = 0

// New creates a B-tree index rooted at an empty leaf.
func New[Row, Key any](cb Callbacks[Row, Key]) *Index[Row, Key] {
	t := &Index[Row, Key]{
		cb:       cb,
		nodes:    []node{blankLeaf()},
		freeHead: noNode,
		logger:   index.NopInconsistencyLogger{},
		name:     "btree",
	}
	return t
}

// SetLogger implements index.LoggerSetter.
func (t *Index[Row, Key]) SetLogger(l index.InconsistencyLogger) { t.logger = l }

// SetName tags this index's log lines and error messages.
func (t *Index[Row, Key]) SetName(name string) { t.name = name }

// Name returns this index's label, "btree" unless SetName was called.
func (t *Index[Row, Key]) Name() string { return t.name }

// Reserve pre-allocates node storage for roughly n rows. The B-tree has no
// single flat array to resize the way the hash index does; growth happens
// node-by-node as rows are inserted, so Reserve only pre-grows the node
// slice to avoid repeated reallocation.
func (t *Index[Row, Key]) Reserve(n int) {
	wantNodes := n/leafCap + 2
	if cap(t.nodes) < wantNodes {
		grown := make([]node, len(t.nodes), wantNodes)
		copy(grown, t.nodes)
		t.nodes = grown
	}
}

// Clear drops every node but the (now empty) root.
func (t *Index[Row, Key]) Clear() {
	t.nodes = t.nodes[:1]
	t.nodes[0] = blankLeaf()
	t.freeHead = noNode
}

func (t *Index[Row, Key]) allocNode(k kind) uint32 {
	if t.freeHead != noNode {
		idx := t.freeHead
		t.freeHead = t.nodes[idx].nextFree
		if k == kindLeaf {
			t.nodes[idx] = blankLeaf()
		} else {
			t.nodes[idx] = blankParent()
		}
		return idx
	}
	var n node
	if k == kindLeaf {
		n = blankLeaf()
	} else {
		n = blankParent()
	}
	t.nodes = append(t.nodes, n)
	return uint32(len(t.nodes) - 1)
}

func (t *Index[Row, Key]) freeNode(idx uint32) {
	t.nodes[idx] = node{kind: kindFree, nextFree: t.freeHead}
	t.freeHead = idx
}

func (t *Index[Row, Key]) isFull(idx uint32) bool {
	n := &t.nodes[idx]
	if n.kind == kindLeaf {
		return leafCount(n) == leafCap
	}
	return childCount(n) == parentChildCap
}

// childForRow returns the index into n.children that row belongs under.
func (t *Index[Row, Key]) childForRow(store index.Store[Row], n *node, row Row) int {
	cc := childCount(n)
	for i := 0; i < cc-1; i++ {
		sepRow := *store.At(n.keys[i].slot())
		if t.cb.Less(row, sepRow) {
			return i
		}
	}
	return cc - 1
}

// childForKey returns the index into n.children that a lookup for key
// should descend into.
func (t *Index[Row, Key]) childForKey(store index.Store[Row], n *node, key Key) int {
	cc := childCount(n)
	for i := 0; i < cc-1; i++ {
		sepRow := *store.At(n.keys[i].slot())
		if t.cb.KeyBefore(key, sepRow) {
			return i
		}
	}
	return cc - 1
}

// Insert implements index.Index.
func (t *Index[Row, Key]) Insert(store index.Store[Row], pos uint32) (uint32, bool, error) {
	row := *store.At(pos)
	if t.isFull(rootIdx) {
		t.splitRoot()
	}
	cur := uint32(rootIdx)
	for t.nodes[cur].kind == kindParent {
		n := &t.nodes[cur]
		ci := t.childForRow(store, n, row)
		child := n.children[ci]
		if t.isFull(child) {
			t.splitChild(cur, ci)
			n = &t.nodes[cur]
			ci = t.childForRow(store, n, row)
			child = n.children[ci]
		}
		cur = child
	}
	return t.insertIntoLeaf(store, cur, pos, row)
}

func (t *Index[Row, Key]) insertIntoLeaf(store index.Store[Row], leafIdx uint32, pos uint32, row Row) (uint32, bool, error) {
	n := &t.nodes[leafIdx]
	cnt := leafCount(n)
	i := 0
	for i < cnt {
		existing := *store.At(n.rows[i].slot())
		if t.cb.Less(row, existing) {
			break
		}
		if !t.cb.Less(existing, row) {
			return n.rows[i].slot(), true, nil
		}
		i++
	}
	for j := cnt; j > i; j-- {
		n.rows[j] = n.rows[j-1]
	}
	n.rows[i] = someSlot(pos)
	return 0, false, nil
}

// splitLeaf splits a full leaf into itself and a new right sibling,
// returning the right node's index and the separator row (the right
// node's first row).
func (t *Index[Row, Key]) splitLeaf(idx uint32) (uint32, nullableSlot) {
	rightIdx := t.allocNode(kindLeaf)
	left := &t.nodes[idx]
	right := &t.nodes[rightIdx]
	const mid = leafCap / 2
	for k := mid; k < leafCap; k++ {
		right.rows[k-mid] = left.rows[k]
		left.rows[k] = 0
	}
	right.next = left.next
	right.prev = idx
	if left.next != noNode {
		t.nodes[left.next].prev = rightIdx
	}
	left.next = rightIdx
	return rightIdx, right.rows[0]
}

// splitParent splits a full parent into itself and a new right sibling,
// returning the right node's index and the separator row pulled up to the
// caller (not kept in either child).
func (t *Index[Row, Key]) splitParent(idx uint32) (uint32, nullableSlot) {
	rightIdx := t.allocNode(kindParent)
	left := &t.nodes[idx]
	right := &t.nodes[rightIdx]
	const mid = parentChildCap / 2
	sep := left.keys[mid-1]
	for k := mid; k < parentChildCap; k++ {
		right.children[k-mid] = left.children[k]
		left.children[k] = noNode
	}
	for k := mid; k < parentKeyCap; k++ {
		right.keys[k-mid] = left.keys[k]
		left.keys[k] = 0
	}
	left.keys[mid-1] = 0
	return rightIdx, sep
}

func (t *Index[Row, Key]) splitChild(parentIdx uint32, childSlot int) {
	parent := &t.nodes[parentIdx]
	childIdx := parent.children[childSlot]
	var rightIdx uint32
	var sep nullableSlot
	if t.nodes[childIdx].kind == kindLeaf {
		rightIdx, sep = t.splitLeaf(childIdx)
	} else {
		rightIdx, sep = t.splitParent(childIdx)
	}
	parent = &t.nodes[parentIdx]
	cc := childCount(parent)
	for k := cc; k > childSlot+1; k-- {
		parent.children[k] = parent.children[k-1]
	}
	parent.children[childSlot+1] = rightIdx
	for k := cc - 1; k > childSlot; k-- {
		parent.keys[k] = parent.keys[k-1]
	}
	parent.keys[childSlot] = sep
}

// splitRoot grows the tree by one level. The root node index never
// changes, so the root's current content is relocated to a fresh node
// first, then split; the root slot is reinitialized as the new top-level
// parent over the two halves.
func (t *Index[Row, Key]) splitRoot() {
	old := t.nodes[rootIdx]
	movedIdx := t.allocNode(old.kind)
	t.nodes[movedIdx] = old
	if old.kind == kindLeaf {
		if old.prev != noNode {
			t.nodes[old.prev].next = movedIdx
		}
		if old.next != noNode {
			t.nodes[old.next].prev = movedIdx
		}
	}
	t.nodes[rootIdx] = blankParent()
	var rightIdx uint32
	var sep nullableSlot
	if old.kind == kindLeaf {
		rightIdx, sep = t.splitLeaf(movedIdx)
	} else {
		rightIdx, sep = t.splitParent(movedIdx)
	}
	root := &t.nodes[rootIdx]
	root.children[0] = movedIdx
	root.children[1] = rightIdx
	root.keys[0] = sep
}

type pathEntry struct {
	node uint32
	slot int
}

// Erase implements index.Index.
func (t *Index[Row, Key]) Erase(store index.Store[Row], pos uint32) {
	row := *store.At(pos)
	var path []pathEntry
	// Separators that reference pos; rewritten below to the erased row's
	// in-order successor so no parent keeps a reference to pos.
	var fixups []*nullableSlot
	cur := uint32(rootIdx)
	for t.nodes[cur].kind == kindParent {
		n := &t.nodes[cur]
		ci := t.childForRow(store, n, row)
		if ci > 0 && n.keys[ci-1] == someSlot(pos) {
			fixups = append(fixups, &n.keys[ci-1])
		}
		path = append(path, pathEntry{node: cur, slot: ci})
		cur = n.children[ci]
	}
	n := &t.nodes[cur]
	cnt := leafCount(n)
	found := -1
	for i := 0; i < cnt; i++ {
		if n.rows[i].slot() == pos {
			found = i
			break
		}
	}
	if found < 0 {
		t.logger.Report(t.name, "erase", pos, "row not found in expected leaf")
		return
	}
	for i := found; i < cnt-1; i++ {
		n.rows[i] = n.rows[i+1]
	}
	n.rows[cnt-1] = 0
	for _, k := range fixups {
		*k = n.rows[0]
	}

	if cur == rootIdx || leafCount(n) >= leafMinFill {
		return
	}
	t.rebalanceLeaf(cur, path)
}

func (t *Index[Row, Key]) rebalanceLeaf(leafIdx uint32, path []pathEntry) {
	if len(path) == 0 {
		return
	}
	pe := path[len(path)-1]
	parent := &t.nodes[pe.node]
	slot := pe.slot

	if slot > 0 {
		leftIdx := parent.children[slot-1]
		left := &t.nodes[leftIdx]
		if leafCount(left) > leafMinFill {
			leaf := &t.nodes[leafIdx]
			cnt := leafCount(leaf)
			for i := cnt; i > 0; i-- {
				leaf.rows[i] = leaf.rows[i-1]
			}
			lc := leafCount(left)
			leaf.rows[0] = left.rows[lc-1]
			left.rows[lc-1] = 0
			parent.keys[slot-1] = leaf.rows[0]
			return
		}
	}
	cc := childCount(parent)
	if slot < cc-1 {
		rightIdx := parent.children[slot+1]
		right := &t.nodes[rightIdx]
		if leafCount(right) > leafMinFill {
			leaf := &t.nodes[leafIdx]
			cnt := leafCount(leaf)
			leaf.rows[cnt] = right.rows[0]
			rc := leafCount(right)
			for i := 0; i < rc-1; i++ {
				right.rows[i] = right.rows[i+1]
			}
			right.rows[rc-1] = 0
			parent.keys[slot] = right.rows[0]
			return
		}
	}

	if slot < cc-1 {
		t.mergeLeaves(leafIdx, parent.children[slot+1], pe.node, slot)
	} else {
		t.mergeLeaves(parent.children[slot-1], leafIdx, pe.node, slot-1)
	}
	t.rebalanceAfterParentShrink(pe.node, path[:len(path)-1])
}

func (t *Index[Row, Key]) mergeLeaves(leftIdx, rightIdx uint32, parentIdx uint32, leftSlot int) {
	left := &t.nodes[leftIdx]
	right := &t.nodes[rightIdx]
	lc := leafCount(left)
	rc := leafCount(right)
	for i := 0; i < rc; i++ {
		left.rows[lc+i] = right.rows[i]
	}
	left.next = right.next
	if right.next != noNode {
		t.nodes[right.next].prev = leftIdx
	}
	t.freeNode(rightIdx)
	t.removeParentEntry(parentIdx, leftSlot)
}

// removeParentEntry drops keys[slot] and children[slot+1], collapsing the
// gap left behind.
func (t *Index[Row, Key]) removeParentEntry(parentIdx uint32, slot int) {
	parent := &t.nodes[parentIdx]
	cc := childCount(parent)
	for i := slot; i < cc-2; i++ {
		parent.children[i+1] = parent.children[i+2]
	}
	parent.children[cc-1] = noNode
	for i := slot; i < cc-2; i++ {
		parent.keys[i] = parent.keys[i+1]
	}
	parent.keys[cc-2] = 0
}

func (t *Index[Row, Key]) rebalanceAfterParentShrink(parentIdx uint32, path []pathEntry) {
	if parentIdx == rootIdx {
		root := &t.nodes[rootIdx]
		if childCount(root) == 1 {
			only := root.children[0]
			t.nodes[rootIdx] = t.nodes[only]
			if t.nodes[rootIdx].kind == kindLeaf {
				if t.nodes[rootIdx].prev != noNode {
					t.nodes[t.nodes[rootIdx].prev].next = rootIdx
				}
				if t.nodes[rootIdx].next != noNode {
					t.nodes[t.nodes[rootIdx].next].prev = rootIdx
				}
			}
			t.freeNode(only)
		}
		return
	}
	if childCount(&t.nodes[parentIdx]) >= parentMinFill {
		return
	}
	if len(path) == 0 {
		return
	}
	pe := path[len(path)-1]
	gp := &t.nodes[pe.node]
	slot := pe.slot

	if slot > 0 {
		leftIdx := gp.children[slot-1]
		if childCount(&t.nodes[leftIdx]) > parentMinFill {
			t.borrowParentFromLeft(parentIdx, leftIdx, pe.node, slot)
			return
		}
	}
	gcc := childCount(gp)
	if slot < gcc-1 {
		rightIdx := gp.children[slot+1]
		if childCount(&t.nodes[rightIdx]) > parentMinFill {
			t.borrowParentFromRight(parentIdx, rightIdx, pe.node, slot)
			return
		}
	}
	if slot < gcc-1 {
		t.mergeParents(parentIdx, gp.children[slot+1], pe.node, slot)
	} else {
		t.mergeParents(gp.children[slot-1], parentIdx, pe.node, slot-1)
	}
	t.rebalanceAfterParentShrink(pe.node, path[:len(path)-1])
}

func (t *Index[Row, Key]) borrowParentFromLeft(idx, leftIdx, parentIdx uint32, slot int) {
	parent := &t.nodes[parentIdx]
	n := &t.nodes[idx]
	left := &t.nodes[leftIdx]
	cc := childCount(n)
	for i := cc; i > 0; i-- {
		n.children[i] = n.children[i-1]
	}
	for i := cc - 1; i > 0; i-- {
		n.keys[i] = n.keys[i-1]
	}
	lc := childCount(left)
	n.children[0] = left.children[lc-1]
	n.keys[0] = parent.keys[slot-1]
	parent.keys[slot-1] = left.keys[lc-2]
	left.children[lc-1] = noNode
	left.keys[lc-2] = 0
}

func (t *Index[Row, Key]) borrowParentFromRight(idx, rightIdx, parentIdx uint32, slot int) {
	parent := &t.nodes[parentIdx]
	n := &t.nodes[idx]
	right := &t.nodes[rightIdx]
	cc := childCount(n)
	n.children[cc] = right.children[0]
	n.keys[cc-1] = parent.keys[slot]
	parent.keys[slot] = right.keys[0]
	rc := childCount(right)
	for i := 0; i < rc-1; i++ {
		right.children[i] = right.children[i+1]
	}
	right.children[rc-1] = noNode
	for i := 0; i < rc-2; i++ {
		right.keys[i] = right.keys[i+1]
	}
	right.keys[rc-2] = 0
}

func (t *Index[Row, Key]) mergeParents(leftIdx, rightIdx uint32, parentIdx uint32, leftSlot int) {
	parent := &t.nodes[parentIdx]
	left := &t.nodes[leftIdx]
	right := &t.nodes[rightIdx]
	lc := childCount(left)
	left.keys[lc-1] = parent.keys[leftSlot]
	rc := childCount(right)
	for i := 0; i < rc; i++ {
		left.children[lc+i] = right.children[i]
	}
	for i := 0; i < rc-1; i++ {
		left.keys[lc+i] = right.keys[i]
	}
	t.freeNode(rightIdx)
	t.removeParentEntry(parentIdx, leftSlot)
}

// Move implements index.Index. By the time Move is called the row has
// already been physically relocated to store.At(new); old must not be
// read (spec §4.2 compaction notifies indexes after the row copy).
//
// A row that was promoted to a parent separator (splitLeaf/splitChild pull
// up a leaf's own row-store slot, not a copy of its key) still carries the
// old slot number there too, so every parent visited on the way down is
// checked for a separator referencing old and repointed to new before the
// leaf entry itself is fixed.
func (t *Index[Row, Key]) Move(store index.Store[Row], old, new uint32) {
	row := *store.At(new)
	cur := uint32(rootIdx)
	for t.nodes[cur].kind == kindParent {
		n := &t.nodes[cur]
		for i, k := range n.keys {
			if k != 0 && k.slot() == old {
				n.keys[i] = someSlot(new)
			}
		}
		cur = n.children[t.childForRow(store, n, row)]
	}
	n := &t.nodes[cur]
	cnt := leafCount(n)
	for i := 0; i < cnt; i++ {
		if n.rows[i].slot() == old {
			n.rows[i] = someSlot(new)
			return
		}
	}
	t.logger.Report(t.name, "move", old, "row not found in expected leaf during move")
}

// Find implements index.Finder: exact lookup against a unique or
// first-match leftmost row for key.
func (t *Index[Row, Key]) Find(store index.Store[Row], key Key) (uint32, bool) {
	cur := uint32(rootIdx)
	for t.nodes[cur].kind == kindParent {
		n := &t.nodes[cur]
		cur = n.children[t.childForKey(store, n, key)]
	}
	n := &t.nodes[cur]
	cnt := leafCount(n)
	for i := 0; i < cnt; i++ {
		row := *store.At(n.rows[i].slot())
		if !t.cb.RowBefore(row, key) && !t.cb.KeyBefore(key, row) {
			return n.rows[i].slot(), true
		}
		if t.cb.KeyBefore(key, row) {
			break
		}
	}
	return 0, false
}

func (t *Index[Row, Key]) firstLeaf() uint32 {
	cur := uint32(rootIdx)
	for t.nodes[cur].kind == kindParent {
		cur = t.nodes[cur].children[0]
	}
	return cur
}

// Ordered implements index.Ordered: every slot, in ascending order.
func (t *Index[Row, Key]) Ordered(store index.Store[Row]) func(yield func(uint32) bool) {
	return func(yield func(uint32) bool) {
		leaf := t.firstLeaf()
		for leaf != noNode {
			n := &t.nodes[leaf]
			cnt := leafCount(n)
			for i := 0; i < cnt; i++ {
				if !yield(n.rows[i].slot()) {
					return
				}
			}
			leaf = n.next
		}
	}
}

// Range implements index.Ranger: every slot whose row falls in
// [begin, end) by this index's order.
func (t *Index[Row, Key]) Range(store index.Store[Row], begin, end Key) func(yield func(uint32) bool) {
	return func(yield func(uint32) bool) {
		cur := uint32(rootIdx)
		for t.nodes[cur].kind == kindParent {
			n := &t.nodes[cur]
			cur = n.children[t.childForKey(store, n, begin)]
		}
		for cur != noNode {
			n := &t.nodes[cur]
			cnt := leafCount(n)
			for i := 0; i < cnt; i++ {
				row := *store.At(n.rows[i].slot())
				if t.cb.RowBefore(row, begin) {
					continue
				}
				if !t.cb.RowBefore(row, end) {
					return
				}
				if !yield(n.rows[i].slot()) {
					return
				}
			}
			cur = n.next
		}
	}
}

// Verify implements index.Verifier: walks the leaf chain and confirms
// every leaf row is unique, in range, and in order, that every non-root
// leaf is at least half full, and that the total row count matches the
// row store's size. Parent nodes are not inspected: separator keys,
// parent occupancy and leaf depth are not checked.
//
// Unlike the hash and order indexes' dense, size-bounded visited check,
// the set of slots a B-tree can reference is scattered across whatever
// leaves the tree currently has, so the "have I seen this slot" tracking
// here uses a compressed roaring.Bitmap instead of a fixed-size bitset:
// CheckedAdd both records the slot and reports a duplicate in one call,
// and GetCardinality replaces a separate running counter for the final
// row-count comparison.
func (t *Index[Row, Key]) Verify(store index.Store[Row]) error {
	size := store.Len()
	seen := roaring.New()
	var lastRow *Row

	leaf := t.firstLeaf()
	for leaf != noNode {
		n := &t.nodes[leaf]
		cnt := leafCount(n)
		if leaf != rootIdx && cnt < leafMinFill {
			return fmt.Errorf("%s index: leaf node %d underflowed (%d rows, min %d)", t.name, leaf, cnt, leafMinFill)
		}
		for i := 0; i < cnt; i++ {
			slot := n.rows[i].slot()
			if slot >= size {
				return fmt.Errorf("%s index: leaf references out-of-range slot %d (size %d)", t.name, slot, size)
			}
			if !seen.CheckedAdd(slot) {
				return fmt.Errorf("%s index: slot %d referenced by more than one leaf entry", t.name, slot)
			}
			row := *store.At(slot)
			if lastRow != nil && t.cb.Less(row, *lastRow) {
				return fmt.Errorf("%s index: rows out of order at slot %d", t.name, slot)
			}
			lastRow = &row
		}
		leaf = n.next
	}
	if seen.GetCardinality() != uint64(size) {
		return fmt.Errorf("%s index: indexes %d rows but row store has %d", t.name, seen.GetCardinality(), size)
	}
	return nil
}
