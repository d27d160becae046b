package rowtable

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"rowtable/index"
)

// Table is an in-memory row container maintained alongside a fixed,
// ordered list of indexes (spec §3 "Table", §4.2).
type Table[Row any] struct {
	rows    []Row
	indexes []index.Index[Row]
	logger  *Logger
	id      uuid.UUID
}

// New creates an empty Table configured with opts. Indexes are added with
// WithIndex, in the order they should be maintained on every mutation.
func New[Row any](opts ...Option[Row]) *Table[Row] {
	o := applyOptions(opts)
	t := &Table[Row]{
		indexes: o.indexes,
		logger:  o.logger,
		id:      uuid.New(),
	}
	report := tableInconsistencyLogger{logger: t.logger, tableID: t.id}
	for _, idx := range t.indexes {
		if ls, ok := idx.(index.LoggerSetter); ok {
			ls.SetLogger(report)
		}
	}
	if o.capacity > 0 {
		t.Reserve(o.capacity)
	}
	return t
}

// tableInconsistencyLogger adapts a Table's Logger to index.InconsistencyLogger.
type tableInconsistencyLogger struct {
	logger  *Logger
	tableID uuid.UUID
}

func (r tableInconsistencyLogger) Report(idx, op string, slot uint32, detail string) {
	r.logger.WithTable(r.tableID).LogInconsistency(idx, op, slot, detail)
}

// tableStore is the index.Store view Table hands to every index call.
type tableStore[Row any] struct {
	t *Table[Row]
}

func (s tableStore[Row]) At(pos uint32) *Row { return &s.t.rows[pos] }
func (s tableStore[Row]) Len() uint32        { return uint32(len(s.t.rows)) }

func (t *Table[Row]) store() tableStore[Row] { return tableStore[Row]{t} }

func indexLabel[Row any](idx index.Index[Row]) string {
	if n, ok := idx.(index.Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", idx)
}

// Size returns the number of rows currently stored.
func (t *Table[Row]) Size() int { return len(t.rows) }

// Capacity returns the row store's current capacity.
func (t *Table[Row]) Capacity() int { return cap(t.rows) }

// Reserve hints that the table should be able to hold n rows without
// reallocating, and forwards the hint to every index (spec §4.2 reserve).
func (t *Table[Row]) Reserve(n int) {
	if cap(t.rows) < n {
		grown := make([]Row, len(t.rows), n)
		copy(grown, t.rows)
		t.rows = grown
	}
	for _, idx := range t.indexes {
		idx.Reserve(n)
	}
}

// Clear removes every row and resets every index, keeping the backing
// array's capacity.
func (t *Table[Row]) Clear() {
	t.rows = t.rows[:0]
	for _, idx := range t.indexes {
		idx.Clear()
	}
}

// Rows iterates every live row in row-store slot order (spec §4.2's bare
// row-store iteration, the original's begin()/end() over the backing
// array).
func (t *Table[Row]) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := range t.rows {
			if !yield(t.rows[i]) {
				return
			}
		}
	}
}

// RowAt returns the row at slot, and whether slot is currently occupied.
func (t *Table[Row]) RowAt(slot uint32) (Row, bool) {
	if slot >= uint32(len(t.rows)) {
		var zero Row
		return zero, false
	}
	return t.rows[slot], true
}

// Insert appends row and runs it through every index's Insert in
// declaration order (spec §4.2 "insertion transaction"). If any index
// reports an existing match, or a callback fails, every index already
// touched is rolled back in reverse order and the row store returns to
// its pre-call state.
func (t *Table[Row]) Insert(row Row) (uint32, error) {
	pos := uint32(len(t.rows))
	t.rows = append(t.rows, row)
	store := t.store()

	touched := 0
	for _, idx := range t.indexes {
		existing, ok, err := idx.Insert(store, pos)
		if err != nil {
			t.rollbackInsert(store, pos, touched)
			t.rows = t.rows[:pos]
			wrapped := wrapCallback("insert", indexLabel(idx), err)
			t.logger.WithTable(t.id).LogInsert(pos, wrapped)
			return 0, wrapped
		}
		if ok {
			t.rollbackInsert(store, pos, touched)
			t.rows = t.rows[:pos]
			t.logger.WithTable(t.id).LogInsert(pos, ErrDuplicateRow)
			return existing, ErrDuplicateRow
		}
		touched++
	}
	t.logger.WithTable(t.id).LogInsert(pos, nil)
	return pos, nil
}

func (t *Table[Row]) rollbackInsert(store index.Store[Row], pos uint32, touched int) {
	for i := touched - 1; i >= 0; i-- {
		t.indexes[i].Erase(store, pos)
	}
}

// InsertAll reserves room for len(rows) more entries and inserts them one
// at a time, stopping at the first failure (original's insertAll, spec.md
// "no error is swallowed" carries over: later rows are not attempted).
// It returns the number of rows successfully inserted before any failure.
func (t *Table[Row]) InsertAll(rows []Row) (int, error) {
	t.Reserve(len(t.rows) + len(rows))
	for i, row := range rows {
		if _, err := t.Insert(row); err != nil {
			t.logger.WithTable(t.id).LogInsertAll(len(rows), i, err)
			return i, err
		}
	}
	t.logger.WithTable(t.id).LogInsertAll(len(rows), len(rows), nil)
	return len(rows), nil
}

// EraseSlot removes the row at slot. A slot at or beyond Size() returns
// ErrNotMember (spec §7 "Precondition violation"); any slot below Size()
// is erased, whichever row currently occupies it, so a stale slot number
// is not detected. This never fails for an in-range slot.
func (t *Table[Row]) EraseSlot(slot uint32) error {
	size := uint32(len(t.rows))
	if slot >= size {
		return ErrNotMember
	}
	store := t.store()
	for _, idx := range t.indexes {
		idx.Erase(store, slot)
	}
	last := size - 1
	if slot != last {
		t.rows[slot] = t.rows[last]
		for _, idx := range t.indexes {
			idx.Move(store, last, slot)
		}
	}
	t.rows = t.rows[:last]
	t.logger.WithTable(t.id).LogErase(slot, nil)
	return nil
}

// eraseSlots removes every slot in targets (each must be < len(t.rows),
// each listed at most once). It pre-resolves the fact that compacting one
// erase can relocate a row still awaiting its own erase, by draining any
// trailing slot that is itself a pending target before swapping a
// survivor into the hole — the same guarantee the original's
// eraseAllImpl gets from its erased[size-pos-1] remap, expressed as an
// explicit pending-set check instead of a precomputed table.
func (t *Table[Row]) eraseSlots(targets []uint32) int {
	if len(targets) == 0 {
		return 0
	}
	pending := make(map[uint32]bool, len(targets))
	for _, p := range targets {
		pending[p] = true
	}
	sorted := append([]uint32(nil), targets...)
	sortUint32s(sorted)

	store := t.store()
	size := uint32(len(t.rows))
	erased := 0

	drainTrailing := func() {
		for size > 0 && pending[size-1] {
			for _, idx := range t.indexes {
				idx.Erase(store, size-1)
			}
			delete(pending, size-1)
			size--
			erased++
		}
	}

	drainTrailing()
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		if p >= size || !pending[p] {
			continue
		}
		for _, idx := range t.indexes {
			idx.Erase(store, p)
		}
		last := size - 1
		t.rows[p] = t.rows[last]
		for _, idx := range t.indexes {
			idx.Move(store, last, p)
		}
		delete(pending, p)
		size--
		erased++
		drainTrailing()
	}
	t.rows = t.rows[:size]
	return erased
}

func sortUint32s(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// EraseAll removes every row for which pred returns true, and reports how
// many rows were erased (original's eraseAll(predicate)).
func (t *Table[Row]) EraseAll(pred func(Row) bool) int {
	var targets []uint32
	for i, row := range t.rows {
		if pred(row) {
			targets = append(targets, uint32(i))
		}
	}
	n := t.eraseSlots(targets)
	t.logger.WithTable(t.id).LogEraseAll(len(targets), n)
	return n
}

// EraseSlots removes every slot named in slots, such as the results of a
// prior Range call (original's eraseAll(collection)). Each slot must be
// valid and listed at most once.
func (t *Table[Row]) EraseSlots(slots []uint32) int {
	n := t.eraseSlots(slots)
	t.logger.WithTable(t.id).LogEraseAll(len(slots), n)
	return n
}

// Verify asks every index that implements index.Verifier to audit itself
// against the row store (spec §4.2).
func (t *Table[Row]) Verify() error {
	store := t.store()
	for _, idx := range t.indexes {
		v, ok := idx.(index.Verifier[Row])
		if !ok {
			continue
		}
		if err := v.Verify(store); err != nil {
			wrapped := fmt.Errorf("rowtable: verify: %s: %w", indexLabel(idx), err)
			t.logger.WithTable(t.id).LogVerify(wrapped)
			return wrapped
		}
	}
	t.logger.WithTable(t.id).LogVerify(nil)
	return nil
}

// Use returns the single configured index assignable to I. It returns
// ErrIndexNotFound if no index matches, or ErrAmbiguousIndex if more than
// one does — addressing by type requires a unique match (spec §4.2).
func Use[I any, Row any](t *Table[Row]) (I, error) {
	var zero, found I
	matches := 0
	for _, idx := range t.indexes {
		if v, ok := idx.(I); ok {
			found = v
			matches++
		}
	}
	switch matches {
	case 0:
		return zero, ErrIndexNotFound
	case 1:
		return found, nil
	default:
		return zero, ErrAmbiguousIndex
	}
}

// UseAt returns the index at the given declaration position (spec §4.2
// "addressable... by positional number").
func UseAt[Row any](t *Table[Row], pos int) (index.Index[Row], error) {
	if pos < 0 || pos >= len(t.indexes) {
		return nil, ErrIndexNotFound
	}
	return t.indexes[pos], nil
}

// Find looks up key against f, a Finder belonging to t, and returns the
// matching row.
func Find[Row, Key any](t *Table[Row], f index.Finder[Row, Key], key Key) (Row, bool) {
	slot, ok := f.Find(t.store(), key)
	if !ok {
		var zero Row
		return zero, false
	}
	return t.rows[slot], true
}

// EraseMatch finds key in f and erases the matching row, returning it.
// Returns ErrNotFound if no row matches.
func EraseMatch[Row, Key any](t *Table[Row], f index.Finder[Row, Key], key Key) (Row, error) {
	slot, ok := f.Find(t.store(), key)
	if !ok {
		return *new(Row), ErrNotFound
	}
	row := t.rows[slot]
	if err := t.EraseSlot(slot); err != nil {
		return row, err
	}
	return row, nil
}

// Range iterates every row in r's order whose key falls in [begin, end).
func Range[Row, Key any](t *Table[Row], r index.Ranger[Row, Key], begin, end Key) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for slot := range r.Range(t.store(), begin, end) {
			if !yield(t.rows[slot]) {
				return
			}
		}
	}
}

// EraseRange erases every row in r's order whose key falls in
// [begin, end), returning the number erased.
func EraseRange[Row, Key any](t *Table[Row], r index.Ranger[Row, Key], begin, end Key) int {
	var targets []uint32
	for slot := range r.Range(t.store(), begin, end) {
		targets = append(targets, slot)
	}
	n := t.eraseSlots(targets)
	t.logger.WithTable(t.id).LogEraseAll(len(targets), n)
	return n
}

// Ordered iterates every row o holds, in o's own order.
func Ordered[Row any](t *Table[Row], o index.Ordered[Row]) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for slot := range o.Ordered(t.store()) {
			if !yield(t.rows[slot]) {
				return
			}
		}
	}
}

// Upsert looks up key in f. If a row matches, update is run against a copy
// of the existing row and only written back on success (and replace is
// ignored); if update is nil the existing row is overwritten with replace.
// If no row matches f, replace is run through the real Insert transaction
// against every configured index, same as Insert. If that transaction
// reports a duplicate under some other index — not the one key was looked
// up against — the row found there is treated as the match instead of
// surfacing a raw ErrDuplicateRow, since upsert never reports a duplicate
// by design (spec §4.2's upsert protocol, table.h:527-536: the original
// tries the real row through every index and catches whichever one first
// reports the match). Returns the row's slot.
func Upsert[Row, Key any](t *Table[Row], f index.Finder[Row, Key], key Key, replace Row, update func(existing *Row) error) (uint32, error) {
	if slot, ok := f.Find(t.store(), key); ok {
		return t.applyUpdate(slot, replace, update)
	}
	slot, err := t.Insert(replace)
	if errors.Is(err, ErrDuplicateRow) {
		return t.applyUpdate(slot, replace, update)
	}
	return slot, err
}

// applyUpdate runs update against a copy of t.rows[slot], writing the copy
// back only once update succeeds, so a failing callback leaves the live row
// untouched (spec §5, §7 invariant 7 — the same strong-exception-safety
// guarantee CallbackError documents for Insert).
func (t *Table[Row]) applyUpdate(slot uint32, replace Row, update func(existing *Row) error) (uint32, error) {
	if update == nil {
		t.rows[slot] = replace
		return slot, nil
	}
	tmp := t.rows[slot]
	if err := update(&tmp); err != nil {
		wrapped := wrapCallback("upsert", "", err)
		t.logger.WithTable(t.id).LogInsert(slot, wrapped)
		return slot, wrapped
	}
	t.rows[slot] = tmp
	return slot, nil
}
