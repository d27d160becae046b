// Package index defines the capability set that every rowtable index must
// implement, plus the optional capabilities (Finder, Ranger, Ordered,
// Verifier) that unlock the corresponding Table methods.
//
// Indexes never see a Row by value across a package boundary that would
// force a copy they don't need: they're handed a Store, a thin view over
// the row store's current slots, and a slot number.
package index

// Store is the view over the row store that every index call receives. It
// never grows or shrinks as a side effect of an index call — Table alone
// owns the row sequence and calls index methods before/after its own
// mutation, per the insertion/erase transaction in spec §4.2.
type Store[Row any] interface {
	// At returns a pointer to the row at pos. pos must be < Len().
	At(pos uint32) *Row
	// Len returns the current number of occupied slots.
	Len() uint32
}

// Index is the mandatory capability set (spec §4.3). A Table holds an
// ordered slice of these, dispatched in declaration order on every
// mutation.
type Index[Row any] interface {
	// Reserve is a capacity hint; it must never fail observably (§4.3).
	Reserve(n int)
	// Clear drops all references to rows. It does not touch the row store.
	Clear()
	// Insert records pos. If the index defines equivalence and an existing
	// occupied slot already matches table[pos], Insert returns that slot's
	// number and ok=true without recording pos. err is non-nil only when a
	// user callback (hashCode/matches/isBefore) failed or a rehash/grow
	// allocation failed (spec §5, §7 "Callback failure" / "Allocation
	// failure"); the index must leave itself unmodified when err != nil.
	Insert(store Store[Row], pos uint32) (existing uint32, ok bool, err error)
	// Erase removes the reference to pos. Must not fail.
	Erase(store Store[Row], pos uint32)
	// Move notifies the index that the row formerly at old now lives at
	// new (row-store compaction). By the time Move is called the row has
	// already been physically relocated: store.At(new) holds its data,
	// and old may already be out of range, so implementations must key
	// off store.At(new), never store.At(old). Must not fail.
	Move(store Store[Row], old, new uint32)
}

// Finder is an optional capability: exact lookup by a key that need not be
// a full Row (spec §4.3, §6 "overloads on key types").
type Finder[Row, Key any] interface {
	Find(store Store[Row], key Key) (slot uint32, ok bool)
}

// Ranger is an optional capability: an ordered half-open subrange [begin,
// end) of slots (spec §4.5 range, seed scenario 3).
type Ranger[Row, Key any] interface {
	Range(store Store[Row], begin, end Key) func(yield func(uint32) bool)
}

// Ordered is an optional capability: iteration over every slot the index
// holds, in the index's own order (spec §4.3 begin()/end()).
type Ordered[Row any] interface {
	Ordered(store Store[Row]) func(yield func(uint32) bool)
}

// Verifier is an optional capability used by Table.Verify (spec §4.2,
// "Asks the named index to audit itself against the row store").
type Verifier[Row any] interface {
	Verify(store Store[Row]) error
}

// InconsistencyLogger is the process-wide hook named in spec §6. Indexes
// that detect structural corruption (a probe that should have located an
// entry it indexed) call Report instead of failing the operation, per §7
// "Structural inconsistency... operation proceeds best-effort".
type InconsistencyLogger interface {
	Report(index, op string, slot uint32, detail string)
}

// NopInconsistencyLogger discards every report. Used when a caller builds
// an index directly without wiring it to a Table (e.g. in tests).
type NopInconsistencyLogger struct{}

// Report implements InconsistencyLogger.
func (NopInconsistencyLogger) Report(string, string, uint32, string) {}

// LoggerSetter is implemented by indexes that accept the table's
// inconsistency-reporting hook at construction time. rowtable.New calls
// SetLogger on every configured index that implements this, wiring it to
// an adapter over the table's own Logger.
type LoggerSetter interface {
	SetLogger(InconsistencyLogger)
}

// Named is implemented by indexes that can label themselves in log lines
// and errors (defaults to a generic name like "hash" or "btree" until
// overridden).
type Named interface {
	Name() string
}
