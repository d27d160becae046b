// Package hash implements the open-addressing hash index described in
// spec §4.4: linear probing, cached hash codes, and tombstones, with
// load-factor-driven rehashing.
//
// Go has no overload resolution, so the two-argument callback family spec
// §6 describes ("hashCode(row-or-key)", "matches(row, row-or-key)") is
// split into four named methods instead: HashCode/Equal operate on two
// full Rows (used while inserting), HashKey/Matches operate on a Row and a
// lookup Key (used while finding). Pass Row as Key and make HashKey/Matches
// thin wrappers around HashCode/Equal when a unique index needs no
// separate lookup-key type.
package hash

import (
	"fmt"
	"hash/crc32"

	"github.com/bits-and-blooms/bitset"

	"rowtable/index"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes a hardware-accelerated CRC32-Castagnoli checksum, a
// ready-made HashCode/HashKey for Callbacks implementations keyed on a
// byte slice or string rather than a numeric field.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Callbacks describes how an Index computes hash codes and equivalence
// for Row, and how it resolves a lookup Key to the same hash space.
type Callbacks[Row, Key any] interface {
	// HashCode computes a row's hash. Matching rows (per Equal) must hash
	// equal.
	HashCode(row Row) (uint32, error)
	// Equal reports whether two rows match for the purpose of this index.
	Equal(a, b Row) (bool, error)
	// HashKey computes the hash of a lookup key; must agree with HashCode
	// for any row that Matches the key.
	HashKey(key Key) (uint32, error)
	// Matches reports whether row matches the lookup key.
	Matches(row Row, key Key) (bool, error)
}

// bucket is the (hash, slot) pair from spec §3, biased so 0 means empty and
// 1 means tombstone: value = slot+2 when occupied.
type bucket struct {
	hash  uint32
	value uint32
}

func (b bucket) isEmpty() bool     { return b.value == 0 }
func (b bucket) isTombstone() bool { return b.value == 1 }
func (b bucket) isOccupied() bool  { return b.value >= 2 }
func (b bucket) slot() uint32      { return b.value - 2 }

// Index is the open-addressing hash index over Row, looked up by Key.
type Index[Row, Key any] struct {
	cb         Callbacks[Row, Key]
	buckets    []bucket
	tombstones int
	logger     index.InconsistencyLogger
	name       string
}

// New creates a hash index using the given callbacks. Instantiate with
// Key = Row for a unique index keyed on the whole row.
func New[Row, Key any](cb Callbacks[Row, Key]) *Index[Row, Key] {
	return &Index[Row, Key]{cb: cb, logger: index.NopInconsistencyLogger{}, name: "hash"}
}

// SetLogger implements index.LoggerSetter.
func (h *Index[Row, Key]) SetLogger(l index.InconsistencyLogger) { h.logger = l }

// SetName tags this index's log lines and error messages, useful when a
// Table carries more than one hash index.
func (h *Index[Row, Key]) SetName(name string) { h.name = name }

// Name returns this index's label, "hash" unless SetName was called.
func (h *Index[Row, Key]) Name() string { return h.name }

// Reserve ensures the bucket array can hold n rows at <= 1/2 load factor.
func (h *Index[Row, Key]) Reserve(n int) {
	if len(h.buckets) < 2*n {
		h.rehash(n)
	}
}

// Clear drops every bucket.
func (h *Index[Row, Key]) Clear() {
	for i := range h.buckets {
		h.buckets[i] = bucket{}
	}
	h.tombstones = 0
}

// Insert implements index.Index.
func (h *Index[Row, Key]) Insert(store index.Store[Row], pos uint32) (uint32, bool, error) {
	size := int(store.Len())
	if len(h.buckets)*2 < (size+h.tombstones)*3 {
		h.rehash(max(len(h.buckets)*2, size*2))
	}
	if len(h.buckets) == 0 {
		h.rehash(1)
	}

	row := *store.At(pos)
	hc, err := h.cb.HashCode(row)
	if err != nil {
		return 0, false, fmt.Errorf("hashCode: %w", err)
	}

	tombstone := -1
	n := len(h.buckets)
	i := int(hc % uint32(n))
	for probes := 0; probes <= n; probes++ {
		b := h.buckets[i]
		switch {
		case b.isEmpty():
			if tombstone >= 0 {
				h.tombstones--
				h.buckets[tombstone] = bucket{hash: hc, value: pos + 2}
			} else {
				h.buckets[i] = bucket{hash: hc, value: pos + 2}
			}
			return 0, false, nil
		case b.isTombstone():
			if tombstone < 0 {
				tombstone = i
			}
		case b.hash == hc:
			eq, err := h.cb.Equal(*store.At(b.slot()), row)
			if err != nil {
				return 0, false, fmt.Errorf("equal: %w", err)
			}
			if eq {
				return b.slot(), true, nil
			}
		}
		i = h.next(i)
	}
	h.logger.Report(h.name, "insert", pos, "probe exhausted bucket array without finding empty slot")
	return 0, false, fmt.Errorf("hash index: bucket array exhausted during insert")
}

// Erase implements index.Index. Per spec §4.3 this must not fail; a failed
// hashCode callback or a lost bucket is reported via the inconsistency
// hook instead of surfacing an error.
func (h *Index[Row, Key]) Erase(store index.Store[Row], pos uint32) {
	row := *store.At(pos)
	hc, err := h.cb.HashCode(row)
	if err != nil {
		h.logger.Report(h.name, "erase", pos, fmt.Sprintf("hashCode callback failed: %v", err))
		return
	}
	if len(h.buckets) == 0 {
		h.logger.Report(h.name, "erase", pos, "erase against empty bucket array")
		return
	}
	n := len(h.buckets)
	i := int(hc % uint32(n))
	for probes := 0; probes <= n; probes++ {
		b := h.buckets[i]
		if b.isOccupied() && b.slot() == pos {
			h.tombstones++
			h.buckets[i] = bucket{value: 1}
			return
		}
		if b.isEmpty() {
			h.logger.Report(h.name, "erase", pos, "probe reached empty bucket without finding slot")
			return
		}
		i = h.next(i)
	}
	h.logger.Report(h.name, "erase", pos, "probe exhausted bucket array without finding slot")
}

// Move implements index.Index. By the time Move is called the row has
// already been physically relocated: store.At(new) holds its data and
// store.At(old) must not be read (spec §4.2 compaction notifies indexes
// after the row copy, before the store shrinks).
func (h *Index[Row, Key]) Move(store index.Store[Row], old, new uint32) {
	row := *store.At(new)
	hc, err := h.cb.HashCode(row)
	if err != nil {
		h.logger.Report(h.name, "move", old, fmt.Sprintf("hashCode callback failed: %v", err))
		return
	}
	if len(h.buckets) == 0 {
		h.logger.Report(h.name, "move", old, "move against empty bucket array")
		return
	}
	n := len(h.buckets)
	i := int(hc % uint32(n))
	for probes := 0; probes <= n; probes++ {
		b := h.buckets[i]
		if b.isOccupied() && b.slot() == old {
			h.buckets[i].value = new + 2
			return
		}
		if b.isEmpty() {
			h.logger.Report(h.name, "move", old, "probe reached empty bucket without finding slot")
			return
		}
		i = h.next(i)
	}
	h.logger.Report(h.name, "move", old, "probe exhausted bucket array without finding slot")
}

// Find implements index.Finder.
func (h *Index[Row, Key]) Find(store index.Store[Row], key Key) (uint32, bool) {
	if len(h.buckets) == 0 {
		return 0, false
	}
	hc, err := h.cb.HashKey(key)
	if err != nil {
		h.logger.Report(h.name, "find", 0, fmt.Sprintf("hashKey callback failed: %v", err))
		return 0, false
	}
	n := len(h.buckets)
	i := int(hc % uint32(n))
	for probes := 0; probes <= n; probes++ {
		b := h.buckets[i]
		if b.isEmpty() {
			return 0, false
		}
		if b.isOccupied() && b.hash == hc {
			ok, err := h.cb.Matches(*store.At(b.slot()), key)
			if err != nil {
				h.logger.Report(h.name, "find", b.slot(), fmt.Sprintf("matches callback failed: %v", err))
				return 0, false
			}
			if ok {
				return b.slot(), true
			}
		}
		i = h.next(i)
	}
	return 0, false
}

// Verify implements index.Verifier: walks every bucket, checks that every
// occupied bucket references a distinct, in-range slot, that the cached
// hash is still correct, and that the total occupied count equals the row
// store's size (spec §4.2 verify, §8 invariant 3).
func (h *Index[Row, Key]) Verify(store index.Store[Row]) error {
	size := store.Len()
	seen := bitset.New(uint(size))
	var occupied uint32
	for _, b := range h.buckets {
		if !b.isOccupied() {
			continue
		}
		slot := b.slot()
		if slot >= size {
			return fmt.Errorf("%s index: bucket references out-of-range slot %d (size %d)", h.name, slot, size)
		}
		if seen.Test(uint(slot)) {
			return fmt.Errorf("%s index: slot %d is referenced by more than one bucket", h.name, slot)
		}
		seen.Set(uint(slot))
		occupied++

		hc, err := h.cb.HashCode(*store.At(slot))
		if err != nil {
			return fmt.Errorf("%s index: hashCode callback failed during verify: %w", h.name, err)
		}
		if hc != b.hash {
			return fmt.Errorf("%s index: cached hash for slot %d is stale", h.name, slot)
		}
	}
	if occupied != size {
		return fmt.Errorf("%s index: indexes %d slots but row store has %d", h.name, occupied, size)
	}
	return nil
}

func (h *Index[Row, Key]) next(i int) int {
	i++
	if i == len(h.buckets) {
		return 0
	}
	return i
}

func (h *Index[Row, Key]) rehash(targetSize int) {
	newCap := nextCapacity(targetSize)
	newBuckets := make([]bucket, newCap)
	for _, b := range h.buckets {
		if !b.isOccupied() {
			continue
		}
		i := int(b.hash % uint32(newCap))
		for {
			if newBuckets[i].isEmpty() {
				newBuckets[i] = b
				break
			}
			i++
			if i == newCap {
				i = 0
			}
		}
	}
	h.buckets = newBuckets
	h.tombstones = 0
}

// nextCapacity picks a power-of-two bucket count giving <= 1/2 load factor
// for targetSize live rows (spec §4.4's "e.g., next prime >= 2*targetSize",
// adapted to the power-of-two sizing idiomatic in Go hash tables, see
// DESIGN.md).
func nextCapacity(targetSize int) int {
	need := targetSize * 2
	if need < 8 {
		need = 8
	}
	cap := 8
	for cap < need {
		cap *= 2
	}
	return cap
}
