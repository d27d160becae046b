package rowtable

import "rowtable/index"

type tableOptions[Row any] struct {
	logger   *Logger
	indexes  []index.Index[Row]
	capacity int
}

// Option configures a Table at construction time.
//
// Today options primarily exist to avoid exploding New's signature with
// one parameter per concern.
type Option[Row any] func(*tableOptions[Row])

// WithLogger attaches a Logger. A Table built without WithLogger uses
// NoopLogger.
func WithLogger[Row any](logger *Logger) Option[Row] {
	return func(o *tableOptions[Row]) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithIndex appends one index to the table's ordered index list.
// Repeatable — call it once per index, in the order they should be
// maintained on every Insert/Erase (spec §4.2, §9 "ordered collection of
// index handle values").
func WithIndex[Row any](idx index.Index[Row]) Option[Row] {
	return func(o *tableOptions[Row]) {
		o.indexes = append(o.indexes, idx)
	}
}

// WithCapacity pre-reserves room for n rows, equivalent to calling
// Reserve(n) immediately after New.
func WithCapacity[Row any](n int) Option[Row] {
	return func(o *tableOptions[Row]) {
		o.capacity = n
	}
}

func applyOptions[Row any](optFns []Option[Row]) tableOptions[Row] {
	o := tableOptions[Row]{logger: NoopLogger()}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
