package tatami

// Matrix is the abstract source of extractors. Implementations are
// immutable after construction and safe for concurrent extractor
// construction and concurrent calls to the accessor methods below; a
// Fetch call on an extractor it produced must only ever be made from a
// single goroutine.
//
// Dense(axis, sel, opts) and Sparse(axis, sel, opts) together stand in for
// a row/column x dense/sparse x Full/Block/Index factory family: Go has
// no method overloading, so the axis and selection kind are carried as
// explicit parameters instead of being baked into the method name and
// argument list. DenseRow, DenseColumn, SparseRow, and SparseColumn below
// are thin convenience wrappers for the common named-factory call sites.
type Matrix[V Number, I Integer] interface {
	// NumRows and NumCols report the matrix shape.
	NumRows() int
	NumCols() int

	// IsSparse reports whether the matrix is, in the main, sparse.
	IsSparse() bool
	// IsSparseProportion reports the real-valued proportion of the matrix
	// that is sparse, for composites that mix dense and sparse children.
	IsSparseProportion() float64

	// PreferRows reports whether row access is the cheaper target
	// dimension.
	PreferRows() bool
	// PreferRowsProportion is the real-valued analogue of PreferRows for
	// composites.
	PreferRowsProportion() float64

	// UsesOracle reports whether supplying an Oracle for the given access
	// direction (true = row access) lets this matrix do useful
	// prefetching.
	UsesOracle(rowAccess bool) bool

	// Dense constructs a dense extractor for the given axis and
	// selection.
	Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error)

	// Sparse constructs a sparse extractor for the given axis and
	// selection. Strictly dense implementations may satisfy this by
	// densifying: delegating to Dense and reporting every selected
	// position as a structural entry.
	Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error)
}

// Axis selects which dimension is the target (iterated) dimension.
type Axis bool

const (
	// Row targets rows: Fetch(r, ...) returns a row's non-target (column)
	// slice.
	Row Axis = true
	// Column targets columns: Fetch(c, ...) returns a column's
	// non-target (row) slice.
	Column Axis = false
)

// nonTargetExtent returns the length of the dimension a Fetch call on the
// given axis produces a slice of: columns for Row access, rows for Column
// access.
func nonTargetExtent[V Number, I Integer](m Matrix[V, I], axis Axis) int {
	if axis == Row {
		return m.NumCols()
	}

	return m.NumRows()
}

// targetExtent returns the length of the dimension Fetch's target index
// ranges over: rows for Row access, columns for Column access.
func targetExtent[V Number, I Integer](m Matrix[V, I], axis Axis) int {
	if axis == Row {
		return m.NumRows()
	}

	return m.NumCols()
}

// DenseRow is a convenience wrapper over Dense(Row, sel, opts).
func DenseRow[V Number, I Integer](m Matrix[V, I], sel Selection[I], opts Options) (DenseExtractor[V], error) {
	return m.Dense(Row, sel, opts)
}

// DenseColumn is a convenience wrapper over Dense(Column, sel, opts).
func DenseColumn[V Number, I Integer](m Matrix[V, I], sel Selection[I], opts Options) (DenseExtractor[V], error) {
	return m.Dense(Column, sel, opts)
}

// SparseRow is a convenience wrapper over Sparse(Row, sel, opts).
func SparseRow[V Number, I Integer](m Matrix[V, I], sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	return m.Sparse(Row, sel, opts)
}

// SparseColumn is a convenience wrapper over Sparse(Column, sel, opts).
func SparseColumn[V Number, I Integer](m Matrix[V, I], sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	return m.Sparse(Column, sel, opts)
}
