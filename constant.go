package tatami

// ConstantMatrix is a read-only matrix that returns the same value at
// every position. Useful as a minimal fixture for exercising wrappers and
// consumers without constructing real storage.
type ConstantMatrix[V Number, I Integer] struct {
	rows, cols int
	value      V
}

// NewConstantMatrix builds a rows x cols matrix whose every element is
// value.
func NewConstantMatrix[V Number, I Integer](rows, cols int, value V) (*ConstantMatrix[V, I], error) {
	if rows < 0 || cols < 0 {
		return nil, tatamiErrorf("NewConstantMatrix", ErrInvalidShape)
	}

	return &ConstantMatrix[V, I]{rows: rows, cols: cols, value: value}, nil
}

func (m *ConstantMatrix[V, I]) NumRows() int { return m.rows }
func (m *ConstantMatrix[V, I]) NumCols() int { return m.cols }

// IsSparse reports false unless the constant is the zero value: a
// uniformly zero matrix is, trivially, entirely sparse.
func (m *ConstantMatrix[V, I]) IsSparse() bool { return m.value == 0 }

func (m *ConstantMatrix[V, I]) IsSparseProportion() float64 {
	if m.value == 0 {
		return 1
	}

	return 0
}

func (m *ConstantMatrix[V, I]) PreferRows() bool              { return true }
func (m *ConstantMatrix[V, I]) PreferRowsProportion() float64 { return 1 }
func (m *ConstantMatrix[V, I]) UsesOracle(rowAccess bool) bool { return false }

// Dense implements Matrix.
func (m *ConstantMatrix[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("ConstantMatrix.Dense", err)
	}
	target := targetExtent[V, I](m, axis)

	return &constantDenseExtractor[V, I]{value: m.value, length: sel.ExtractedLength(nonTarget), target: target}, nil
}

// Sparse implements Matrix. A non-zero constant has no structural zeros to
// skip, so it is densified (every selected position is an entry); a zero
// constant has nothing but, so every Fetch reports no entries.
func (m *ConstantMatrix[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	dense, err := m.Dense(axis, sel, opts)
	if err != nil {
		return nil, err
	}
	if m.value == 0 {
		return &constantZeroSparseExtractor[V, I]{length: dense.ExtractedLength(), target: targetExtent[V, I](m, axis), opts: opts}, nil
	}

	return newDensifiedSparseExtractor[V, I](dense, sel, opts), nil
}

type constantDenseExtractor[V Number, I Integer] struct {
	value  V
	length int
	target int
	oracle Oracle
}

func (e *constantDenseExtractor[V, I]) ExtractedLength() int { return e.length }
func (e *constantDenseExtractor[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *constantDenseExtractor[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= e.target {
		return nil, tatamiErrorf("ConstantMatrix.Fetch", ErrOutOfRange)
	}
	out := buffer[:e.length]
	for j := range out {
		out[j] = e.value
	}

	return out, nil
}

func (e *constantDenseExtractor[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

// constantZeroSparseExtractor reports no structural entries: every
// position genuinely is zero.
type constantZeroSparseExtractor[V Number, I Integer] struct {
	length int
	target int
	opts   Options
	oracle Oracle
}

func (e *constantZeroSparseExtractor[V, I]) ExtractedLength() int { return e.length }
func (e *constantZeroSparseExtractor[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *constantZeroSparseExtractor[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	if target < 0 || target >= e.target {
		return SparseRange[V, I]{}, tatamiErrorf("ConstantMatrix.Fetch", ErrOutOfRange)
	}
	out := SparseRange[V, I]{}
	if e.opts.SparseExtractValue {
		out.Values = vbuffer[:0]
	}
	if e.opts.SparseExtractIndex {
		out.Indices = ibuffer[:0]
	}

	return out, nil
}
