package tatami

// Transpose presents an inner matrix with rows and columns swapped,
// without copying. Row access on the wrapper becomes column access on
// the inner matrix and vice versa.
type Transpose[V Number, I Integer] struct {
	inner Matrix[V, I]
}

// NewTranspose constructs a Transpose wrapper over inner.
func NewTranspose[V Number, I Integer](inner Matrix[V, I]) *Transpose[V, I] {
	return &Transpose[V, I]{inner: inner}
}

func (t *Transpose[V, I]) NumRows() int { return t.inner.NumCols() }
func (t *Transpose[V, I]) NumCols() int { return t.inner.NumRows() }

func (t *Transpose[V, I]) IsSparse() bool              { return t.inner.IsSparse() }
func (t *Transpose[V, I]) IsSparseProportion() float64 { return t.inner.IsSparseProportion() }

func (t *Transpose[V, I]) PreferRows() bool { return !t.inner.PreferRows() }

func (t *Transpose[V, I]) PreferRowsProportion() float64 {
	return 1 - t.inner.PreferRowsProportion()
}

func (t *Transpose[V, I]) UsesOracle(rowAccess bool) bool {
	return t.inner.UsesOracle(!rowAccess)
}

func flipAxis(axis Axis) Axis {
	if axis == Row {
		return Column
	}

	return Row
}

// Dense implements Matrix by forwarding to the inner matrix's opposite
// axis and returning its extractor verbatim.
func (t *Transpose[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	e, err := t.inner.Dense(flipAxis(axis), sel, opts)
	if err != nil {
		return nil, tatamiErrorf("Transpose.Dense", err)
	}

	return e, nil
}

// Sparse implements Matrix by forwarding to the inner matrix's opposite
// axis and returning its extractor verbatim.
func (t *Transpose[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	e, err := t.inner.Sparse(flipAxis(axis), sel, opts)
	if err != nil {
		return nil, tatamiErrorf("Transpose.Sparse", err)
	}

	return e, nil
}
