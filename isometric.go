package tatami

// UnaryOperation is a pure elementwise function plus the flags that
// characterise its sparsity and position-dependence. The result at
// position (row, col) is always Apply(row, col, original); Apply must not
// depend on call order.
type UnaryOperation[V Number] struct {
	Apply func(row, col int, value V) V

	// IsSparse holds iff Apply(r, c, 0) == 0 for every r, c: zero
	// positions of a sparse inner matrix stay structurally zero.
	IsSparse bool

	// ZeroDependsOnRow/ZeroDependsOnColumn: when !IsSparse, whether the
	// substituted value for a structural zero depends on that zero's row
	// or column. Informational for callers choosing a densification
	// strategy; this wrapper always densifies fully when !IsSparse.
	ZeroDependsOnRow    bool
	ZeroDependsOnColumn bool

	// NonZeroDependsOnRow/NonZeroDependsOnColumn: whether Apply's result
	// for a non-zero operand depends on that operand's row or column.
	// Forces the sparse-preserving path to request positions from the
	// inner extractor even when the caller didn't ask for them.
	NonZeroDependsOnRow    bool
	NonZeroDependsOnColumn bool
}

func (op UnaryOperation[V]) positionDependent() bool {
	return op.NonZeroDependsOnRow || op.NonZeroDependsOnColumn
}

// DelayedUnaryIsometricOp applies a pure function to every element of an
// inner matrix without materialising the result.
type DelayedUnaryIsometricOp[V Number, I Integer] struct {
	inner Matrix[V, I]
	op    UnaryOperation[V]
}

// NewDelayedUnaryIsometricOp constructs a wrapper applying op over inner.
func NewDelayedUnaryIsometricOp[V Number, I Integer](inner Matrix[V, I], op UnaryOperation[V]) *DelayedUnaryIsometricOp[V, I] {
	return &DelayedUnaryIsometricOp[V, I]{inner: inner, op: op}
}

func (d *DelayedUnaryIsometricOp[V, I]) NumRows() int { return d.inner.NumRows() }
func (d *DelayedUnaryIsometricOp[V, I]) NumCols() int { return d.inner.NumCols() }

// IsSparse reports whether the output is still genuinely sparse: the
// operation must preserve sparsity (f(0)==0) AND the inner matrix must
// actually be sparse to begin with.
func (d *DelayedUnaryIsometricOp[V, I]) IsSparse() bool {
	return d.op.IsSparse && d.inner.IsSparse()
}

func (d *DelayedUnaryIsometricOp[V, I]) IsSparseProportion() float64 {
	if !d.op.IsSparse {
		return 0
	}

	return d.inner.IsSparseProportion()
}

func (d *DelayedUnaryIsometricOp[V, I]) PreferRows() bool { return d.inner.PreferRows() }
func (d *DelayedUnaryIsometricOp[V, I]) PreferRowsProportion() float64 {
	return d.inner.PreferRowsProportion()
}

func (d *DelayedUnaryIsometricOp[V, I]) UsesOracle(rowAccess bool) bool {
	return d.inner.UsesOracle(rowAccess)
}

// nonTargetIndexAt maps a position within an extracted slice back to its
// non-target-dimension index, for the three selection kinds.
func nonTargetIndexAt[I Integer](sel Selection[I], j int) int {
	switch sel.Kind {
	case SelectionBlock:
		return sel.Start + j
	case SelectionIndex:
		return int(sel.Indices[j])
	default:
		return j
	}
}

func rowColFor(axis Axis, target, nonTarget int) (row, col int) {
	if axis == Row {
		return target, nonTarget
	}

	return nonTarget, target
}

// Dense implements Matrix.
func (d *DelayedUnaryIsometricOp[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	inner, err := d.inner.Dense(axis, sel, opts)
	if err != nil {
		return nil, tatamiErrorf("DelayedUnaryIsometricOp.Dense", err)
	}

	return &isometricDenseExtractor[V, I]{
		inner: inner,
		axis:  axis,
		sel:   sel,
		op:    d.op,
		buf:   make([]V, inner.ExtractedLength()),
	}, nil
}

type isometricDenseExtractor[V Number, I Integer] struct {
	inner DenseExtractor[V]
	axis  Axis
	sel   Selection[I]
	op    UnaryOperation[V]
	buf   []V
}

func (e *isometricDenseExtractor[V, I]) ExtractedLength() int { return e.inner.ExtractedLength() }
func (e *isometricDenseExtractor[V, I]) SetOracle(o Oracle)    { e.inner.SetOracle(o) }

func (e *isometricDenseExtractor[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	raw, err := e.inner.FetchCopy(target, e.buf)
	if err != nil {
		return nil, err
	}
	out := buffer[:len(raw)]
	for j, v := range raw {
		nonTarget := nonTargetIndexAt(e.sel, j)
		row, col := rowColFor(e.axis, target, nonTarget)
		out[j] = e.op.Apply(row, col, v)
	}

	return out, nil
}

func (e *isometricDenseExtractor[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

// Sparse implements Matrix, selecting between the sparse-preserving and
// densifying specialisations at construction time based on d.op and the
// inner matrix's own sparsity.
func (d *DelayedUnaryIsometricOp[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	if !d.op.IsSparse || !d.inner.IsSparse() {
		dense, err := d.inner.Dense(axis, sel, opts)
		if err != nil {
			return nil, tatamiErrorf("DelayedUnaryIsometricOp.Sparse", err)
		}

		return &isometricDensifyingExtractor[V, I]{
			inner: dense,
			axis:  axis,
			sel:   sel,
			op:    d.op,
			opts:  opts,
			buf:   make([]V, dense.ExtractedLength()),
		}, nil
	}

	innerOpts := opts
	innerOpts.SparseExtractValue = true
	if d.op.positionDependent() {
		innerOpts.SparseExtractIndex = true
	}

	inner, err := d.inner.Sparse(axis, sel, innerOpts)
	if err != nil {
		return nil, tatamiErrorf("DelayedUnaryIsometricOp.Sparse", err)
	}
	length := inner.ExtractedLength()

	return &isometricSparsePreservingExtractor[V, I]{
		inner: inner,
		axis:  axis,
		op:    d.op,
		opts:  opts,
		vbuf:  make([]V, length),
		ibuf:  make([]I, length),
	}, nil
}

// isometricSparsePreservingExtractor implements both the position-
// independent and position-dependent sparse-preserving specialisations:
// which one applies was decided at construction by whether the inner
// extractor was asked for indices, and the Fetch logic below is identical
// either way (it branches only on whether row/col are actually needed).
type isometricSparsePreservingExtractor[V Number, I Integer] struct {
	inner SparseExtractor[V, I]
	axis  Axis
	op    UnaryOperation[V]
	opts  Options
	vbuf  []V
	ibuf  []I
}

func (e *isometricSparsePreservingExtractor[V, I]) ExtractedLength() int {
	return e.inner.ExtractedLength()
}

func (e *isometricSparsePreservingExtractor[V, I]) SetOracle(o Oracle) { e.inner.SetOracle(o) }

func (e *isometricSparsePreservingExtractor[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	raw, err := e.inner.Fetch(target, e.vbuf, e.ibuf)
	if err != nil {
		return SparseRange[V, I]{}, err
	}

	out := SparseRange[V, I]{N: raw.N}
	if e.opts.SparseExtractValue {
		vs := vbuffer[:raw.N]
		for k, v := range raw.Values {
			row, col := target, 0
			if e.op.positionDependent() {
				row, col = rowColFor(e.axis, target, int(raw.Indices[k]))
			}
			vs[k] = e.op.Apply(row, col, v)
		}
		out.Values = vs
	}
	if e.opts.SparseExtractIndex {
		is := ibuffer[:raw.N]
		copy(is, raw.Indices[:raw.N])
		out.Indices = is
	}

	return out, nil
}

// isometricDensifyingExtractor implements the densifying specialisation:
// the inner dense extractor is run in full, and the sparse result reports
// every position in the selection as a structural entry.
type isometricDensifyingExtractor[V Number, I Integer] struct {
	inner DenseExtractor[V]
	axis  Axis
	sel   Selection[I]
	op    UnaryOperation[V]
	opts  Options
	buf   []V
}

func (e *isometricDensifyingExtractor[V, I]) ExtractedLength() int { return e.inner.ExtractedLength() }
func (e *isometricDensifyingExtractor[V, I]) SetOracle(o Oracle)    { e.inner.SetOracle(o) }

func (e *isometricDensifyingExtractor[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	raw, err := e.inner.FetchCopy(target, e.buf)
	if err != nil {
		return SparseRange[V, I]{}, err
	}

	out := SparseRange[V, I]{N: len(raw)}
	if e.opts.SparseExtractValue {
		vs := vbuffer[:len(raw)]
		for j, v := range raw {
			nonTarget := nonTargetIndexAt(e.sel, j)
			row, col := rowColFor(e.axis, target, nonTarget)
			vs[j] = e.op.Apply(row, col, v)
		}
		out.Values = vs
	}
	if e.opts.SparseExtractIndex {
		is := ibuffer[:len(raw)]
		for j := range raw {
			is[j] = I(nonTargetIndexAt(e.sel, j))
		}
		out.Indices = is
	}

	return out, nil
}
