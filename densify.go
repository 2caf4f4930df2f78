package tatami

// densifiedSparseExtractor adapts a DenseExtractor into a SparseExtractor
// by reporting every position in the selection as a structural entry.
// Used by DenseMatrix.Sparse and by ConstantMatrix.Sparse for a non-zero
// constant.
type densifiedSparseExtractor[V Number, I Integer] struct {
	dense       DenseExtractor[V]
	sel         Selection[I]
	length      int
	wantValue   bool
	wantIndex   bool
	indexBuffer []I // precomputed for Full/Block; nil for Index (uses sel.Indices directly)
}

func newDensifiedSparseExtractor[V Number, I Integer](dense DenseExtractor[V], sel Selection[I], opts Options) *densifiedSparseExtractor[V, I] {
	e := &densifiedSparseExtractor[V, I]{
		dense:     dense,
		sel:       sel,
		length:    dense.ExtractedLength(),
		wantValue: opts.SparseExtractValue,
		wantIndex: opts.SparseExtractIndex,
	}
	if e.wantIndex && sel.Kind != SelectionIndex {
		e.indexBuffer = make([]I, e.length)
		start := 0
		if sel.Kind == SelectionBlock {
			start = sel.Start
		}
		for j := 0; j < e.length; j++ {
			e.indexBuffer[j] = I(start + j)
		}
	}

	return e
}

func (e *densifiedSparseExtractor[V, I]) ExtractedLength() int { return e.length }

func (e *densifiedSparseExtractor[V, I]) SetOracle(o Oracle) { e.dense.SetOracle(o) }

func (e *densifiedSparseExtractor[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	out := SparseRange[V, I]{N: e.length}

	if e.wantValue {
		raw, err := e.dense.FetchCopy(target, vbuffer)
		if err != nil {
			return SparseRange[V, I]{}, err
		}
		out.Values = raw
	} else {
		// Still must validate the target index even if values are skipped.
		if _, err := e.dense.Fetch(target, vbuffer); err != nil {
			return SparseRange[V, I]{}, err
		}
	}

	if e.wantIndex {
		if e.sel.Kind == SelectionIndex {
			out.Indices = e.sel.Indices
		} else {
			out.Indices = e.indexBuffer
		}
	}

	return out, nil
}
