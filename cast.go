package tatami

// Cast wraps an inner matrix, presenting its values as VOut and its
// indices as IOut without materialising a converted copy. When VIn==VOut
// (and, for Sparse, IIn==IOut) the factories detect the identity case at
// construction and hand back the inner extractor itself, so every Fetch
// is a pass-through call with no intermediate buffer; callers who only
// need that case can equally use the inner matrix directly.
type Cast[VIn, VOut Number, IIn, IOut Integer] struct {
	inner Matrix[VIn, IIn]
}

// NewCast constructs a Cast wrapper over inner.
func NewCast[VIn, VOut Number, IIn, IOut Integer](inner Matrix[VIn, IIn]) *Cast[VIn, VOut, IIn, IOut] {
	return &Cast[VIn, VOut, IIn, IOut]{inner: inner}
}

func (c *Cast[VIn, VOut, IIn, IOut]) NumRows() int { return c.inner.NumRows() }
func (c *Cast[VIn, VOut, IIn, IOut]) NumCols() int { return c.inner.NumCols() }

func (c *Cast[VIn, VOut, IIn, IOut]) IsSparse() bool              { return c.inner.IsSparse() }
func (c *Cast[VIn, VOut, IIn, IOut]) IsSparseProportion() float64 { return c.inner.IsSparseProportion() }

func (c *Cast[VIn, VOut, IIn, IOut]) PreferRows() bool              { return c.inner.PreferRows() }
func (c *Cast[VIn, VOut, IIn, IOut]) PreferRowsProportion() float64 { return c.inner.PreferRowsProportion() }

func (c *Cast[VIn, VOut, IIn, IOut]) UsesOracle(rowAccess bool) bool { return c.inner.UsesOracle(rowAccess) }

func castSelection[IIn, IOut Integer](sel Selection[IOut]) Selection[IIn] {
	out := Selection[IIn]{Kind: sel.Kind, Start: sel.Start, Length: sel.Length}
	if sel.Kind == SelectionIndex {
		out.Indices = make([]IIn, len(sel.Indices))
		for j, idx := range sel.Indices {
			out.Indices[j] = IIn(idx)
		}
	}

	return out
}

// Dense implements Matrix.
func (c *Cast[VIn, VOut, IIn, IOut]) Dense(axis Axis, sel Selection[IOut], opts Options) (DenseExtractor[VOut], error) {
	inner, err := c.inner.Dense(axis, castSelection[IIn, IOut](sel), opts)
	if err != nil {
		return nil, tatamiErrorf("Cast.Dense", err)
	}
	if same, ok := any(inner).(DenseExtractor[VOut]); ok {
		return same, nil
	}

	return &castDenseExtractor[VIn, VOut]{inner: inner, buf: make([]VIn, inner.ExtractedLength())}, nil
}

// Sparse implements Matrix.
func (c *Cast[VIn, VOut, IIn, IOut]) Sparse(axis Axis, sel Selection[IOut], opts Options) (SparseExtractor[VOut, IOut], error) {
	inner, err := c.inner.Sparse(axis, castSelection[IIn, IOut](sel), opts)
	if err != nil {
		return nil, tatamiErrorf("Cast.Sparse", err)
	}
	if same, ok := any(inner).(SparseExtractor[VOut, IOut]); ok {
		return same, nil
	}

	length := inner.ExtractedLength()

	return &castSparseExtractor[VIn, VOut, IIn, IOut]{
		inner: inner,
		vbuf:  make([]VIn, length),
		ibuf:  make([]IIn, length),
	}, nil
}

type castDenseExtractor[VIn, VOut Number] struct {
	inner DenseExtractor[VIn]
	buf   []VIn
}

func (e *castDenseExtractor[VIn, VOut]) ExtractedLength() int { return e.inner.ExtractedLength() }
func (e *castDenseExtractor[VIn, VOut]) SetOracle(o Oracle)    { e.inner.SetOracle(o) }

func (e *castDenseExtractor[VIn, VOut]) Fetch(target int, buffer []VOut) ([]VOut, error) {
	raw, err := e.inner.FetchCopy(target, e.buf)
	if err != nil {
		return nil, err
	}
	out := buffer[:len(raw)]
	for j, v := range raw {
		out[j] = VOut(v)
	}

	return out, nil
}

func (e *castDenseExtractor[VIn, VOut]) FetchCopy(target int, buffer []VOut) ([]VOut, error) {
	return e.Fetch(target, buffer)
}

// castSparseExtractor handles the three value/index combinations in which
// at least one type differs (Sparse returns the inner extractor itself
// when both match): the value and index conversions are independent
// loops, each a plain copy when VIn==VOut or IIn==IOut respectively (the
// compiler cannot special-case the identity conversion away, but the work
// is O(n) regardless, matching the inner extractor's own cost).
type castSparseExtractor[VIn, VOut Number, IIn, IOut Integer] struct {
	inner SparseExtractor[VIn, IIn]
	vbuf  []VIn
	ibuf  []IIn
}

func (e *castSparseExtractor[VIn, VOut, IIn, IOut]) ExtractedLength() int {
	return e.inner.ExtractedLength()
}

func (e *castSparseExtractor[VIn, VOut, IIn, IOut]) SetOracle(o Oracle) { e.inner.SetOracle(o) }

func (e *castSparseExtractor[VIn, VOut, IIn, IOut]) Fetch(target int, vbuffer []VOut, ibuffer []IOut) (SparseRange[VOut, IOut], error) {
	raw, err := FetchCopy[VIn, IIn](e.inner, target, e.vbuf, e.ibuf)
	if err != nil {
		return SparseRange[VOut, IOut]{}, err
	}

	out := SparseRange[VOut, IOut]{N: raw.N}
	if raw.Values != nil {
		vs := vbuffer[:raw.N]
		for j, v := range raw.Values {
			vs[j] = VOut(v)
		}
		out.Values = vs
	}
	if raw.Indices != nil {
		is := ibuffer[:raw.N]
		for j, idx := range raw.Indices {
			is[j] = IOut(idx)
		}
		out.Indices = is
	}

	return out, nil
}
