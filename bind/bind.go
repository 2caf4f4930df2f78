// Package bind composes several matrices sharing one dimension's extent
// into a single delayed Matrix, stacked along the other dimension.
package bind

import (
	"fmt"
	"sort"

	"github.com/tatami-go/tatami"
)

// RowBound is the delayed row-concatenation of several matrices that all
// share the same column count. Row target t is dispatched to whichever
// child owns it via a precomputed prefix-sum offset table, the same
// lookup-by-range approach a vertex-index map uses to find which
// partition a global vertex id belongs to.
type RowBound[V tatami.Number, I tatami.Integer] struct {
	children []tatami.Matrix[V, I]
	offsets  []int // offsets[i] is the first global row owned by children[i]; offsets[len(children)] is the total
	cols     int
}

// NewRowBind validates that every child has the same column count and
// builds the composite.
func NewRowBind[V tatami.Number, I tatami.Integer](children ...tatami.Matrix[V, I]) (*RowBound[V, I], error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("bind: NewRowBind: %w", tatami.ErrInvalidShape)
	}
	cols := children[0].NumCols()
	offsets := make([]int, len(children)+1)
	for i, c := range children {
		if c.NumCols() != cols {
			return nil, fmt.Errorf("bind: NewRowBind: child %d: %w", i, tatami.ErrShapeMismatch)
		}
		offsets[i+1] = offsets[i] + c.NumRows()
	}

	return &RowBound[V, I]{children: children, offsets: offsets, cols: cols}, nil
}

// ColBound is the column-concatenation analogue of RowBound, built by
// binding the transposed children and transposing the result back: a
// column bind is a row bind of transposes.
type ColBound[V tatami.Number, I tatami.Integer] struct {
	*tatami.Transpose[V, I]
}

// NewColBind validates that every child has the same row count and builds
// the composite.
func NewColBind[V tatami.Number, I tatami.Integer](children ...tatami.Matrix[V, I]) (*ColBound[V, I], error) {
	transposed := make([]tatami.Matrix[V, I], len(children))
	for i, c := range children {
		transposed[i] = tatami.NewTranspose[V, I](c)
	}
	rb, err := NewRowBind(transposed...)
	if err != nil {
		return nil, fmt.Errorf("bind: NewColBind: %w", err)
	}

	return &ColBound[V, I]{Transpose: tatami.NewTranspose[V, I](rb)}, nil
}

func (b *RowBound[V, I]) NumRows() int { return b.offsets[len(b.offsets)-1] }
func (b *RowBound[V, I]) NumCols() int { return b.cols }

// ownerOf returns the index of the child owning global row r, and r's
// offset within that child.
func (b *RowBound[V, I]) ownerOf(r int) (child, local int) {
	child = sort.Search(len(b.children), func(i int) bool { return b.offsets[i+1] > r })

	return child, r - b.offsets[child]
}

func (b *RowBound[V, I]) IsSparse() bool { return b.IsSparseProportion() >= 0.5 }

func (b *RowBound[V, I]) IsSparseProportion() float64 {
	return b.weightedAverage(func(m tatami.Matrix[V, I]) float64 { return m.IsSparseProportion() })
}

func (b *RowBound[V, I]) PreferRows() bool { return b.PreferRowsProportion() >= 0.5 }

func (b *RowBound[V, I]) PreferRowsProportion() float64 {
	return b.weightedAverage(func(m tatami.Matrix[V, I]) float64 { return m.PreferRowsProportion() })
}

func (b *RowBound[V, I]) weightedAverage(metric func(tatami.Matrix[V, I]) float64) float64 {
	total := b.NumRows()
	if total == 0 {
		return 0
	}
	var acc float64
	for i, c := range b.children {
		weight := float64(b.offsets[i+1] - b.offsets[i])
		acc += weight * metric(c)
	}

	return acc / float64(total)
}

func (b *RowBound[V, I]) UsesOracle(rowAccess bool) bool {
	for _, c := range b.children {
		if c.UsesOracle(rowAccess) {
			return true
		}
	}

	return false
}

// Dense implements tatami.Matrix.
func (b *RowBound[V, I]) Dense(axis tatami.Axis, sel tatami.Selection[I], opts tatami.Options) (tatami.DenseExtractor[V], error) {
	if axis == tatami.Row {
		if err := validateNonTarget[I](sel, b.cols); err != nil {
			return nil, err
		}

		return &rowBoundRowDense[V, I]{b: b, sel: sel, opts: opts, extractors: make(map[int]tatami.DenseExtractor[V])}, nil
	}

	parts, length, err := b.splitColumnSelection(sel)
	if err != nil {
		return nil, err
	}
	denseParts := make([]denseColumnPart[V], len(parts))
	for i, p := range parts {
		e, err := b.children[p.child].Dense(tatami.Column, p.sel, opts)
		if err != nil {
			return nil, err
		}
		denseParts[i] = denseColumnPart[V]{extractor: e, outOffset: p.outOffset, length: e.ExtractedLength()}
	}

	return &rowBoundColumnDense[V, I]{parts: denseParts, length: length}, nil
}

// Sparse implements tatami.Matrix.
func (b *RowBound[V, I]) Sparse(axis tatami.Axis, sel tatami.Selection[I], opts tatami.Options) (tatami.SparseExtractor[V, I], error) {
	if axis == tatami.Row {
		if err := validateNonTarget[I](sel, b.cols); err != nil {
			return nil, err
		}

		return &rowBoundRowSparse[V, I]{b: b, sel: sel, opts: opts, extractors: make(map[int]tatami.SparseExtractor[V, I])}, nil
	}

	parts, length, err := b.splitColumnSelection(sel)
	if err != nil {
		return nil, err
	}
	sparseParts := make([]sparseColumnPart[V, I], len(parts))
	for i, p := range parts {
		e, err := b.children[p.child].Sparse(tatami.Column, p.sel, opts)
		if err != nil {
			return nil, err
		}
		l := e.ExtractedLength()
		sparseParts[i] = sparseColumnPart[V, I]{extractor: e, outOffset: b.offsets[p.child], vbuf: make([]V, l), ibuf: make([]I, l)}
	}

	return &rowBoundColumnSparse[V, I]{parts: sparseParts, length: length, opts: opts}, nil
}

type columnSplitPart[I tatami.Integer] struct {
	child     int
	sel       tatami.Selection[I]
	outOffset int
}

// splitColumnSelection translates a Selection expressed over the bound
// (row) dimension into one Selection per owning child, preserving global
// row order in the output so a Column-direction extractor can simply
// concatenate each child's contribution.
func (b *RowBound[V, I]) splitColumnSelection(sel tatami.Selection[I]) ([]columnSplitPart[I], int, error) {
	if err := validateNonTarget[I](sel, b.NumRows()); err != nil {
		return nil, 0, err
	}

	switch sel.Kind {
	case tatami.SelectionFull:
		parts := make([]columnSplitPart[I], len(b.children))
		for i := range b.children {
			parts[i] = columnSplitPart[I]{child: i, sel: tatami.FullSelection[I](), outOffset: b.offsets[i]}
		}

		return parts, b.NumRows(), nil

	case tatami.SelectionBlock:
		start, end := sel.Start, sel.Start+sel.Length
		var parts []columnSplitPart[I]
		out := 0
		for i := range b.children {
			lo, hi := b.offsets[i], b.offsets[i+1]
			segStart, segEnd := max(start, lo), min(end, hi)
			if segStart >= segEnd {
				continue
			}
			parts = append(parts, columnSplitPart[I]{
				child:     i,
				sel:       tatami.BlockSelection[I](segStart-lo, segEnd-segStart),
				outOffset: out,
			})
			out += segEnd - segStart
		}

		return parts, sel.Length, nil

	default: // SelectionIndex
		var parts []columnSplitPart[I]
		out := 0
		k := 0
		for i := range b.children {
			lo, hi := b.offsets[i], b.offsets[i+1]
			start := k
			for k < len(sel.Indices) && int(sel.Indices[k]) < hi {
				k++
			}
			if k == start {
				continue
			}
			local := make([]I, k-start)
			for j, idx := range sel.Indices[start:k] {
				local[j] = I(int(idx) - lo)
			}
			parts = append(parts, columnSplitPart[I]{child: i, sel: tatami.IndexSelection[I](local), outOffset: out})
			out += len(local)
		}

		return parts, len(sel.Indices), nil
	}
}

// validateNonTarget re-derives Selection's (unexported) bounds check from
// the outside, since a consumer package cannot call tatami's own
// unexported validate method.
func validateNonTarget[I tatami.Integer](sel tatami.Selection[I], nonTargetExtent int) error {
	switch sel.Kind {
	case tatami.SelectionBlock:
		if sel.Start < 0 || sel.Length < 0 || sel.Start+sel.Length > nonTargetExtent {
			return tatami.ErrOutOfRange
		}
	case tatami.SelectionIndex:
		for _, idx := range sel.Indices {
			if int(idx) < 0 || int(idx) >= nonTargetExtent {
				return tatami.ErrOutOfRange
			}
		}
	}

	return nil
}

// rowBoundRowDense lazily constructs one child extractor per owning
// child the first time one of its rows is requested, and caches it for
// reuse across repeat Fetch calls on the same child.
type rowBoundRowDense[V tatami.Number, I tatami.Integer] struct {
	b          *RowBound[V, I]
	sel        tatami.Selection[I]
	opts       tatami.Options
	extractors map[int]tatami.DenseExtractor[V]
	oracle     tatami.Oracle
}

func (e *rowBoundRowDense[V, I]) ExtractedLength() int { return e.sel.ExtractedLength(e.b.cols) }

// SetOracle forwards to every already-constructed child extractor and is
// replayed against any child constructed lazily afterward.
func (e *rowBoundRowDense[V, I]) SetOracle(o tatami.Oracle) {
	e.oracle = o
	for _, inner := range e.extractors {
		inner.SetOracle(o)
	}
}

func (e *rowBoundRowDense[V, I]) childExtractor(target int) (tatami.DenseExtractor[V], int, error) {
	if target < 0 || target >= e.b.NumRows() {
		return nil, 0, fmt.Errorf("bind: RowBound.Fetch: %w", tatami.ErrOutOfRange)
	}
	child, local := e.b.ownerOf(target)
	inner, ok := e.extractors[child]
	if !ok {
		var err error
		inner, err = e.b.children[child].Dense(tatami.Row, e.sel, e.opts)
		if err != nil {
			return nil, 0, err
		}
		if e.oracle != nil {
			inner.SetOracle(e.oracle)
		}
		e.extractors[child] = inner
	}

	return inner, local, nil
}

func (e *rowBoundRowDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	inner, local, err := e.childExtractor(target)
	if err != nil {
		return nil, err
	}

	return inner.Fetch(local, buffer)
}

func (e *rowBoundRowDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	inner, local, err := e.childExtractor(target)
	if err != nil {
		return nil, err
	}

	return inner.FetchCopy(local, buffer)
}

type rowBoundRowSparse[V tatami.Number, I tatami.Integer] struct {
	b          *RowBound[V, I]
	sel        tatami.Selection[I]
	opts       tatami.Options
	extractors map[int]tatami.SparseExtractor[V, I]
	oracle     tatami.Oracle
}

func (e *rowBoundRowSparse[V, I]) ExtractedLength() int { return e.sel.ExtractedLength(e.b.cols) }

// SetOracle forwards to every already-constructed child extractor and is
// replayed against any child constructed lazily afterward.
func (e *rowBoundRowSparse[V, I]) SetOracle(o tatami.Oracle) {
	e.oracle = o
	for _, inner := range e.extractors {
		inner.SetOracle(o)
	}
}

func (e *rowBoundRowSparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (tatami.SparseRange[V, I], error) {
	if target < 0 || target >= e.b.NumRows() {
		return tatami.SparseRange[V, I]{}, fmt.Errorf("bind: RowBound.Fetch: %w", tatami.ErrOutOfRange)
	}
	child, local := e.b.ownerOf(target)
	inner, ok := e.extractors[child]
	if !ok {
		var err error
		inner, err = e.b.children[child].Sparse(tatami.Row, e.sel, e.opts)
		if err != nil {
			return tatami.SparseRange[V, I]{}, err
		}
		if e.oracle != nil {
			inner.SetOracle(e.oracle)
		}
		e.extractors[child] = inner
	}

	return inner.Fetch(local, vbuffer, ibuffer)
}

type denseColumnPart[V tatami.Number] struct {
	extractor tatami.DenseExtractor[V]
	outOffset int
	length    int
}

type rowBoundColumnDense[V tatami.Number, I tatami.Integer] struct {
	parts  []denseColumnPart[V]
	length int
	oracle tatami.Oracle
}

func (e *rowBoundColumnDense[V, I]) ExtractedLength() int { return e.length }
func (e *rowBoundColumnDense[V, I]) SetOracle(o tatami.Oracle) {
	e.oracle = o
	for _, p := range e.parts {
		p.extractor.SetOracle(o)
	}
}

func (e *rowBoundColumnDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	out := buffer[:e.length]
	for _, p := range e.parts {
		if p.length == 0 {
			continue
		}
		// FetchCopy always writes through the supplied slice, so out
		// already holds the right values once this returns.
		if _, err := p.extractor.FetchCopy(target, out[p.outOffset:p.outOffset+p.length]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (e *rowBoundColumnDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

type sparseColumnPart[V tatami.Number, I tatami.Integer] struct {
	extractor tatami.SparseExtractor[V, I]
	outOffset int // global row of the child's first row, added to its local indices
	vbuf      []V
	ibuf      []I
}

type rowBoundColumnSparse[V tatami.Number, I tatami.Integer] struct {
	parts  []sparseColumnPart[V, I]
	length int
	opts   tatami.Options
	oracle tatami.Oracle
}

func (e *rowBoundColumnSparse[V, I]) ExtractedLength() int { return e.length }
func (e *rowBoundColumnSparse[V, I]) SetOracle(o tatami.Oracle) {
	e.oracle = o
	for _, p := range e.parts {
		p.extractor.SetOracle(o)
	}
}

func (e *rowBoundColumnSparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (tatami.SparseRange[V, I], error) {
	n := 0
	for _, p := range e.parts {
		raw, err := p.extractor.Fetch(target, p.vbuf, p.ibuf)
		if err != nil {
			return tatami.SparseRange[V, I]{}, err
		}
		for k := 0; k < raw.N; k++ {
			if e.opts.SparseExtractValue {
				vbuffer[n] = raw.Values[k]
			}
			if e.opts.SparseExtractIndex {
				ibuffer[n] = I(p.outOffset + int(raw.Indices[k]))
			}
			n++
		}
	}

	out := tatami.SparseRange[V, I]{N: n}
	if e.opts.SparseExtractValue {
		out.Values = vbuffer[:n]
	}
	if e.opts.SparseExtractIndex {
		out.Indices = ibuffer[:n]
	}

	return out, nil
}
