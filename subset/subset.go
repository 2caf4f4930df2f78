// Package subset generalises tatami's strictly-increasing Index selection
// to an arbitrary index list along one dimension: entries may repeat or
// appear out of order, the way a user picks rows for a report rather than
// how a backend stores them.
package subset

import (
	"fmt"

	"github.com/tatami-go/tatami"
)

// Matrix is a local alias avoiding a long generic spelling at every call
// site below.
type Matrix[V tatami.Number, I tatami.Integer] = tatami.Matrix[V, I]

// DelayedSubset presents inner with one dimension (Axis) permuted and/or
// repeated according to indices. The other dimension is untouched.
type DelayedSubset[V tatami.Number, I tatami.Integer] struct {
	inner   Matrix[V, I]
	axis    tatami.Axis
	indices []I
}

// NewDelayedSubset validates that every entry of indices lies within
// inner's extent along axis. Unlike tatami.IndexSelection, indices need
// not be increasing or unique.
func NewDelayedSubset[V tatami.Number, I tatami.Integer](inner Matrix[V, I], axis tatami.Axis, indices []I) (*DelayedSubset[V, I], error) {
	extent := inner.NumCols()
	if axis == tatami.Row {
		extent = inner.NumRows()
	}
	for _, idx := range indices {
		if int(idx) < 0 || int(idx) >= extent {
			return nil, fmt.Errorf("subset: NewDelayedSubset: %w", tatami.ErrOutOfRange)
		}
	}

	return &DelayedSubset[V, I]{inner: inner, axis: axis, indices: indices}, nil
}

func (d *DelayedSubset[V, I]) NumRows() int {
	if d.axis == tatami.Row {
		return len(d.indices)
	}

	return d.inner.NumRows()
}

func (d *DelayedSubset[V, I]) NumCols() int {
	if d.axis == tatami.Column {
		return len(d.indices)
	}

	return d.inner.NumCols()
}

func (d *DelayedSubset[V, I]) IsSparse() bool              { return d.inner.IsSparse() }
func (d *DelayedSubset[V, I]) IsSparseProportion() float64 { return d.inner.IsSparseProportion() }
func (d *DelayedSubset[V, I]) PreferRows() bool            { return d.inner.PreferRows() }
func (d *DelayedSubset[V, I]) PreferRowsProportion() float64 {
	return d.inner.PreferRowsProportion()
}

func (d *DelayedSubset[V, I]) UsesOracle(rowAccess bool) bool {
	return rowAccess == (d.axis == tatami.Row) && d.inner.UsesOracle(rowAccess)
}

// translatingOracle rewrites a wrapper-space prediction sequence into
// inner-space target indices via the stored permutation, so a caller that
// primes an oracle for repeated subset access still lets the inner
// extractor prefetch usefully.
type translatingOracle[I tatami.Integer] struct {
	wrapped tatami.Oracle
	indices []I
}

func (o *translatingOracle[I]) Predict(n int) []int {
	raw := o.wrapped.Predict(n)
	out := make([]int, len(raw))
	for i, t := range raw {
		out[i] = int(o.indices[t])
	}

	return out
}

// Dense implements tatami.Matrix.
func (d *DelayedSubset[V, I]) Dense(axis tatami.Axis, sel tatami.Selection[I], opts tatami.Options) (tatami.DenseExtractor[V], error) {
	if axis == d.axis {
		inner, err := d.inner.Dense(axis, sel, opts)
		if err != nil {
			return nil, err
		}

		return &subsetTargetDense[V, I]{inner: inner, indices: d.indices}, nil
	}

	nonTargetExtentInner := d.inner.NumCols()
	if d.axis == tatami.Row {
		nonTargetExtentInner = d.inner.NumRows()
	}
	for j := 0; j < sel.ExtractedLength(len(d.indices)); j++ {
		if p := nonTargetIndexAt(sel, j); p < 0 || p >= len(d.indices) {
			return nil, fmt.Errorf("subset: DelayedSubset.Dense: %w", tatami.ErrOutOfRange)
		}
	}
	full, err := d.inner.Dense(axis, tatami.FullSelection[I](), opts)
	if err != nil {
		return nil, err
	}

	return &subsetNonTargetDense[V, I]{
		inner: full, sel: sel, indices: d.indices,
		length: sel.ExtractedLength(len(d.indices)),
		fullbuf: make([]V, nonTargetExtentInner),
	}, nil
}

// Sparse implements tatami.Matrix. When the subsetted dimension is the
// target dimension, indirection through the stored permutation preserves
// sparsity exactly; when it's the non-target dimension, the result is
// densified since an arbitrary permutation may repeat or skip structural
// positions in a way a sparse merge can't cheaply track.
func (d *DelayedSubset[V, I]) Sparse(axis tatami.Axis, sel tatami.Selection[I], opts tatami.Options) (tatami.SparseExtractor[V, I], error) {
	if axis == d.axis {
		inner, err := d.inner.Sparse(axis, sel, opts)
		if err != nil {
			return nil, err
		}

		return &subsetTargetSparse[V, I]{inner: inner, indices: d.indices}, nil
	}

	dense, err := d.Dense(axis, sel, opts)
	if err != nil {
		return nil, err
	}

	return &subsetDensifiedSparse[V, I]{dense: dense, sel: sel, opts: opts, buf: make([]V, dense.ExtractedLength())}, nil
}

// subsetTargetDense dispatches each requested target through the stored
// permutation before forwarding to the single inner extractor built over
// the untouched non-target selection.
type subsetTargetDense[V tatami.Number, I tatami.Integer] struct {
	inner   tatami.DenseExtractor[V]
	indices []I
}

func (e *subsetTargetDense[V, I]) ExtractedLength() int { return e.inner.ExtractedLength() }

func (e *subsetTargetDense[V, I]) SetOracle(o tatami.Oracle) {
	if o == nil {
		e.inner.SetOracle(nil)
		return
	}
	e.inner.SetOracle(&translatingOracle[I]{wrapped: o, indices: e.indices})
}

func (e *subsetTargetDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= len(e.indices) {
		return nil, fmt.Errorf("subset: DelayedSubset.Fetch: %w", tatami.ErrOutOfRange)
	}
	return e.inner.Fetch(int(e.indices[target]), buffer)
}

func (e *subsetTargetDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= len(e.indices) {
		return nil, fmt.Errorf("subset: DelayedSubset.Fetch: %w", tatami.ErrOutOfRange)
	}
	return e.inner.FetchCopy(int(e.indices[target]), buffer)
}

type subsetTargetSparse[V tatami.Number, I tatami.Integer] struct {
	inner   tatami.SparseExtractor[V, I]
	indices []I
}

func (e *subsetTargetSparse[V, I]) ExtractedLength() int { return e.inner.ExtractedLength() }

func (e *subsetTargetSparse[V, I]) SetOracle(o tatami.Oracle) {
	if o == nil {
		e.inner.SetOracle(nil)
		return
	}
	e.inner.SetOracle(&translatingOracle[I]{wrapped: o, indices: e.indices})
}

func (e *subsetTargetSparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (tatami.SparseRange[V, I], error) {
	if target < 0 || target >= len(e.indices) {
		return tatami.SparseRange[V, I]{}, fmt.Errorf("subset: DelayedSubset.Fetch: %w", tatami.ErrOutOfRange)
	}
	return e.inner.Fetch(int(e.indices[target]), vbuffer, ibuffer)
}

// subsetNonTargetDense gathers a full inner row/column (over its entire
// untouched extent) once per Fetch and re-selects through the permutation
// itself, since the permutation may not be expressible as a legal Index
// selection on the inner matrix.
type subsetNonTargetDense[V tatami.Number, I tatami.Integer] struct {
	inner   tatami.DenseExtractor[V]
	sel     tatami.Selection[I]
	indices []I
	length  int
	fullbuf []V
	oracle  tatami.Oracle
}

func (e *subsetNonTargetDense[V, I]) ExtractedLength() int { return e.length }

func (e *subsetNonTargetDense[V, I]) SetOracle(o tatami.Oracle) {
	e.oracle = o
	e.inner.SetOracle(o)
}

func nonTargetIndexAt[I tatami.Integer](sel tatami.Selection[I], j int) int {
	switch sel.Kind {
	case tatami.SelectionBlock:
		return sel.Start + j
	case tatami.SelectionIndex:
		return int(sel.Indices[j])
	default:
		return j
	}
}

func (e *subsetNonTargetDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	full, err := e.inner.FetchCopy(target, e.fullbuf)
	if err != nil {
		return nil, err
	}
	out := buffer[:e.length]
	for j := range out {
		permuted := nonTargetIndexAt(e.sel, j)
		out[j] = full[int(e.indices[permuted])]
	}

	return out, nil
}

func (e *subsetNonTargetDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

// subsetDensifiedSparse reports every gathered position as structural,
// the same fallback shape used elsewhere in this module when a wrapper
// can't cheaply preserve sparsity through a reordering.
type subsetDensifiedSparse[V tatami.Number, I tatami.Integer] struct {
	dense tatami.DenseExtractor[V]
	sel   tatami.Selection[I]
	opts  tatami.Options
	buf   []V
}

func (e *subsetDensifiedSparse[V, I]) ExtractedLength() int { return e.dense.ExtractedLength() }
func (e *subsetDensifiedSparse[V, I]) SetOracle(o tatami.Oracle) { e.dense.SetOracle(o) }

func (e *subsetDensifiedSparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (tatami.SparseRange[V, I], error) {
	raw, err := e.dense.FetchCopy(target, e.buf)
	if err != nil {
		return tatami.SparseRange[V, I]{}, err
	}

	out := tatami.SparseRange[V, I]{N: len(raw)}
	if e.opts.SparseExtractValue {
		vs := vbuffer[:len(raw)]
		copy(vs, raw)
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
