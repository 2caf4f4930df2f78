package tatami

func semiCompressedErrorf(method string, target int, err error) error {
	return tatamiErrorf("SemiCompressedSparseMatrix."+method, err)
}

// SemiCompressedSparseMatrix stores only indices, run-length-encoding
// value counts greater than one as consecutive duplicate entries:
// position r holding index c twice means the value at (r, c) is 2. It
// trades half the storage of CompressedSparseMatrix for counting work on
// every fetch, and is intended for matrices whose entries are small
// non-negative integer counts (e.g. occurrence tallies).
type SemiCompressedSparseMatrix[V Number, I Integer] struct {
	rows, cols int
	indices    []I
	pointers   []int
	csr        bool
}

// NewSemiCompressedSparseRowMatrix builds a row-major run-length-encoded
// matrix: pointers has length rows+1, and indices[pointers[r]:pointers[r+1]]
// holds row r's column indices in non-decreasing order, with a run of k
// equal consecutive indices encoding the value k at that column.
func NewSemiCompressedSparseRowMatrix[V Number, I Integer](rows, cols int, indices []I, pointers []int) (*SemiCompressedSparseMatrix[V, I], error) {
	return newSemiCompressedSparseMatrix[V, I](rows, cols, indices, pointers, true)
}

// NewSemiCompressedSparseColumnMatrix is the column-major analogue of
// NewSemiCompressedSparseRowMatrix.
func NewSemiCompressedSparseColumnMatrix[V Number, I Integer](rows, cols int, indices []I, pointers []int) (*SemiCompressedSparseMatrix[V, I], error) {
	return newSemiCompressedSparseMatrix[V, I](rows, cols, indices, pointers, false)
}

func newSemiCompressedSparseMatrix[V Number, I Integer](rows, cols int, indices []I, pointers []int, csr bool) (*SemiCompressedSparseMatrix[V, I], error) {
	if rows < 0 || cols < 0 {
		return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrInvalidShape)
	}

	major, nonMajor := rows, cols
	if !csr {
		major, nonMajor = cols, rows
	}
	if len(pointers) != major+1 {
		return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrInvalidShape)
	}
	if pointers[0] != 0 || pointers[major] != len(indices) {
		return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrInvalidShape)
	}
	for p := 0; p < major; p++ {
		if pointers[p] > pointers[p+1] {
			return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrInvalidShape)
		}
		for k := pointers[p] + 1; k < pointers[p+1]; k++ {
			if indices[k-1] > indices[k] {
				return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrInvalidShape)
			}
		}
		for k := pointers[p]; k < pointers[p+1]; k++ {
			if int(indices[k]) < 0 || int(indices[k]) >= nonMajor {
				return nil, tatamiErrorf("NewSemiCompressedSparseMatrix", ErrOutOfRange)
			}
		}
	}

	return &SemiCompressedSparseMatrix[V, I]{rows: rows, cols: cols, indices: indices, pointers: pointers, csr: csr}, nil
}

func (m *SemiCompressedSparseMatrix[V, I]) NumRows() int { return m.rows }
func (m *SemiCompressedSparseMatrix[V, I]) NumCols() int { return m.cols }

func (m *SemiCompressedSparseMatrix[V, I]) IsSparse() bool              { return true }
func (m *SemiCompressedSparseMatrix[V, I]) IsSparseProportion() float64 { return 1 }

func (m *SemiCompressedSparseMatrix[V, I]) PreferRows() bool { return m.csr }

func (m *SemiCompressedSparseMatrix[V, I]) PreferRowsProportion() float64 {
	if m.csr {
		return 1
	}

	return 0
}

// UsesOracle always reports false: the secondary extractor here relies on
// run-counting around a resolved cursor rather than the oracle's
// sequential-access prefetch, so supplying one buys nothing.
func (m *SemiCompressedSparseMatrix[V, I]) UsesOracle(rowAccess bool) bool { return false }

func (m *SemiCompressedSparseMatrix[V, I]) isPrimary(axis Axis) bool {
	return (axis == Row) == m.csr
}

func (m *SemiCompressedSparseMatrix[V, I]) majorExtent() int {
	if m.csr {
		return m.rows
	}

	return m.cols
}

func (m *SemiCompressedSparseMatrix[V, I]) nonMajorExtent() int {
	if m.csr {
		return m.cols
	}

	return m.rows
}

// runLength counts the run of equal indices starting at pos (the first
// occurrence of its value) within [lower, upper).
func (m *SemiCompressedSparseMatrix[V, I]) runLength(pos, upper int) int {
	value := m.indices[pos]
	end := pos + 1
	for end < upper && m.indices[end] == value {
		end++
	}

	return end - pos
}

// runStart walks back from a hit at pos to the first occurrence of its
// value within [lower, upper).
func (m *SemiCompressedSparseMatrix[V, I]) runStart(pos, lower int) int {
	value := m.indices[pos]
	start := pos
	for start > lower && m.indices[start-1] == value {
		start--
	}

	return start
}

// Dense implements Matrix.
func (m *SemiCompressedSparseMatrix[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("SemiCompressedSparseMatrix.Dense", err)
	}

	if m.isPrimary(axis) {
		return &semiCompressedPrimaryDense[V, I]{m: m, sel: sel, length: sel.ExtractedLength(nonTarget)}, nil
	}

	return newSemiCompressedSecondaryDense[V, I](m, sel), nil
}

// Sparse implements Matrix.
func (m *SemiCompressedSparseMatrix[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("SemiCompressedSparseMatrix.Sparse", err)
	}

	if m.isPrimary(axis) {
		return &semiCompressedPrimarySparse[V, I]{m: m, sel: sel, length: sel.ExtractedLength(nonTarget), opts: opts}, nil
	}

	return newSemiCompressedSecondarySparse[V, I](m, sel, opts), nil
}

// --- primary direction ---

type semiCompressedPrimaryDense[V Number, I Integer] struct {
	m      *SemiCompressedSparseMatrix[V, I]
	sel    Selection[I]
	length int
	oracle Oracle
}

func (e *semiCompressedPrimaryDense[V, I]) ExtractedLength() int { return e.length }
func (e *semiCompressedPrimaryDense[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *semiCompressedPrimaryDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= e.m.majorExtent() {
		return nil, semiCompressedErrorf("Fetch", target, ErrOutOfRange)
	}
	lo, hi := e.m.pointers[target], e.m.pointers[target+1]

	out := buffer[:e.length]
	for j := range out {
		out[j] = 0
	}

	switch e.sel.Kind {
	case SelectionFull:
		for k := lo; k < hi; {
			n := e.m.runLength(k, hi)
			out[int(e.m.indices[k])] = V(n)
			k += n
		}
	case SelectionBlock:
		start, end := e.sel.Start, e.sel.Start+e.sel.Length
		k := lowerBound(e.m.indices, lo, hi, start)
		for k < hi && int(e.m.indices[k]) < end {
			n := e.m.runLength(k, hi)
			out[int(e.m.indices[k])-start] = V(n)
			k += n
		}
	default: // SelectionIndex
		k := lo
		for j, idx := range e.sel.Indices {
			k = lowerBound(e.m.indices, k, hi, int(idx))
			if k < hi && int(e.m.indices[k]) == int(idx) {
				out[j] = V(e.m.runLength(k, hi))
			}
		}
	}

	return out, nil
}

func (e *semiCompressedPrimaryDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

type semiCompressedPrimarySparse[V Number, I Integer] struct {
	m      *SemiCompressedSparseMatrix[V, I]
	sel    Selection[I]
	length int
	opts   Options
	oracle Oracle
}

func (e *semiCompressedPrimarySparse[V, I]) ExtractedLength() int { return e.length }
func (e *semiCompressedPrimarySparse[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *semiCompressedPrimarySparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	if target < 0 || target >= e.m.majorExtent() {
		return SparseRange[V, I]{}, semiCompressedErrorf("Fetch", target, ErrOutOfRange)
	}
	lo, hi := e.m.pointers[target], e.m.pointers[target+1]

	var lowK, highK int
	switch e.sel.Kind {
	case SelectionFull:
		lowK, highK = lo, hi
	case SelectionBlock:
		start, end := e.sel.Start, e.sel.Start+e.sel.Length
		lowK = lowerBound(e.m.indices, lo, hi, start)
		highK = lowK
		for highK < hi && int(e.m.indices[highK]) < end {
			highK += e.m.runLength(highK, hi)
		}
	default: // SelectionIndex: gather
		n := 0
		k := lo
		for _, idx := range e.sel.Indices {
			k = lowerBound(e.m.indices, k, hi, int(idx))
			if k < hi && int(e.m.indices[k]) == int(idx) {
				if e.opts.SparseExtractValue {
					vbuffer[n] = V(e.m.runLength(k, hi))
				}
				if e.opts.SparseExtractIndex {
					ibuffer[n] = idx
				}
				n++
			}
		}

		out := SparseRange[V, I]{N: n}
		if e.opts.SparseExtractValue {
			out.Values = vbuffer[:n]
		}
		if e.opts.SparseExtractIndex {
			out.Indices = ibuffer[:n]
		}

		return out, nil
	}

	n := 0
	for k := lowK; k < highK; {
		run := e.m.runLength(k, hi)
		if e.opts.SparseExtractValue {
			vbuffer[n] = V(run)
		}
		if e.opts.SparseExtractIndex {
			ibuffer[n] = e.m.indices[k]
		}
		n++
		k += run
	}

	out := SparseRange[V, I]{N: n}
	if e.opts.SparseExtractValue {
		out.Values = vbuffer[:n]
	}
	if e.opts.SparseExtractIndex {
		out.Indices = ibuffer[:n]
	}

	return out, nil
}

// --- secondary direction: compound cursor reusing secondaryWalker ---

type semiCompressedSecondaryBase[V Number, I Integer] struct {
	m         *SemiCompressedSparseMatrix[V, I]
	sel       Selection[I]
	primaries []int
	walker    *secondaryWalker[I]
}

func newSemiCompressedSecondaryBase[V Number, I Integer](m *SemiCompressedSparseMatrix[V, I], sel Selection[I]) *semiCompressedSecondaryBase[V, I] {
	primaries := selectionPrimaries[I](m.majorExtent(), sel)
	lower, upper := slabBounds(m.pointers, primaries)

	return &semiCompressedSecondaryBase[V, I]{
		m:         m,
		sel:       sel,
		primaries: primaries,
		walker:    newSecondaryWalker[I](m.indices, lower, upper, m.nonMajorExtent()),
	}
}

// count reconstructs the run length for a hit at ptr, local to the
// primary at pos: the walker's binary search may land anywhere inside a
// duplicate run, so the run's extent is recovered by scanning outward to
// that primary's slab bounds.
func (b *semiCompressedSecondaryBase[V, I]) count(pos, ptr int) int {
	lower, upper := b.walker.bounds(pos)
	start := b.m.runStart(ptr, lower)

	return b.m.runLength(start, upper)
}

type semiCompressedSecondaryDense[V Number, I Integer] struct {
	*semiCompressedSecondaryBase[V, I]
	oracle Oracle
}

func newSemiCompressedSecondaryDense[V Number, I Integer](m *SemiCompressedSparseMatrix[V, I], sel Selection[I]) *semiCompressedSecondaryDense[V, I] {
	return &semiCompressedSecondaryDense[V, I]{semiCompressedSecondaryBase: newSemiCompressedSecondaryBase[V, I](m, sel)}
}

func (e *semiCompressedSecondaryDense[V, I]) ExtractedLength() int { return len(e.primaries) }
func (e *semiCompressedSecondaryDense[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *semiCompressedSecondaryDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= e.m.nonMajorExtent() {
		return nil, semiCompressedErrorf("Fetch", target, ErrOutOfRange)
	}
	out := buffer[:len(e.primaries)]
	for j := range out {
		out[j] = 0
	}
	e.walker.advance(target,
		func(pos, ptr int) { out[pos] = V(e.count(pos, ptr)) },
		func(pos int) {},
	)

	return out, nil
}

func (e *semiCompressedSecondaryDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

type semiCompressedSecondarySparse[V Number, I Integer] struct {
	*semiCompressedSecondaryBase[V, I]
	opts   Options
	oracle Oracle
}

func newSemiCompressedSecondarySparse[V Number, I Integer](m *SemiCompressedSparseMatrix[V, I], sel Selection[I], opts Options) *semiCompressedSecondarySparse[V, I] {
	return &semiCompressedSecondarySparse[V, I]{semiCompressedSecondaryBase: newSemiCompressedSecondaryBase[V, I](m, sel), opts: opts}
}

func (e *semiCompressedSecondarySparse[V, I]) ExtractedLength() int { return len(e.primaries) }
func (e *semiCompressedSecondarySparse[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *semiCompressedSecondarySparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	if target < 0 || target >= e.m.nonMajorExtent() {
		return SparseRange[V, I]{}, semiCompressedErrorf("Fetch", target, ErrOutOfRange)
	}
	n := 0
	e.walker.advance(target,
		func(pos, ptr int) {
			if e.opts.SparseExtractValue {
				vbuffer[n] = V(e.count(pos, ptr))
			}
			if e.opts.SparseExtractIndex {
				ibuffer[n] = I(e.primaries[pos])
			}
			n++
		},
		func(pos int) {},
	)

	out := SparseRange[V, I]{N: n}
	if e.opts.SparseExtractValue {
		out.Values = vbuffer[:n]
	}
	if e.opts.SparseExtractIndex {
		out.Indices = ibuffer[:n]
	}

	return out, nil
}
