package tatami

func compressedErrorf(method string, target int, err error) error {
	return tatamiErrorf("CompressedSparseMatrix."+method, err)
}

// CompressedSparseMatrix is a compressed-sparse-row or compressed-sparse-
// column backend: a flat values/indices pair sliced per primary index by
// pointers, the classic CSR/CSC layout. Primary-direction access (rows
// for CSR, columns for CSC) is a direct slab lookup; the opposite
// direction walks every primary's slab via secondaryWalker.
type CompressedSparseMatrix[V Number, I Integer] struct {
	rows, cols int
	values     []V
	indices    []I
	pointers   []int
	csr        bool
}

// NewCompressedSparseRowMatrix builds a CSR matrix: pointers has length
// rows+1, indices[pointers[r]:pointers[r+1]] holds row r's column indices
// in strictly increasing order, values holds the matching entries.
func NewCompressedSparseRowMatrix[V Number, I Integer](rows, cols int, values []V, indices []I, pointers []int) (*CompressedSparseMatrix[V, I], error) {
	return newCompressedSparseMatrix[V, I](rows, cols, values, indices, pointers, true)
}

// NewCompressedSparseColumnMatrix builds a CSC matrix: pointers has length
// cols+1, indices[pointers[c]:pointers[c+1]] holds column c's row indices
// in strictly increasing order.
func NewCompressedSparseColumnMatrix[V Number, I Integer](rows, cols int, values []V, indices []I, pointers []int) (*CompressedSparseMatrix[V, I], error) {
	return newCompressedSparseMatrix[V, I](rows, cols, values, indices, pointers, false)
}

func newCompressedSparseMatrix[V Number, I Integer](rows, cols int, values []V, indices []I, pointers []int, csr bool) (*CompressedSparseMatrix[V, I], error) {
	if rows < 0 || cols < 0 {
		return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
	}
	if len(values) != len(indices) {
		return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
	}

	major, nonMajor := rows, cols
	if !csr {
		major, nonMajor = cols, rows
	}
	if len(pointers) != major+1 {
		return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
	}
	if pointers[0] != 0 || pointers[major] != len(values) {
		return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
	}
	for p := 0; p < major; p++ {
		if pointers[p] > pointers[p+1] {
			return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
		}
		for k := pointers[p] + 1; k < pointers[p+1]; k++ {
			if !(indices[k-1] < indices[k]) {
				return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrInvalidShape)
			}
		}
		for k := pointers[p]; k < pointers[p+1]; k++ {
			if int(indices[k]) < 0 || int(indices[k]) >= nonMajor {
				return nil, tatamiErrorf("NewCompressedSparseMatrix", ErrOutOfRange)
			}
		}
	}

	return &CompressedSparseMatrix[V, I]{rows: rows, cols: cols, values: values, indices: indices, pointers: pointers, csr: csr}, nil
}

func (m *CompressedSparseMatrix[V, I]) NumRows() int { return m.rows }
func (m *CompressedSparseMatrix[V, I]) NumCols() int { return m.cols }

func (m *CompressedSparseMatrix[V, I]) IsSparse() bool             { return true }
func (m *CompressedSparseMatrix[V, I]) IsSparseProportion() float64 { return 1 }

// PreferRows reports whether the primary (slab) direction is rows: CSR is
// row-preferring, CSC is column-preferring.
func (m *CompressedSparseMatrix[V, I]) PreferRows() bool { return m.csr }

func (m *CompressedSparseMatrix[V, I]) PreferRowsProportion() float64 {
	if m.csr {
		return 1
	}

	return 0
}

// UsesOracle reports true only for the secondary (walker) direction: the
// primary direction is a direct slab lookup with no state to prefetch.
func (m *CompressedSparseMatrix[V, I]) UsesOracle(rowAccess bool) bool {
	return rowAccess != m.csr
}

func (m *CompressedSparseMatrix[V, I]) isPrimary(axis Axis) bool {
	return (axis == Row) == m.csr
}

func (m *CompressedSparseMatrix[V, I]) majorExtent() int {
	if m.csr {
		return m.rows
	}

	return m.cols
}

func (m *CompressedSparseMatrix[V, I]) nonMajorExtent() int {
	if m.csr {
		return m.cols
	}

	return m.rows
}

// Dense implements Matrix.
func (m *CompressedSparseMatrix[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("CompressedSparseMatrix.Dense", err)
	}

	if m.isPrimary(axis) {
		return &compressedPrimaryDense[V, I]{m: m, sel: sel, length: sel.ExtractedLength(nonTarget), opts: opts}, nil
	}

	return newCompressedSecondaryDense[V, I](m, sel), nil
}

// Sparse implements Matrix.
func (m *CompressedSparseMatrix[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("CompressedSparseMatrix.Sparse", err)
	}

	if m.isPrimary(axis) {
		return &compressedPrimarySparse[V, I]{m: m, sel: sel, length: sel.ExtractedLength(nonTarget), opts: opts}, nil
	}

	return newCompressedSecondarySparse[V, I](m, sel, opts), nil
}

// --- primary direction: direct slab lookup ---

type compressedPrimaryDense[V Number, I Integer] struct {
	m      *CompressedSparseMatrix[V, I]
	sel    Selection[I]
	length int
	opts   Options
	oracle Oracle
	cache  map[int]int // target -> resolved Block lower-bound pointer
}

func (e *compressedPrimaryDense[V, I]) ExtractedLength() int { return e.length }
func (e *compressedPrimaryDense[V, I]) SetOracle(o Oracle)    { e.oracle = o }

// blockLowerBound resolves the first slab position >= start for target's
// Block selection, reusing a cached result across repeat calls for the
// same target when the caller opted into CacheForReuse at construction.
func (e *compressedPrimaryDense[V, I]) blockLowerBound(target, lo, hi, start int) int {
	if !e.opts.CacheForReuse {
		return lowerBound(e.m.indices, lo, hi, start)
	}
	if e.cache == nil {
		e.cache = make(map[int]int)
	}
	if from, ok := e.cache[target]; ok {
		return from
	}
	from := lowerBound(e.m.indices, lo, hi, start)
	e.cache[target] = from

	return from
}

func (e *compressedPrimaryDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= e.m.majorExtent() {
		return nil, compressedErrorf("Fetch", target, ErrOutOfRange)
	}
	lo, hi := e.m.pointers[target], e.m.pointers[target+1]

	out := buffer[:e.length]
	for j := range out {
		out[j] = 0
	}

	switch e.sel.Kind {
	case SelectionFull:
		for k := lo; k < hi; k++ {
			out[int(e.m.indices[k])] = e.m.values[k]
		}
	case SelectionBlock:
		start, end := e.sel.Start, e.sel.Start+e.sel.Length
		from := e.blockLowerBound(target, lo, hi, start)
		for k := from; k < hi && int(e.m.indices[k]) < end; k++ {
			out[int(e.m.indices[k])-start] = e.m.values[k]
		}
	default: // SelectionIndex
		k := lo
		for j, idx := range e.sel.Indices {
			k = lowerBound(e.m.indices, k, hi, int(idx))
			if k < hi && int(e.m.indices[k]) == int(idx) {
				out[j] = e.m.values[k]
			}
		}
	}

	return out, nil
}

func (e *compressedPrimaryDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

type compressedPrimarySparse[V Number, I Integer] struct {
	m      *CompressedSparseMatrix[V, I]
	sel    Selection[I]
	length int
	opts   Options
	oracle Oracle
	cache  map[int]int // target -> resolved Block lower-bound pointer
}

func (e *compressedPrimarySparse[V, I]) ExtractedLength() int { return e.length }
func (e *compressedPrimarySparse[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *compressedPrimarySparse[V, I]) blockLowerBound(target, lo, hi, start int) int {
	if !e.opts.CacheForReuse {
		return lowerBound(e.m.indices, lo, hi, start)
	}
	if e.cache == nil {
		e.cache = make(map[int]int)
	}
	if from, ok := e.cache[target]; ok {
		return from
	}
	from := lowerBound(e.m.indices, lo, hi, start)
	e.cache[target] = from

	return from
}

func (e *compressedPrimarySparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	if target < 0 || target >= e.m.majorExtent() {
		return SparseRange[V, I]{}, compressedErrorf("Fetch", target, ErrOutOfRange)
	}
	lo, hi := e.m.pointers[target], e.m.pointers[target+1]

	switch e.sel.Kind {
	case SelectionFull:
		return e.slice(lo, hi), nil
	case SelectionBlock:
		start, end := e.sel.Start, e.sel.Start+e.sel.Length
		from := e.blockLowerBound(target, lo, hi, start)
		upto := from
		for upto < hi && int(e.m.indices[upto]) < end {
			upto++
		}

		return e.slice(from, upto), nil
	default: // SelectionIndex: not contiguous in storage, must gather
		n := 0
		k := lo
		for _, idx := range e.sel.Indices {
			k = lowerBound(e.m.indices, k, hi, int(idx))
			if k < hi && int(e.m.indices[k]) == int(idx) {
				if e.opts.SparseExtractValue {
					vbuffer[n] = e.m.values[k]
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
}

func (e *compressedPrimarySparse[V, I]) slice(lo, hi int) SparseRange[V, I] {
	out := SparseRange[V, I]{N: hi - lo}
	if e.opts.SparseExtractValue {
		out.Values = e.m.values[lo:hi]
	}
	if e.opts.SparseExtractIndex {
		out.Indices = e.m.indices[lo:hi]
	}

	return out
}

// --- secondary direction: shared walker over every primary in the selection ---

// compressedSecondaryBase precomputes the walker and the primary indices
// it was built over; dense and sparse secondary extractors both fetch the
// target's hits from it via advance's store/skip callbacks.
type compressedSecondaryBase[V Number, I Integer] struct {
	m         *CompressedSparseMatrix[V, I]
	sel       Selection[I]
	primaries []int
	walker    *secondaryWalker[I]
}

func newCompressedSecondaryBase[V Number, I Integer](m *CompressedSparseMatrix[V, I], sel Selection[I]) *compressedSecondaryBase[V, I] {
	primaries := selectionPrimaries[I](m.majorExtent(), sel)
	lower, upper := slabBounds(m.pointers, primaries)

	return &compressedSecondaryBase[V, I]{
		m:         m,
		sel:       sel,
		primaries: primaries,
		walker:    newSecondaryWalker[I](m.indices, lower, upper, m.nonMajorExtent()),
	}
}

type compressedSecondaryDense[V Number, I Integer] struct {
	*compressedSecondaryBase[V, I]
	oracle Oracle
}

func newCompressedSecondaryDense[V Number, I Integer](m *CompressedSparseMatrix[V, I], sel Selection[I]) *compressedSecondaryDense[V, I] {
	return &compressedSecondaryDense[V, I]{compressedSecondaryBase: newCompressedSecondaryBase[V, I](m, sel)}
}

func (e *compressedSecondaryDense[V, I]) ExtractedLength() int { return len(e.primaries) }
func (e *compressedSecondaryDense[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *compressedSecondaryDense[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= e.m.nonMajorExtent() {
		return nil, compressedErrorf("Fetch", target, ErrOutOfRange)
	}
	out := buffer[:len(e.primaries)]
	for j := range out {
		out[j] = 0
	}
	e.walker.advance(target,
		func(pos, ptr int) { out[pos] = e.m.values[ptr] },
		func(pos int) {},
	)

	return out, nil
}

func (e *compressedSecondaryDense[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	return e.Fetch(target, buffer)
}

type compressedSecondarySparse[V Number, I Integer] struct {
	*compressedSecondaryBase[V, I]
	opts   Options
	oracle Oracle
}

func newCompressedSecondarySparse[V Number, I Integer](m *CompressedSparseMatrix[V, I], sel Selection[I], opts Options) *compressedSecondarySparse[V, I] {
	return &compressedSecondarySparse[V, I]{compressedSecondaryBase: newCompressedSecondaryBase[V, I](m, sel), opts: opts}
}

func (e *compressedSecondarySparse[V, I]) ExtractedLength() int { return len(e.primaries) }
func (e *compressedSecondarySparse[V, I]) SetOracle(o Oracle)    { e.oracle = o }

func (e *compressedSecondarySparse[V, I]) Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	if target < 0 || target >= e.m.nonMajorExtent() {
		return SparseRange[V, I]{}, compressedErrorf("Fetch", target, ErrOutOfRange)
	}
	n := 0
	e.walker.advance(target,
		func(pos, ptr int) {
			if e.opts.SparseExtractValue {
				vbuffer[n] = e.m.values[ptr]
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
