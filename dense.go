// Package tatami: in-memory dense backend.
//
// DenseMatrix stores R*C elements in a single flat slice, either row-major
// (element (r,c) at r*C+c) or column-major (element (r,c) at c*R+r).
// Accessing along the stored major dimension ("primary") is zero-copy for
// Full and Block selections; the other direction ("secondary") always
// copies through a stride walk.
package tatami

import "fmt"

func denseErrorf(method string, target int, err error) error {
	return fmt.Errorf("tatami: DenseMatrix.%s(%d): %w", method, target, err)
}

// DenseMatrix is a flat, row- or column-major matrix of Number values.
type DenseMatrix[V Number, I Integer] struct {
	rows, cols int
	data       []V
	rowMajor   bool
}

// NewDenseMatrixRowMajor wraps data as a row-major rows×cols matrix. data
// is used as-is (not copied) and must have length rows*cols.
func NewDenseMatrixRowMajor[V Number, I Integer](rows, cols int, data []V) (*DenseMatrix[V, I], error) {
	return newDenseMatrix[V, I](rows, cols, data, true)
}

// NewDenseMatrixColumnMajor wraps data as a column-major rows×cols matrix.
func NewDenseMatrixColumnMajor[V Number, I Integer](rows, cols int, data []V) (*DenseMatrix[V, I], error) {
	return newDenseMatrix[V, I](rows, cols, data, false)
}

func newDenseMatrix[V Number, I Integer](rows, cols int, data []V, rowMajor bool) (*DenseMatrix[V, I], error) {
	if rows < 0 || cols < 0 {
		return nil, tatamiErrorf("NewDenseMatrix", ErrInvalidShape)
	}
	if len(data) != rows*cols {
		return nil, tatamiErrorf("NewDenseMatrix", ErrInvalidShape)
	}

	return &DenseMatrix[V, I]{rows: rows, cols: cols, data: data, rowMajor: rowMajor}, nil
}

// NumRows implements Matrix.
func (m *DenseMatrix[V, I]) NumRows() int { return m.rows }

// NumCols implements Matrix.
func (m *DenseMatrix[V, I]) NumCols() int { return m.cols }

// IsSparse implements Matrix: dense storage is never sparse.
func (m *DenseMatrix[V, I]) IsSparse() bool { return false }

// IsSparseProportion implements Matrix.
func (m *DenseMatrix[V, I]) IsSparseProportion() float64 { return 0 }

// PreferRows implements Matrix: the majorness flag is the cheap direction.
func (m *DenseMatrix[V, I]) PreferRows() bool { return m.rowMajor }

// PreferRowsProportion implements Matrix.
func (m *DenseMatrix[V, I]) PreferRowsProportion() float64 {
	if m.rowMajor {
		return 1
	}

	return 0
}

// UsesOracle implements Matrix: in-memory dense access never benefits from
// prefetch.
func (m *DenseMatrix[V, I]) UsesOracle(rowAccess bool) bool { return false }

// majorExtent is the length of one contiguous run of storage, and so the
// stride between runs: cols for row-major (each row is one run), rows for
// column-major.
func (m *DenseMatrix[V, I]) majorExtent() int {
	if m.rowMajor {
		return m.cols
	}

	return m.rows
}

// isPrimary reports whether accessing along axis walks contiguous storage.
func (m *DenseMatrix[V, I]) isPrimary(axis Axis) bool {
	return (axis == Row) == m.rowMajor
}

// Dense implements Matrix.
func (m *DenseMatrix[V, I]) Dense(axis Axis, sel Selection[I], opts Options) (DenseExtractor[V], error) {
	nonTarget := nonTargetExtent[V, I](m, axis)
	if err := sel.validate(nonTarget); err != nil {
		return nil, tatamiErrorf("Dense", err)
	}

	return &denseMatrixExtractor[V, I]{
		m:       m,
		axis:    axis,
		sel:     sel,
		length:  sel.ExtractedLength(nonTarget),
		primary: m.isPrimary(axis),
	}, nil
}

// Sparse implements Matrix by densifying: every position in the selection
// is reported as a structural entry. This deliberately does not filter
// zeros — a dense backend has no structural-zero information to filter
// by, so doing so would require an O(n) scan on every Fetch for a
// benefit only a genuinely sparse backend can offer for free.
func (m *DenseMatrix[V, I]) Sparse(axis Axis, sel Selection[I], opts Options) (SparseExtractor[V, I], error) {
	dense, err := m.Dense(axis, sel, opts)
	if err != nil {
		return nil, err
	}

	return newDensifiedSparseExtractor[V, I](dense, sel, opts), nil
}

// denseMatrixExtractor implements DenseExtractor for DenseMatrix, for any
// axis/selection combination.
type denseMatrixExtractor[V Number, I Integer] struct {
	m       *DenseMatrix[V, I]
	axis    Axis
	sel     Selection[I]
	length  int
	primary bool
	oracle  Oracle
}

func (e *denseMatrixExtractor[V, I]) ExtractedLength() int { return e.length }

func (e *denseMatrixExtractor[V, I]) SetOracle(o Oracle) { e.oracle = o }

func (e *denseMatrixExtractor[V, I]) Fetch(target int, buffer []V) ([]V, error) {
	if target < 0 || target >= targetExtent[V, I](e.m, e.axis) {
		return nil, denseErrorf("Fetch", target, ErrOutOfRange)
	}

	if e.primary {
		switch e.sel.Kind {
		case SelectionFull:
			start := target * e.m.majorExtent()
			return e.m.data[start : start+e.length], nil
		case SelectionBlock:
			start := target*e.m.majorExtent() + e.sel.Start
			return e.m.data[start : start+e.length], nil
		default: // SelectionIndex: gather
			base := target * e.m.majorExtent()
			for j, idx := range e.sel.Indices {
				buffer[j] = e.m.data[base+int(idx)]
			}
			return buffer[:e.length], nil
		}
	}

	// Secondary direction: stride walk, always a copy.
	stride := e.m.majorExtent()
	switch e.sel.Kind {
	case SelectionFull:
		for j := 0; j < e.length; j++ {
			buffer[j] = e.m.data[j*stride+target]
		}
	case SelectionBlock:
		for j := 0; j < e.length; j++ {
			buffer[j] = e.m.data[(j+e.sel.Start)*stride+target]
		}
	default: // SelectionIndex
		for j, idx := range e.sel.Indices {
			buffer[j] = e.m.data[int(idx)*stride+target]
		}
	}

	return buffer[:e.length], nil
}

func (e *denseMatrixExtractor[V, I]) FetchCopy(target int, buffer []V) ([]V, error) {
	raw, err := e.Fetch(target, buffer)
	if err != nil {
		return nil, err
	}
	if sameBacking(raw, buffer) {
		return raw, nil
	}
	copy(buffer[:len(raw)], raw)

	return buffer[:len(raw)], nil
}
