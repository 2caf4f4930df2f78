package tatami_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tatami-go/tatami"
)

func denseRow3x2(t *testing.T) *tatami.DenseMatrix[float64, int] {
	t.Helper()
	m, err := tatami.NewDenseMatrixRowMajor[float64, int](3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	require.NoError(t, err)

	return m
}

func TestNewDenseMatrixRowMajor_RejectsLengthMismatch(t *testing.T) {
	_, err := tatami.NewDenseMatrixRowMajor[float64, int](2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, tatami.ErrInvalidShape)
}

func TestNewDenseMatrixRowMajor_RejectsNegativeShape(t *testing.T) {
	_, err := tatami.NewDenseMatrixRowMajor[float64, int](-1, 2, nil)
	require.ErrorIs(t, err, tatami.ErrInvalidShape)
}

func TestDenseMatrix_RowFullFetch(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	require.Equal(t, 2, extractor.ExtractedLength())

	buf := make([]float64, 2)
	row, err := extractor.FetchCopy(1, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, row)
}

func TestDenseMatrix_ColumnFullFetch(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	require.Equal(t, 3, extractor.ExtractedLength())

	buf := make([]float64, 3)
	col, err := extractor.FetchCopy(1, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, col)
}

func TestDenseMatrix_BlockSelection(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Dense(tatami.Row, tatami.BlockSelection[int](1, 1), tatami.NewOptions())
	require.NoError(t, err)
	require.Equal(t, 1, extractor.ExtractedLength())

	buf := make([]float64, 1)
	row, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{6}, row)
}

func TestDenseMatrix_IndexSelection(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Dense(tatami.Row, tatami.IndexSelection[int]([]int{1}), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 1)
	row, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{2}, row)
}

func TestDenseMatrix_FetchOutOfRange(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	_, err = extractor.Fetch(3, make([]float64, 2))
	require.ErrorIs(t, err, tatami.ErrOutOfRange)
}

func TestDenseMatrix_SelectionOutOfRange(t *testing.T) {
	m := denseRow3x2(t)

	_, err := m.Dense(tatami.Row, tatami.BlockSelection[int](1, 5), tatami.NewOptions())
	require.ErrorIs(t, err, tatami.ErrOutOfRange)
}

func TestDenseMatrix_IsSparseAlwaysFalse(t *testing.T) {
	m := denseRow3x2(t)
	require.False(t, m.IsSparse())
	require.Equal(t, 0.0, m.IsSparseProportion())
}

func TestDenseMatrix_SparseDensifiesEveryPosition(t *testing.T) {
	m := denseRow3x2(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 2, raw.N)
	require.Equal(t, []float64{1, 2}, raw.Values)
	require.Equal(t, []int{0, 1}, raw.Indices)
}

func csrMatrix(t *testing.T) *tatami.CompressedSparseMatrix[float64, int] {
	t.Helper()
	// 3x4, rows: {0: [(1,5)], 1: [], 2: [(0,9),(3,2)]}
	m, err := tatami.NewCompressedSparseRowMatrix[float64, int](
		3, 4,
		[]float64{5, 9, 2},
		[]int{1, 0, 3},
		[]int{0, 1, 1, 3},
	)
	require.NoError(t, err)

	return m
}

func TestNewCompressedSparseRowMatrix_RejectsUnorderedIndices(t *testing.T) {
	_, err := tatami.NewCompressedSparseRowMatrix[float64, int](
		1, 4,
		[]float64{1, 2},
		[]int{3, 1},
		[]int{0, 2},
	)
	require.ErrorIs(t, err, tatami.ErrInvalidShape)
}

func TestNewCompressedSparseRowMatrix_RejectsOutOfRangeIndex(t *testing.T) {
	_, err := tatami.NewCompressedSparseRowMatrix[float64, int](
		1, 4,
		[]float64{1},
		[]int{9},
		[]int{0, 1},
	)
	require.ErrorIs(t, err, tatami.ErrOutOfRange)
}

func TestNewCompressedSparseRowMatrix_RejectsBadPointerLength(t *testing.T) {
	_, err := tatami.NewCompressedSparseRowMatrix[float64, int](2, 4, nil, nil, []int{0})
	require.ErrorIs(t, err, tatami.ErrInvalidShape)
}

func TestCompressedSparseMatrix_PrimaryRowFetch(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 4)
	row, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 0, 0, 2}, row)

	row, err = extractor.FetchCopy(1, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0}, row)
}

func TestCompressedSparseMatrix_PrimaryRowSparseFetch(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 4)
	ibuf := make([]int, 4)
	raw, err := extractor.Fetch(2, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 2, raw.N)
	require.Equal(t, []float64{9, 2}, raw.Values)
	require.Equal(t, []int{0, 3}, raw.Indices)
}

func TestCompressedSparseMatrix_SecondaryColumnFetch(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	col, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 9}, col)

	col, err = extractor.FetchCopy(3, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 2}, col)
}

func TestCompressedSparseMatrix_SecondaryColumnSparseFetch(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 3)
	ibuf := make([]int, 3)
	raw, err := extractor.Fetch(1, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 1, raw.N)
	require.Equal(t, []float64{5}, raw.Values)
	require.Equal(t, []int{0}, raw.Indices)
}

func TestCompressedSparseMatrix_SecondaryOutOfOrderAccessMatchesForward(t *testing.T) {
	// Exercises the walker's backward branch: request column 3, then 0,
	// then 3 again, and confirm results don't depend on request order.
	m := csrMatrix(t)

	extractor, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	first, err := extractor.FetchCopy(3, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 2}, first)

	_, err = extractor.FetchCopy(0, buf)
	require.NoError(t, err)

	second, err := extractor.FetchCopy(3, buf)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCompressedSparseMatrix_PrimarySparseSkipsValueWhenDisabled(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractValue(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 4)
	ibuf := make([]int, 4)
	raw, err := extractor.Fetch(2, vbuf, ibuf)
	require.NoError(t, err)
	require.Nil(t, raw.Values)
	require.Equal(t, []int{0, 3}, raw.Indices)
}

func TestCompressedSparseMatrix_PrimarySparseSkipsIndexWhenDisabled(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractIndex(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 4)
	ibuf := make([]int, 4)
	raw, err := extractor.Fetch(2, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 2}, raw.Values)
	require.Nil(t, raw.Indices)
}

func TestCompressedSparseMatrix_SecondarySparseSkipsValueWhenDisabled(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractValue(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 3)
	ibuf := make([]int, 3)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Nil(t, raw.Values)
	require.Equal(t, []int{2}, raw.Indices)
}

func TestCompressedSparseMatrix_CacheForReuseDoesNotChangeRepeatedFetch(t *testing.T) {
	m := csrMatrix(t)

	extractor, err := m.Dense(tatami.Row, tatami.BlockSelection[int](1, 3), tatami.NewOptions(tatami.WithCacheForReuse(true)))
	require.NoError(t, err)

	buf := make([]float64, 3)
	first, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 2}, first)

	second, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCompressedSparseMatrix_SparseOrderedIndexIsConservativelyAlwaysOrdered(t *testing.T) {
	// WithSparseOrderedIndex(false) is a cost hint only: this backend
	// always returns strictly increasing indices regardless of the flag,
	// which remains a legal (if conservative) implementation of the
	// option's contract.
	m := csrMatrix(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseOrderedIndex(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 4)
	ibuf := make([]int, 4)
	raw, err := extractor.Fetch(2, vbuf, ibuf)
	require.NoError(t, err)
	require.True(t, sort.IntsAreSorted(raw.Indices))
}

func TestCompressedSparseMatrix_OracleDoesNotChangeObservedOutput(t *testing.T) {
	m := csrMatrix(t)

	without, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	withOracle, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	withOracle.SetOracle(tatami.NewConsecutiveOracle(0, 4))

	buf1 := make([]float64, 3)
	buf2 := make([]float64, 3)
	for target := 0; target < 4; target++ {
		expected, err := without.FetchCopy(target, buf1)
		require.NoError(t, err)
		actual, err := withOracle.FetchCopy(target, buf2)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}
}

func TestCompressedSparseMatrix_IsSparseAlwaysTrue(t *testing.T) {
	m := csrMatrix(t)
	require.True(t, m.IsSparse())
	require.Equal(t, 1.0, m.IsSparseProportion())
}

func TestCompressedSparseMatrix_UsesOracleOnlyForSecondary(t *testing.T) {
	m := csrMatrix(t)
	require.False(t, m.UsesOracle(true))
	require.True(t, m.UsesOracle(false))
}

func semiCompressedMatrix(t *testing.T) *tatami.SemiCompressedSparseMatrix[int, int] {
	t.Helper()
	// row 0: column 2 appears three times (value 3); row 1: empty.
	m, err := tatami.NewSemiCompressedSparseRowMatrix[int, int](
		2, 4,
		[]int{2, 2, 2},
		[]int{0, 3, 3},
	)
	require.NoError(t, err)

	return m
}

func TestSemiCompressedSparseMatrix_PrimaryRunLengthDecoding(t *testing.T) {
	m := semiCompressedMatrix(t)

	extractor, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]int, 4)
	row, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 3, 0}, row)
}

func TestSemiCompressedSparseMatrix_SecondaryRunLengthDecoding(t *testing.T) {
	m := semiCompressedMatrix(t)

	extractor, err := m.Dense(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]int, 2)
	col, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []int{3, 0}, col)
}

func TestSemiCompressedSparseMatrix_PrimarySparseSkipsValueWhenDisabled(t *testing.T) {
	m := semiCompressedMatrix(t)

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractValue(false)))
	require.NoError(t, err)

	vbuf := make([]int, 4)
	ibuf := make([]int, 4)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Nil(t, raw.Values)
	require.Equal(t, []int{2}, raw.Indices)
}

func TestSemiCompressedSparseMatrix_SecondarySparseSkipsIndexWhenDisabled(t *testing.T) {
	m := semiCompressedMatrix(t)

	extractor, err := m.Sparse(tatami.Column, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractIndex(false)))
	require.NoError(t, err)

	vbuf := make([]int, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(2, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, []int{3}, raw.Values)
	require.Nil(t, raw.Indices)
}

func TestSemiCompressedSparseMatrix_RejectsUnorderedIndices(t *testing.T) {
	_, err := tatami.NewSemiCompressedSparseRowMatrix[int, int](1, 4, []int{2, 1}, []int{0, 2})
	require.ErrorIs(t, err, tatami.ErrInvalidShape)
}

func TestTranspose_SwapsShapeAndAxis(t *testing.T) {
	m := denseRow3x2(t)
	tp := tatami.NewTranspose[float64, int](m)

	require.Equal(t, m.NumCols(), tp.NumRows())
	require.Equal(t, m.NumRows(), tp.NumCols())

	extractor, err := tp.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	row, err := extractor.FetchCopy(1, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, row)
}

func TestTranspose_PreferRowsInverted(t *testing.T) {
	m := denseRow3x2(t)
	tp := tatami.NewTranspose[float64, int](m)
	require.Equal(t, m.PreferRows(), !tp.PreferRows())
}

func TestTranspose_DoubleTransposeIsObservationallyEqualToOriginal(t *testing.T) {
	m := csrMatrix(t)
	doubled := tatami.NewTranspose[float64, int](tatami.NewTranspose[float64, int](m))

	require.Equal(t, m.NumRows(), doubled.NumRows())
	require.Equal(t, m.NumCols(), doubled.NumCols())

	direct, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	roundTripped, err := doubled.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf1 := make([]float64, 4)
	buf2 := make([]float64, 4)
	for row := 0; row < m.NumRows(); row++ {
		expected, err := direct.FetchCopy(row, buf1)
		require.NoError(t, err)
		actual, err := roundTripped.FetchCopy(row, buf2)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}
}

func TestCast_IntToFloatConvertsValues(t *testing.T) {
	m, err := tatami.NewDenseMatrixRowMajor[int, int](1, 3, []int{1, 2, 3})
	require.NoError(t, err)

	c := tatami.NewCast[int, float64, int, int](m)
	extractor, err := c.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	row, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, row)
}

func TestCast_SameTypeIsObservationallyEqualToNoOp(t *testing.T) {
	m := denseRow3x2(t)
	c := tatami.NewCast[float64, float64, int, int](m)

	require.Equal(t, m.NumRows(), c.NumRows())
	require.Equal(t, m.NumCols(), c.NumCols())

	direct, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	cast, err := c.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf1 := make([]float64, 2)
	buf2 := make([]float64, 2)
	for row := 0; row < m.NumRows(); row++ {
		expected, err := direct.FetchCopy(row, buf1)
		require.NoError(t, err)
		actual, err := cast.FetchCopy(row, buf2)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}
}

func TestConstantMatrix_EveryPositionIsTheValue(t *testing.T) {
	m, err := tatami.NewConstantMatrix[float64, int](2, 3, 7)
	require.NoError(t, err)

	extractor, err := m.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	row, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{7, 7, 7}, row)
}

func TestConstantMatrix_ZeroValueIsSparse(t *testing.T) {
	m, err := tatami.NewConstantMatrix[float64, int](2, 3, 0)
	require.NoError(t, err)
	require.True(t, m.IsSparse())

	extractor, err := m.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 3)
	ibuf := make([]int, 3)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 0, raw.N)
}

func TestConstantMatrix_NonZeroValueIsNotSparse(t *testing.T) {
	m, err := tatami.NewConstantMatrix[float64, int](2, 3, 7)
	require.NoError(t, err)
	require.False(t, m.IsSparse())
}

func TestToDense_MaterialisesAnyMatrix(t *testing.T) {
	m := csrMatrix(t)

	dense, err := tatami.ToDense[float64, int](m)
	require.NoError(t, err)
	require.Equal(t, 3, dense.NumRows())
	require.Equal(t, 4, dense.NumCols())

	extractor, err := dense.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)
	buf := make([]float64, 4)
	row, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 0, 0, 2}, row)
}

func TestOptions_DefaultsAndOverrides(t *testing.T) {
	def := tatami.NewOptions()
	require.True(t, def.SparseExtractValue)
	require.True(t, def.SparseExtractIndex)
	require.False(t, def.CacheForReuse)

	custom := tatami.NewOptions(tatami.WithSparseExtractValue(false), tatami.WithCacheForReuse(true))
	require.False(t, custom.SparseExtractValue)
	require.True(t, custom.SparseExtractIndex)
	require.True(t, custom.CacheForReuse)
}

func TestOptions_LastWriterWins(t *testing.T) {
	o := tatami.NewOptions(tatami.WithSparseExtractValue(false), tatami.WithSparseExtractValue(true))
	require.True(t, o.SparseExtractValue)
}

func TestFixedOracle_PredictStopsAtEnd(t *testing.T) {
	o := tatami.NewFixedOracle([]int{2, 5, 9})
	require.Equal(t, []int{2, 5}, o.Predict(2))
	require.Equal(t, []int{9}, o.Predict(5))
	require.Equal(t, []int{}, o.Predict(1))
}

func TestConsecutiveOracle_PredictsRunningRange(t *testing.T) {
	o := tatami.NewConsecutiveOracle(3, 6)
	require.Equal(t, []int{3, 4}, o.Predict(2))
	require.Equal(t, []int{5}, o.Predict(5))
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	require.False(t, errors.Is(tatami.ErrOutOfRange, tatami.ErrInvalidShape))
}
