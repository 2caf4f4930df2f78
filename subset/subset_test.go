package subset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tatami-go/tatami"
	"github.com/tatami-go/tatami/subset"
)

func fixture(t *testing.T) tatami.Matrix[float64, int] {
	t.Helper()
	m, err := tatami.NewDenseMatrixRowMajor[float64, int](3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	require.NoError(t, err)

	return m
}

func TestNewDelayedSubset_RejectsOutOfRangeIndex(t *testing.T) {
	_, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Row, []int{0, 9})
	require.ErrorIs(t, err, tatami.ErrOutOfRange)
}

func TestDelayedSubset_RowPermutationAndRepeat(t *testing.T) {
	s, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Row, []int{2, 0, 2})
	require.NoError(t, err)
	require.Equal(t, 3, s.NumRows())
	require.Equal(t, 2, s.NumCols())

	extractor, err := s.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 2)
	row0, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6}, row0)

	row1, err := extractor.FetchCopy(1, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, row1)

	row2, err := extractor.FetchCopy(2, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6}, row2)
}

func TestDelayedSubset_TargetAxisSparsePreservesStructure(t *testing.T) {
	sparse, err := tatami.NewCompressedSparseRowMatrix[float64, int](3, 2, []float64{5, 9}, []int{1, 0}, []int{0, 1, 1, 2})
	require.NoError(t, err)

	s, err := subset.NewDelayedSubset[float64, int](sparse, tatami.Row, []int{2, 0})
	require.NoError(t, err)

	extractor, err := s.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 1, raw.N)
	require.Equal(t, []float64{9}, raw.Values)
	require.Equal(t, []int{0}, raw.Indices)
}

func TestDelayedSubset_ColumnSubsetGathersNonTargetDimension(t *testing.T) {
	s, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Column, []int{1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, 3, s.NumRows())
	require.Equal(t, 3, s.NumCols())

	extractor, err := s.Dense(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	buf := make([]float64, 3)
	row0, err := extractor.FetchCopy(0, buf)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 1, 2}, row0)
}

func TestDelayedSubset_ColumnSubsetSparseDensifies(t *testing.T) {
	s, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Column, []int{1, 0})
	require.NoError(t, err)

	extractor, err := s.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions())
	require.NoError(t, err)

	vbuf := make([]float64, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, 2, raw.N)
	require.Equal(t, []float64{2, 1}, raw.Values)
}

func TestDelayedSubset_ColumnSubsetSparseSkipsIndexWhenDisabled(t *testing.T) {
	s, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Column, []int{1, 0})
	require.NoError(t, err)

	extractor, err := s.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractIndex(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 1}, raw.Values)
	require.Nil(t, raw.Indices)
}

func TestDelayedSubset_ColumnSubsetSparseSkipsValueWhenDisabled(t *testing.T) {
	s, err := subset.NewDelayedSubset[float64, int](fixture(t), tatami.Column, []int{1, 0})
	require.NoError(t, err)

	extractor, err := s.Sparse(tatami.Row, tatami.FullSelection[int](), tatami.NewOptions(tatami.WithSparseExtractValue(false)))
	require.NoError(t, err)

	vbuf := make([]float64, 2)
	ibuf := make([]int, 2)
	raw, err := extractor.Fetch(0, vbuf, ibuf)
	require.NoError(t, err)
	require.Nil(t, raw.Values)
	require.Equal(t, []int{0, 1}, raw.Indices)
}

func TestDelayedSubset_UsesOracleOnlyOnSubsettedAxis(t *testing.T) {
	sparse, err := tatami.NewCompressedSparseRowMatrix[float64, int](3, 2, nil, nil, []int{0, 0, 0, 0})
	require.NoError(t, err)

	s, err := subset.NewDelayedSubset[float64, int](sparse, tatami.Row, []int{0, 1})
	require.NoError(t, err)

	// Subsetting rows, and the inner CSR matrix uses an oracle for
	// secondary (column) access, not primary (row) access.
	require.False(t, s.UsesOracle(true))
}
