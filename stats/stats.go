// Package stats computes per-row and per-column reductions (sum, mean,
// variance) over a tatami.Matrix[float64, int] by driving it through the
// extractor protocol rather than assuming any particular backend.
package stats

import (
	"github.com/tatami-go/tatami"
)

// RowSums returns the sum of each row.
func RowSums(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Row, sumAccumulator{})
}

// ColSums returns the sum of each column.
func ColSums(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Column, sumAccumulator{})
}

// RowMeans returns the arithmetic mean of each row.
func RowMeans(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Row, meanAccumulator{})
}

// ColMeans returns the arithmetic mean of each column.
func ColMeans(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Column, meanAccumulator{})
}

// RowVariances returns the sample variance (Bessel-corrected) of each row.
func RowVariances(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Row, varianceAccumulator{})
}

// ColVariances returns the sample variance (Bessel-corrected) of each
// column.
func ColVariances(m tatami.Matrix[float64, int]) ([]float64, error) {
	return reduce(m, tatami.Column, varianceAccumulator{})
}

// accumulator folds one target-dimension slice (dense values plus an
// implicit zero count for the sparse path) into a single statistic.
type accumulator interface {
	// fold absorbs nnz explicit values and an additional zeroCount
	// implicit zeros, and returns the resulting statistic.
	fold(values []float64, zeroCount int) float64
}

type sumAccumulator struct{}

func (sumAccumulator) fold(values []float64, zeroCount int) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum
}

type meanAccumulator struct{}

func (meanAccumulator) fold(values []float64, zeroCount int) float64 {
	n := len(values) + zeroCount
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(n)
}

// varianceAccumulator applies Welford's online algorithm over the
// explicit values, then streams the remaining implicit zeros through the
// same update one at a time so the result matches visiting every cell of
// the dense equivalent in some order.
type varianceAccumulator struct{}

func (varianceAccumulator) fold(values []float64, zeroCount int) float64 {
	var mean, m2 float64
	var count int

	for _, v := range values {
		count++
		delta := v - mean
		mean += delta / float64(count)
		m2 += delta * (v - mean)
	}

	for zeroCount > 0 {
		count++
		delta := 0 - mean
		mean += delta / float64(count)
		m2 += delta * (0 - mean)
		zeroCount--
	}

	if count < 2 {
		return 0
	}

	return m2 / float64(count-1)
}

// reduce drives m through its preferred extractor (sparse when
// IsSparse, dense otherwise) along axis, folding each target-dimension
// slice with acc.
func reduce(m tatami.Matrix[float64, int], axis tatami.Axis, acc accumulator) ([]float64, error) {
	targetLen := m.NumRows()
	if axis == tatami.Column {
		targetLen = m.NumCols()
	}

	out := make([]float64, targetLen)

	if m.IsSparse() {
		extractor, err := m.Sparse(axis, tatami.FullSelection[int](), tatami.NewOptions())
		if err != nil {
			return nil, err
		}
		length := extractor.ExtractedLength()
		vbuf := make([]float64, length)
		ibuf := make([]int, length)
		for t := 0; t < targetLen; t++ {
			raw, err := extractor.Fetch(t, vbuf, ibuf)
			if err != nil {
				return nil, err
			}
			out[t] = acc.fold(raw.Values[:raw.N], length-raw.N)
		}

		return out, nil
	}

	extractor, err := m.Dense(axis, tatami.FullSelection[int](), tatami.NewOptions())
	if err != nil {
		return nil, err
	}
	buf := make([]float64, extractor.ExtractedLength())
	for t := 0; t < targetLen; t++ {
		raw, err := extractor.FetchCopy(t, buf)
		if err != nil {
			return nil, err
		}
		out[t] = acc.fold(raw, 0)
	}

	return out, nil
}
