package tatami

// ToDense materialises any Matrix into a row-major DenseMatrix by running
// its row extractor over every row. Intended for small matrices, tests,
// and as a fallback reader for backends that don't warrant a bespoke
// dense path.
func ToDense[V Number, I Integer](m Matrix[V, I]) (*DenseMatrix[V, I], error) {
	rows, cols := m.NumRows(), m.NumCols()

	extractor, err := m.Dense(Row, FullSelection[I](), NewOptions())
	if err != nil {
		return nil, tatamiErrorf("ToDense", err)
	}

	data := make([]V, rows*cols)
	buf := make([]V, cols)
	for r := 0; r < rows; r++ {
		row, err := extractor.FetchCopy(r, buf)
		if err != nil {
			return nil, tatamiErrorf("ToDense", err)
		}
		copy(data[r*cols:(r+1)*cols], row)
	}

	return NewDenseMatrixRowMajor[V, I](rows, cols, data)
}
