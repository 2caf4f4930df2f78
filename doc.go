// Package tatami defines a uniform, abstract protocol for reading
// two-dimensional numeric matrices one row or column at a time, regardless
// of whether the underlying representation is dense or sparse, in-memory
// or delayed.
//
// 🚀 What is tatami-go?
//
//	A header-free, allocation-conscious library that brings together:
//
//	  • Extractors: stateful, single-threaded iterators over rows/columns
//	  • Backends: DenseMatrix (row- or column-major) and
//	    CompressedSparseMatrix (CSR/CSC), plus a SemiCompressedSparseMatrix
//	    variant that stores run-length-encoded indices instead of values
//	  • Delayed wrappers: Cast, Transpose, and unary isometric operations
//	    that compose without ever materialising the whole matrix
//
// ✨ Why this shape?
//
//   - Uniform    — one Matrix[V, I] interface for every storage layout
//   - Selective  — Full, Block, and Index selections restrict the
//     non-target dimension without extra copies
//   - Oracular   — callers may register an Oracle so backends can
//     prefetch without changing observable output
//
// Subpackages (github.com/tatami-go/tatami/...) build on this protocol:
// stats (per-dimension reductions), opselementwise (binary isometric
// operations), bind (row/column binding), subset (arbitrary index
// permutation), and market (a Matrix Market file reader).
package tatami
