package tatami

// DenseExtractor produces one target-dimension slice per Fetch call, in
// dense form. Repeated calls with the same target index must produce
// byte-identical output; the returned storage is valid only until the
// next call on this extractor.
type DenseExtractor[V Number] interface {
	// ExtractedLength is the length of the slice Fetch returns: the
	// non-target extent for Full, Length for Block, len(Indices) for
	// Index.
	ExtractedLength() int

	// Fetch returns ExtractedLength() contiguous values in non-target
	// order for the given target index. buffer must have capacity >=
	// ExtractedLength(); the returned slice MAY share buffer's backing
	// array (a copy was written) or point into backend-owned storage
	// (zero-copy) — callers must not assume either. The result is valid
	// only until the next Fetch/FetchCopy call on this extractor.
	Fetch(target int, buffer []V) ([]V, error)

	// FetchCopy always populates buffer (a convenience wrapper around
	// Fetch for callers that need a stable, owned result).
	FetchCopy(target int, buffer []V) ([]V, error)

	// SetOracle installs (or, with nil, removes) a prediction source.
	// Never changes the result of Fetch, only its cost.
	SetOracle(o Oracle)
}

// SparseExtractor produces one target-dimension slice per Fetch call, in
// sparse form. The number of entries returned never exceeds
// ExtractedLength(); if Options.SparseOrderedIndex was set at
// construction, indices come back strictly increasing.
type SparseExtractor[V Number, I Integer] interface {
	// ExtractedLength mirrors DenseExtractor.ExtractedLength.
	ExtractedLength() int

	// Fetch returns the structural non-zeros of the target-dimension
	// slice. vbuffer and ibuffer must each have capacity >=
	// ExtractedLength(); the returned Values/Indices slices may alias
	// them or point into backend storage. Values is nil iff values were
	// not requested at construction; Indices is nil iff indices were
	// not requested. Returned indices, when present, lie within the
	// selection.
	Fetch(target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error)

	// SetOracle mirrors DenseExtractor.SetOracle.
	SetOracle(o Oracle)
}

// FetchCopy is the sparse analogue of DenseExtractor.FetchCopy: a
// convenience wrapper that always populates the caller's buffers, named
// as a free function because SparseExtractor already returns owned-or-
// aliased slices and adding a method to the interface would force every
// implementation to duplicate this trivial copy.
func FetchCopy[V Number, I Integer](e SparseExtractor[V, I], target int, vbuffer []V, ibuffer []I) (SparseRange[V, I], error) {
	raw, err := e.Fetch(target, vbuffer, ibuffer)
	if err != nil {
		return SparseRange[V, I]{}, err
	}

	out := SparseRange[V, I]{N: raw.N}
	if raw.Values != nil {
		if !sameBacking(vbuffer, raw.Values) {
			copy(vbuffer[:raw.N], raw.Values)
		}
		out.Values = vbuffer[:raw.N]
	}
	if raw.Indices != nil {
		if !sameBackingIdx(ibuffer, raw.Indices) {
			copy(ibuffer[:raw.N], raw.Indices)
		}
		out.Indices = ibuffer[:raw.N]
	}

	return out, nil
}

func sameBacking[V Number](a, b []V) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

func sameBackingIdx[I Integer](a, b []I) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
