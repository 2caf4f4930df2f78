package tatami

// Oracle is a read-only sequence of future target indices a client
// promises to request, in order. Predict(n) yields up to n next indices;
// an extractor may use them to prefetch. Supplying an oracle never
// changes the observable output of Fetch, only its cost.
type Oracle interface {
	// Predict returns up to n upcoming target indices. The returned slice
	// may be shorter than n (e.g. near the end of an iteration) but is
	// never longer.
	Predict(n int) []int
}

// FixedOracle predicts from a known, pre-computed sequence of target
// indices.
type FixedOracle struct {
	reference []int
	counter   int
}

// NewFixedOracle wraps a caller-owned sequence of future target indices.
// The slice is kept (not copied) and never mutated; Predict returns
// sub-slices of it.
func NewFixedOracle(reference []int) *FixedOracle {
	return &FixedOracle{reference: reference}
}

// Predict implements Oracle.
func (o *FixedOracle) Predict(n int) []int {
	upto := o.counter + n
	if upto > len(o.reference) {
		upto = len(o.reference)
	}
	out := o.reference[o.counter:upto]
	o.counter = upto

	return out
}

// ConsecutiveOracle predicts a running consecutive range [start, end).
type ConsecutiveOracle struct {
	end     int
	counter int
	buffer  []int
}

// NewConsecutiveOracle predicts the consecutive sequence start, start+1,
// ..., end-1.
func NewConsecutiveOracle(start, end int) *ConsecutiveOracle {
	return &ConsecutiveOracle{end: end, counter: start}
}

// Predict implements Oracle.
func (o *ConsecutiveOracle) Predict(n int) []int {
	upto := o.counter + n
	if upto > o.end {
		upto = o.end
	}
	length := upto - o.counter
	if length < 0 {
		length = 0
	}
	if cap(o.buffer) < length {
		o.buffer = make([]int, length)
	} else {
		o.buffer = o.buffer[:length]
	}
	for k := 0; k < length; k++ {
		o.buffer[k] = o.counter + k
	}
	o.counter = upto

	return o.buffer
}
