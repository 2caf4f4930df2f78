package tatami

// Integer bounds the types usable as the non-target-dimension index type
// `I` of a Matrix[V, I]. Extractors keep these narrow so that large sparse
// structures (millions of stored non-zeros) don't pay for a full-width int
// per index; callers needing platform-width indices simply instantiate with
// I = int.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Number bounds the types usable as the value type `V` of a Matrix[V, I].
// It is every Integer plus the floating-point kinds, which covers every
// concrete element type the delayed wrappers (Cast in particular) need to
// convert between.
type Number interface {
	Integer | ~float32 | ~float64
}
