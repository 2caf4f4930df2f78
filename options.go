// SPDX-License-Identifier: MIT

// Package tatami: functional configuration for extractor construction.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors,
//   - NewOptions resolver.
//
// Design goals mirror the rest of the package: deterministic behaviour, no
// global state, safe-by-construction (no silent misconfiguration), and a
// single documented source of truth for every default.
package tatami

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultSparseExtractValue controls whether sparse extractors load
	// values by default.
	DefaultSparseExtractValue = true

	// DefaultSparseExtractIndex controls whether sparse extractors load
	// indices by default.
	DefaultSparseExtractIndex = true

	// DefaultSparseOrderedIndex requires strictly increasing indices by
	// default.
	DefaultSparseOrderedIndex = true

	// DefaultCacheForReuse disables per-target memoisation by default; it
	// is purely an optimisation hint and never changes observable output.
	DefaultCacheForReuse = false
)

// Option mutates an Options value. Safe to apply repeatedly.
type Option func(*Options)

// Options holds the recognised extractor-construction knobs: whether to
// extract values and/or indices from a sparse fetch, whether those
// indices must come back ordered, and whether the extractor may memoise
// per-target auxiliary state because the caller promises to revisit the
// same target indices.
type Options struct {
	SparseExtractValue bool
	SparseExtractIndex bool
	SparseOrderedIndex bool
	CacheForReuse      bool
}

// WithSparseExtractValue toggles whether sparse Fetch calls populate the
// value buffer. Set to false to skip the value load entirely when only
// structure is needed.
func WithSparseExtractValue(extract bool) Option {
	return func(o *Options) { o.SparseExtractValue = extract }
}

// WithSparseExtractIndex toggles whether sparse Fetch calls populate the
// index buffer.
func WithSparseExtractIndex(extract bool) Option {
	return func(o *Options) { o.SparseExtractIndex = extract }
}

// WithSparseOrderedIndex toggles whether sparse Fetch must return indices
// in strictly increasing order. Disabling this is purely a cost
// optimisation: it must never add or drop entries.
func WithSparseOrderedIndex(ordered bool) Option {
	return func(o *Options) { o.SparseOrderedIndex = ordered }
}

// WithCacheForReuse hints that the same extractor will be Fetch-ed with the
// same target indices again, so an implementation may memoise per-target
// auxiliary state (e.g. a resolved lower-bound pointer in the compressed
// sparse primary extractor). Never changes observable output.
func WithCacheForReuse(reuse bool) Option {
	return func(o *Options) { o.CacheForReuse = reuse }
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() Options {
	return Options{
		SparseExtractValue: DefaultSparseExtractValue,
		SparseExtractIndex: DefaultSparseExtractIndex,
		SparseOrderedIndex: DefaultSparseOrderedIndex,
		CacheForReuse:      DefaultCacheForReuse,
	}
}

// NewOptions resolves option setters against the documented defaults.
// Last-writer-wins for repeated setters targeting the same field.
func NewOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, set := range opts {
		set(&o)
	}

	return o
}
