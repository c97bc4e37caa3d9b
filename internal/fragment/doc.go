// Package fragment injects externally stored HTML fragments into the named
// containers of a document.
//
// A Loader handles one Request at a time with Load, or a whole manifest with
// LoadAll. Two strategies exist:
//
//	Concurrent  - every fetch is issued without waiting on the others;
//	              LoadAll returns once all of them settled.
//	Sequential  - each request, DOM write included, finishes before the
//	              next one starts. Opt-in, for hosts that cannot overlap
//	              retrievals.
//
// Failures never escape a Loader as errors. Each failed request yields an
// Outcome in the Failed state and exactly one error record on the
// context's logger, and leaves its container untouched. Nothing is retried.
package fragment
