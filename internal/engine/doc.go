// Package engine orchestrates the duplicate-detection pipeline: bucketing,
// neighbor-index construction, candidate generation, pairwise scoring,
// clustering, and keeper ranking.
//
// Index builds run in parallel across buckets and pair scoring fans out over
// a bounded errgroup worker pool; all union-find mutation happens in a single
// reducer goroutine. The worker budget adapts to a caller-supplied resource
// pressure hint, degrading toward sequential execution rather than failing.
// Cancellation is honored between buckets and between scoring batches.
//
// Scan returns both the result and a serializable snapshot of raw pair
// measurements; Rerank replays a snapshot through new thresholds without
// re-hashing or re-indexing.
package engine
