// Package bucket partitions file records into disjoint coarse buckets before
// any distance computation runs.
//
// Exact-checksum groups short-circuit first: their members are confirmed
// duplicates without scoring, and only one representative per group continues
// into hash-based bucketing so near-duplicates can still attach to the group.
// Remaining files are keyed by (media type, size class), where size classes
// are log-quantized bands of the configured tolerance. Files missing their
// perceptual hash stay in their bucket but are flagged so the neighbor index
// skips them.
//
// Partitioning is pure: no bucket spans media types and no file appears in
// two buckets.
package bucket
