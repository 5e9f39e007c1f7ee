// Package score computes weighted confidence signals for candidate pairs.
//
// Scoring is split into two pure phases so thresholds can change without a
// rescan: Measure extracts raw facts from a record pair (distances, name
// similarity, timestamp deltas), and Score maps those facts through the
// configured thresholds and weights into signals, penalties, and an aggregate
// confidence. Measurements are serializable; the re-rank path replays stored
// measurements through Score alone.
//
// Signals and penalties are mutually exclusive per key: a signal that cannot
// be computed becomes a penalty, never a zero-weight signal. The verdict
// boundaries (pass above 0.3, warn above 0.1, fail otherwise, penalties
// always fail) are a compatibility contract with the evidence consumer and
// must not drift.
package score
