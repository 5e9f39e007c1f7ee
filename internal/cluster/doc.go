// Package cluster merges scored candidate pairs into duplicate groups using
// union-find with path compression and union by rank.
//
// Pairs clear one of three gates: an exact checksum match, a hash distance
// within the primary threshold with sufficient aggregate confidence, or a
// borderline-band distance confirmed by the secondary hash. Band pairs that
// fail confirmation are tagged similar-not-duplicate and kept for review
// logging; they never join a group.
//
// The Builder is the single-writer reducer for a scan: scoring may fan out,
// but every Observe lands here sequentially. Finalize snapshots equivalence
// classes of two or more members into groups with deterministic membership,
// member order, and group IDs, so identical input always yields identical
// output.
package cluster
