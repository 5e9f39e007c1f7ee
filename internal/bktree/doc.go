// Package bktree implements the per-bucket neighbor index: a BK-tree over
// 64-bit perceptual hash codes under Hamming distance.
//
// Queries are exact. For any code set and radius, Query returns precisely the
// entries a brute-force scan would — the triangle-inequality pruning cuts
// work, never results. Nodes live in a flat arena addressed by index, built
// once per scan and frozen before any query runs; queries may then proceed
// concurrently.
//
// Buckets larger than a configured ceiling degrade to a linear scan (the tree
// stops paying for itself on pathological near-identical code sets); Build
// reports the degradation so the engine can log it. Both forms count code
// comparisons so the pipeline can verify it stays far below the naive
// quadratic bound.
package bktree
