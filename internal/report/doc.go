// Package report persists scan results and their re-rankable snapshots in
// SQLite.
//
// The engine itself holds no state across scans; this store is the caller
// side of the output contract, keeping DuplicateGroupResult snapshots so the
// CLI can show past scans and re-rank them under new thresholds without
// re-scanning. Group payloads are stored as JSON columns; relational columns
// exist only for listing and lookup.
//
// An advisory file lock serializes writers: two concurrent scans against the
// same report database fail fast instead of interleaving.
package report
