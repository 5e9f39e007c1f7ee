// Package candidate turns per-bucket neighbor indexes into a deduplicated
// list of unordered record pairs worth scoring.
//
// Each hashed file queries its own bucket's index plus the next size-class
// index of the same media type, so files straddling a size-band edge still
// meet; only the lower class queries upward, which keeps every cross-bucket
// pair unique. Video files contribute one index entry per keyframe and
// collapse back to a single pair per file couple — the scorer applies the
// max-aligned-frame rule. Files without a perceptual hash are paired linearly
// within their bucket so checksum, name, and metadata evidence still gets a
// chance.
package candidate
