// Package evidence converts raw signals and penalties into the sorted,
// human-auditable item list the review surface consumes.
//
// The formatter is pure: member evidence lists each signal and penalty with
// unit-appropriate measurement and threshold text and the pinned
// pass/warn/fail verdict; group evidence folds every member's items into one
// de-duplicated list, keeping the maximum contribution per key. Rendering is
// the caller's problem — this package only shapes the data.
package evidence
