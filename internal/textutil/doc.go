// Package textutil provides filename normalization and similarity scoring for
// the name confidence signal.
//
// Filenames are Unicode-normalized and case-folded, stripped of extensions
// and copy-variant suffixes ("(1)", " copy", "- Copy 2"), then tokenized into
// term-frequency fingerprints compared by cosine similarity. Fingerprints are
// cheap to build and the comparison is symmetric, so the score can be
// recomputed freely during re-ranking.
package textutil
