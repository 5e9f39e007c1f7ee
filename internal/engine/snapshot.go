package engine

import (
	"time"

	"mediadup/internal/bucket"
	"mediadup/internal/media"
	"mediadup/internal/score"
)

// Snapshot captures everything a re-rank needs: the immutable records, the
// raw per-pair measurements, and the checksum short-circuit groups. It is
// threshold-free by construction, so replaying it through different
// thresholds is sound.
type Snapshot struct {
	CreatedAt      time.Time               `json:"createdAt"`
	Records        []media.FileRecord      `json:"records"`
	ChecksumGroups []bucket.ChecksumGroup  `json:"checksumGroups,omitempty"`
	Measurements   []score.PairMeasurement `json:"measurements,omitempty"`
	// DegradedBuckets names buckets whose index fell back to linear scan.
	DegradedBuckets []string `json:"degradedBuckets,omitempty"`
}

// Stats summarizes one pipeline run.
type Stats struct {
	Files           int      `json:"files"`
	Buckets         int      `json:"buckets"`
	ChecksumGroups  int      `json:"checksumGroups"`
	CandidatePairs  int      `json:"candidatePairs"`
	SimilarPairs    int      `json:"similarPairs"`
	Comparisons     uint64   `json:"comparisons"`
	DegradedBuckets []string `json:"degradedBuckets,omitempty"`
	Workers         int      `json:"workers"`
}
