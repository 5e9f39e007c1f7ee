package score

import (
	"math"

	"mediadup/internal/media"
	"mediadup/internal/textutil"
)

// PairMeasurement holds the raw, threshold-independent facts about one
// candidate pair. It is serialized into scan snapshots so a re-rank can
// re-score without touching records or indexes.
type PairMeasurement struct {
	// A and B are record ordinals into the scan's record slice, A < B.
	A int `json:"a"`
	B int `json:"b"`

	MediaType media.MediaType `json:"mediaType"`

	ChecksumPresent bool `json:"checksumPresent"`
	ChecksumEqual   bool `json:"checksumEqual"`

	// HashDistance is nil when either side lacks a perceptual hash. For
	// video it is the maximum distance across aligned keyframes.
	HashDistance *int `json:"hashDistance,omitempty"`
	// FramesCompared counts aligned keyframes; FramesTruncated reports a
	// frame-count mismatch (comparison used the shorter list).
	FramesCompared  int  `json:"framesCompared,omitempty"`
	FramesTruncated bool `json:"framesTruncated,omitempty"`

	// ConfirmDistance is the secondary-hash distance when both sides carry
	// a confirmation hash.
	ConfirmDistance *int `json:"confirmDistance,omitempty"`

	// NameSimilarity is nil only when either filename is empty.
	NameSimilarity *float64 `json:"nameSimilarity,omitempty"`

	// CaptureDeltaSeconds is nil when either capture timestamp is missing.
	CaptureDeltaSeconds *float64 `json:"captureDeltaSeconds,omitempty"`

	// DurationDeltaRatio is |Δ| divided by the longer duration; video only,
	// nil when either duration is unknown.
	DurationDeltaRatio *float64 `json:"durationDeltaRatio,omitempty"`

	// PartialExtraction reports that either record was flagged partial
	// upstream; it propagates to the group's incomplete flag.
	PartialExtraction bool `json:"partialExtraction,omitempty"`
}

// Measure extracts the raw comparison facts for the records at ordinals a
// and b. Pure; records are never mutated.
func Measure(records []media.FileRecord, a, b int) PairMeasurement {
	if a > b {
		a, b = b, a
	}
	ra, rb := records[a], records[b]

	m := PairMeasurement{
		A:                 a,
		B:                 b,
		MediaType:         ra.MediaType,
		PartialExtraction: ra.Partial || rb.Partial,
	}

	if ra.Checksum != "" && rb.Checksum != "" {
		m.ChecksumPresent = true
		m.ChecksumEqual = ra.Checksum == rb.Checksum
	}

	measureHash(&m, ra, rb)

	if ra.ConfirmHash != nil && rb.ConfirmHash != nil {
		dist := ra.ConfirmHash.Distance(*rb.ConfirmHash)
		m.ConfirmDistance = &dist
	}

	if ra.FileName != "" && rb.FileName != "" {
		similarity := textutil.NameSimilarity(ra.FileName, rb.FileName)
		m.NameSimilarity = &similarity
	}

	if ra.CaptureTime != nil && rb.CaptureTime != nil {
		delta := math.Abs(ra.CaptureTime.Sub(*rb.CaptureTime).Seconds())
		m.CaptureDeltaSeconds = &delta
	}

	if ra.MediaType == media.TypeVideo && ra.Duration > 0 && rb.Duration > 0 {
		longer := ra.Duration
		if rb.Duration > longer {
			longer = rb.Duration
		}
		ratio := math.Abs((ra.Duration - rb.Duration).Seconds()) / longer.Seconds()
		m.DurationDeltaRatio = &ratio
	}

	return m
}

func measureHash(m *PairMeasurement, ra, rb media.FileRecord) {
	if ra.MediaType == media.TypeVideo {
		if len(ra.FrameHashes) == 0 || len(rb.FrameHashes) == 0 {
			return
		}
		frames := len(ra.FrameHashes)
		if len(rb.FrameHashes) < frames {
			frames = len(rb.FrameHashes)
		}
		maxDist := 0
		for i := 0; i < frames; i++ {
			if d := ra.FrameHashes[i].Distance(rb.FrameHashes[i]); d > maxDist {
				maxDist = d
			}
		}
		m.HashDistance = &maxDist
		m.FramesCompared = frames
		m.FramesTruncated = len(ra.FrameHashes) != len(rb.FrameHashes)
		if m.FramesTruncated {
			m.PartialExtraction = true
		}
		return
	}

	if ra.PerceptualHash == nil || rb.PerceptualHash == nil {
		return
	}
	dist := ra.PerceptualHash.Distance(*rb.PerceptualHash)
	m.HashDistance = &dist
}
