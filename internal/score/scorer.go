package score

import (
	"fmt"
	"math"

	"mediadup/internal/config"
	"mediadup/internal/media"
)

// Score maps a measurement through thresholds and weights into signals,
// penalties, and an aggregate confidence. Pure and deterministic; the same
// measurement and configuration always produce the same score.
func Score(m PairMeasurement, thresholds config.Thresholds, weights config.Weights) PairScore {
	// Equal checksums short-circuit: byte-identical content needs no
	// corroborating evidence.
	if m.ChecksumEqual {
		signal := Signal{
			Key:          KindChecksum,
			Weight:       weights.Checksum,
			RawScore:     1.0,
			Contribution: weights.Checksum,
			Rationale:    "checksums match exactly",
			Measured:     "exact match",
		}
		return PairScore{
			Confidence: 1.0,
			Signals:    []Signal{signal},
			Rationale:  []string{signal.Rationale},
		}
	}

	var result PairScore

	if m.ChecksumPresent {
		result.addSignal(Signal{
			Key:       KindChecksum,
			Weight:    weights.Checksum,
			RawScore:  0,
			Rationale: "checksums differ",
			Measured:  "mismatch",
		})
	} else {
		result.addPenalty(Penalty{
			Key:       "checksumMissing",
			Signal:    KindChecksum,
			Value:     weights.ChecksumMissingPenalty,
			Rationale: "checksum unavailable for at least one file",
		})
	}

	scoreHash(&result, m, thresholds, weights)

	if m.NameSimilarity != nil {
		result.addSignal(Signal{
			Key:       KindName,
			Weight:    weights.Name,
			RawScore:  clamp01(*m.NameSimilarity),
			Rationale: fmt.Sprintf("filename similarity %.2f", *m.NameSimilarity),
			Measured:  fmt.Sprintf("%.0f%%", clamp01(*m.NameSimilarity)*100),
		})
	}

	if m.CaptureDeltaSeconds != nil {
		raw := captureDecay(*m.CaptureDeltaSeconds, thresholds)
		result.addSignal(Signal{
			Key:       KindCaptureTime,
			Weight:    weights.CaptureTime,
			RawScore:  raw,
			Rationale: fmt.Sprintf("capture time delta %.0fs", *m.CaptureDeltaSeconds),
			Measured:  fmt.Sprintf("%.0fs", *m.CaptureDeltaSeconds),
		})
	} else {
		result.addPenalty(Penalty{
			Key:       "captureTimeMissing",
			Signal:    KindCaptureTime,
			Value:     weights.CaptureTimeMissingPenalty,
			Rationale: "capture timestamp unavailable for at least one file",
		})
	}

	if m.MediaType == media.TypeVideo {
		if m.DurationDeltaRatio != nil {
			raw := durationDecay(*m.DurationDeltaRatio, thresholds.DurationTolerancePct)
			result.addSignal(Signal{
				Key:       KindDuration,
				Weight:    weights.Duration,
				RawScore:  raw,
				Rationale: fmt.Sprintf("duration delta %.1f%% of longer clip", *m.DurationDeltaRatio*100),
				Measured:  fmt.Sprintf("%.1f%%", *m.DurationDeltaRatio*100),
			})
		} else {
			result.addPenalty(Penalty{
				Key:       "durationMissing",
				Signal:    KindDuration,
				Value:     weights.DurationMissingPenalty,
				Rationale: "duration unavailable for at least one file",
			})
		}
	}

	total := 0.0
	for _, signal := range result.Signals {
		total += signal.Contribution
	}
	for _, penalty := range result.Penalties {
		total += penalty.Value
	}
	result.Confidence = clamp01(total)
	sortSignals(result.Signals)

	result.Rationale = make([]string, 0, len(result.Signals)+len(result.Penalties))
	for _, signal := range result.Signals {
		result.Rationale = append(result.Rationale, signal.Rationale)
	}
	for _, penalty := range result.Penalties {
		result.Rationale = append(result.Rationale, penalty.Rationale)
	}
	return result
}

func scoreHash(result *PairScore, m PairMeasurement, thresholds config.Thresholds, weights config.Weights) {
	if m.HashDistance == nil {
		result.addPenalty(Penalty{
			Key:       "hashMissing",
			Signal:    KindHash,
			Value:     weights.HashMissingPenalty,
			Rationale: "perceptual hash unavailable for at least one file",
		})
		return
	}

	dist := *m.HashDistance
	raw := clamp01(1 - float64(dist)/float64(thresholds.HashScoreCeiling))
	rationale := fmt.Sprintf("dHash distance=%d", dist)
	if m.MediaType == media.TypeVideo {
		rationale = fmt.Sprintf("max aligned frame distance=%d over %d frames", dist, m.FramesCompared)
	}
	result.addSignal(Signal{
		Key:       KindHash,
		Weight:    weights.Hash,
		RawScore:  raw,
		Rationale: rationale,
		Measured:  fmt.Sprintf("%d", dist),
	})
}

// captureDecay scores 1.0 inside the reference window and decays linearly to
// zero at the configured zero point.
func captureDecay(deltaSeconds float64, thresholds config.Thresholds) float64 {
	window := float64(thresholds.CaptureWindowSeconds)
	zero := float64(thresholds.CaptureZeroSeconds)
	if deltaSeconds <= window {
		return 1.0
	}
	if deltaSeconds >= zero {
		return 0.0
	}
	return (zero - deltaSeconds) / (zero - window)
}

// durationDecay scores 1.0 when the delta ratio sits within tolerance and
// decays linearly to zero at five times the tolerance.
func durationDecay(ratio, tolerance float64) float64 {
	if tolerance <= 0 {
		if ratio == 0 {
			return 1.0
		}
		return 0.0
	}
	if ratio <= tolerance {
		return 1.0
	}
	zero := tolerance * 5
	if ratio >= zero {
		return 0.0
	}
	return (zero - ratio) / (zero - tolerance)
}

// PrimaryDistance returns the duplicate distance threshold for a media type.
func PrimaryDistance(mediaType media.MediaType, thresholds config.Thresholds) int {
	if mediaType == media.TypeVideo {
		return thresholds.VideoFrameDistance
	}
	return thresholds.ImageDistance
}

func (p *PairScore) addSignal(signal Signal) {
	signal.RawScore = clamp01(signal.RawScore)
	signal.Contribution = signal.Weight * signal.RawScore
	p.Signals = append(p.Signals, signal)
}

// addPenalty records the penalty even at a zero configured value so missing
// signals always surface in rationale.
func (p *PairScore) addPenalty(penalty Penalty) {
	p.Penalties = append(p.Penalties, penalty)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
