package score

import "sort"

// Kind discriminates the closed set of confidence signals. Adding a kind
// means extending the switch in Score; there is no dynamic dispatch.
type Kind string

const (
	KindChecksum    Kind = "checksum"
	KindHash        Kind = "hash"
	KindName        Kind = "name"
	KindCaptureTime Kind = "captureTime"
	KindDuration    Kind = "duration"
)

// Verdict classifies one evidence item for presentation.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Verdict boundaries are pinned by the evidence consumer: contribution above
// 0.3 passes, above 0.1 warns, otherwise fails; an active penalty on the key
// fails regardless of magnitude.
const (
	verdictPassAbove = 0.3
	verdictWarnAbove = 0.1
)

// VerdictFor maps a contribution to its verdict.
func VerdictFor(contribution float64, penalized bool) Verdict {
	switch {
	case penalized:
		return VerdictFail
	case contribution > verdictPassAbove:
		return VerdictPass
	case contribution > verdictWarnAbove:
		return VerdictWarn
	default:
		return VerdictFail
	}
}

// Signal is one weighted piece of matching evidence.
type Signal struct {
	Key          Kind    `json:"key"`
	Weight       float64 `json:"weight"`
	RawScore     float64 `json:"rawScore"`
	Contribution float64 `json:"contribution"`
	Rationale    string  `json:"rationale"`
	// Measured is the unit-appropriate measurement text the evidence
	// formatter presents ("5", "87%", "130s").
	Measured string `json:"measured,omitempty"`
}

// Penalty is the negative counterpart emitted when a signal's inputs are
// missing. Key is the penalty discriminator ("hashMissing"); Signal names the
// signal kind it displaces.
type Penalty struct {
	Key       string  `json:"key"`
	Signal    Kind    `json:"signal"`
	Value     float64 `json:"value"`
	Rationale string  `json:"rationale"`
}

// PairScore aggregates the evidence for one candidate pair.
type PairScore struct {
	Confidence float64   `json:"confidence"`
	Signals    []Signal  `json:"signals"`
	Penalties  []Penalty `json:"penalties"`
	Rationale  []string  `json:"rationale"`
}

// Penalized reports whether kind carries an active penalty.
func (p PairScore) Penalized(kind Kind) bool {
	for _, penalty := range p.Penalties {
		if penalty.Signal == kind {
			return true
		}
	}
	return false
}

// sortSignals orders signals by contribution descending for presentation,
// breaking ties by key so output is stable.
func sortSignals(signals []Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].Contribution != signals[j].Contribution {
			return signals[i].Contribution > signals[j].Contribution
		}
		return signals[i].Key < signals[j].Key
	})
}
