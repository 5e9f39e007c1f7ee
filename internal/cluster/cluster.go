package cluster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"mediadup/internal/bucket"
	"mediadup/internal/config"
	"mediadup/internal/media"
	"mediadup/internal/score"
)

// Decision classifies what the clustering engine does with a scored pair.
type Decision string

const (
	// DecisionDuplicate merges the pair into one group.
	DecisionDuplicate Decision = "duplicate"
	// DecisionSimilar tags a borderline pair that failed secondary
	// confirmation; retained for review, never grouped.
	DecisionSimilar Decision = "similar-not-duplicate"
	// DecisionNone discards the pair.
	DecisionNone Decision = "none"
)

// Decide applies the grouping gates to one scored pair.
func Decide(m score.PairMeasurement, s score.PairScore, thresholds config.Thresholds) Decision {
	if m.ChecksumEqual {
		return DecisionDuplicate
	}

	if m.HashDistance == nil {
		// Metadata-only route for files missing their hash.
		if s.Confidence >= thresholds.DupThreshold {
			return DecisionDuplicate
		}
		return DecisionNone
	}

	dist := *m.HashDistance
	primary := score.PrimaryDistance(m.MediaType, thresholds)
	if dist <= primary && s.Confidence >= thresholds.DupThreshold {
		return DecisionDuplicate
	}
	if dist >= thresholds.ConfirmBandLower && dist <= thresholds.ConfirmBandUpper {
		if m.ConfirmDistance != nil && *m.ConfirmDistance <= thresholds.ConfirmHashDistance {
			return DecisionDuplicate
		}
		return DecisionSimilar
	}
	return DecisionNone
}

// Member is one file inside a duplicate group with its best supporting
// evidence.
type Member struct {
	Ordinal    int             `json:"-"`
	FileID     string          `json:"fileId"`
	Confidence float64         `json:"confidence"`
	Signals    []score.Signal  `json:"signals"`
	Penalties  []score.Penalty `json:"penalties"`
	Rationale  []string        `json:"rationale"`
	FileSize   int64           `json:"fileSize"`
}

// Group is one finalized equivalence class of two or more members.
type Group struct {
	ID             string          `json:"groupId"`
	MediaType      media.MediaType `json:"mediaType"`
	Members        []Member        `json:"members"`
	Confidence     float64         `json:"confidence"`
	RationaleLines []string        `json:"rationaleLines"`
	// KeeperSuggestion is filled by the keeper ranker; empty until then.
	KeeperSuggestion string `json:"keeperSuggestion,omitempty"`
	Incomplete       bool   `json:"incomplete"`
}

// SimilarPair records a borderline pair excluded from grouping.
type SimilarPair struct {
	FileA           string `json:"fileA"`
	FileB           string `json:"fileB"`
	Distance        int    `json:"distance"`
	ConfirmDistance *int   `json:"confirmDistance,omitempty"`
}

// ErrFinalized guards the builder against use after Finalize.
var ErrFinalized = errors.New("cluster: builder already finalized")

type acceptedPair struct {
	measurement score.PairMeasurement
	pairScore   score.PairScore
}

// Builder accumulates grouping decisions for one scan. It is not safe for
// concurrent use; the engine funnels all observations through one goroutine.
type Builder struct {
	records    []media.FileRecord
	thresholds config.Thresholds
	groupRule  string

	uf        *UnionFind
	accepted  []acceptedPair
	checksums []bucket.ChecksumGroup
	similar   []SimilarPair
	finalized bool
}

// NewBuilder prepares a builder over the scan's record slice. groupRule is
// the group confidence aggregation ("min" or "max").
func NewBuilder(records []media.FileRecord, thresholds config.Thresholds, groupRule string) *Builder {
	return &Builder{
		records:    records,
		thresholds: thresholds,
		groupRule:  groupRule,
		uf:         NewUnionFind(len(records)),
	}
}

// AddChecksumGroup unions an exact-checksum group wholesale.
func (b *Builder) AddChecksumGroup(group bucket.ChecksumGroup) error {
	if b.finalized {
		return ErrFinalized
	}
	b.checksums = append(b.checksums, group)
	for _, ordinal := range group.Ordinals[1:] {
		b.uf.Union(group.Ordinals[0], ordinal)
	}
	return nil
}

// Observe applies the grouping decision for one scored pair and returns it.
func (b *Builder) Observe(m score.PairMeasurement, s score.PairScore) (Decision, error) {
	if b.finalized {
		return DecisionNone, ErrFinalized
	}
	decision := Decide(m, s, b.thresholds)
	switch decision {
	case DecisionDuplicate:
		b.uf.Union(m.A, m.B)
		b.accepted = append(b.accepted, acceptedPair{measurement: m, pairScore: s})
	case DecisionSimilar:
		pair := SimilarPair{
			FileA:           b.records[m.A].ID,
			FileB:           b.records[m.B].ID,
			ConfirmDistance: m.ConfirmDistance,
		}
		if m.HashDistance != nil {
			pair.Distance = *m.HashDistance
		}
		b.similar = append(b.similar, pair)
	}
	return decision, nil
}

// Finalize resolves equivalence classes into groups. Classes with fewer than
// two members are dropped. The builder cannot be reused afterwards.
func (b *Builder) Finalize() ([]Group, []SimilarPair, error) {
	if b.finalized {
		return nil, nil, ErrFinalized
	}
	b.finalized = true

	classes := make(map[int][]int)
	for ordinal := range b.records {
		root := b.uf.Find(ordinal)
		classes[root] = append(classes[root], ordinal)
	}

	best := b.bestPairEvidence()

	groups := make([]Group, 0, len(classes))
	for _, ordinals := range classes {
		if len(ordinals) < 2 {
			continue
		}
		groups = append(groups, b.assembleGroup(ordinals, best))
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Members[0].FileID < groups[j].Members[0].FileID
	})

	sort.Slice(b.similar, func(i, j int) bool {
		if b.similar[i].FileA != b.similar[j].FileA {
			return b.similar[i].FileA < b.similar[j].FileA
		}
		return b.similar[i].FileB < b.similar[j].FileB
	})
	return groups, b.similar, nil
}

// bestPairEvidence picks, per ordinal, the accepted pair with the highest
// confidence (ties broken by the partner's file ID) as that member's
// presented evidence.
func (b *Builder) bestPairEvidence() map[int]acceptedPair {
	best := make(map[int]acceptedPair)
	better := func(candidate acceptedPair, partner int, current acceptedPair, currentPartner int) bool {
		if candidate.pairScore.Confidence != current.pairScore.Confidence {
			return candidate.pairScore.Confidence > current.pairScore.Confidence
		}
		return b.records[partner].ID < b.records[currentPartner].ID
	}

	partnerOf := make(map[int]int)
	consider := func(ordinal, partner int, pair acceptedPair) {
		current, ok := best[ordinal]
		if !ok || better(pair, partner, current, partnerOf[ordinal]) {
			best[ordinal] = pair
			partnerOf[ordinal] = partner
		}
	}

	for _, pair := range b.accepted {
		consider(pair.measurement.A, pair.measurement.B, pair)
		consider(pair.measurement.B, pair.measurement.A, pair)
	}

	for _, group := range b.checksums {
		synthetic := acceptedPair{
			pairScore: score.PairScore{
				Confidence: 1.0,
				Signals: []score.Signal{{
					Key:          score.KindChecksum,
					Weight:       1.0,
					RawScore:     1.0,
					Contribution: 1.0,
					Rationale:    "checksums match exactly",
					Measured:     "exact match",
				}},
				Rationale: []string{"checksums match exactly"},
			},
		}
		for _, ordinal := range group.Ordinals {
			consider(ordinal, group.Representative, synthetic)
		}
	}
	return best
}

func (b *Builder) assembleGroup(ordinals []int, best map[int]acceptedPair) Group {
	sort.Slice(ordinals, func(i, j int) bool {
		return b.records[ordinals[i]].ID < b.records[ordinals[j]].ID
	})

	group := Group{MediaType: b.records[ordinals[0]].MediaType}
	ids := make([]string, 0, len(ordinals))
	rationale := make(map[string]struct{})

	for _, ordinal := range ordinals {
		record := b.records[ordinal]
		member := Member{
			Ordinal:  ordinal,
			FileID:   record.ID,
			FileSize: record.FileSize,
		}
		if evidence, ok := best[ordinal]; ok {
			member.Confidence = evidence.pairScore.Confidence
			member.Signals = evidence.pairScore.Signals
			member.Penalties = evidence.pairScore.Penalties
			member.Rationale = evidence.pairScore.Rationale
			if evidence.measurement.PartialExtraction {
				group.Incomplete = true
			}
		}
		if record.Partial {
			group.Incomplete = true
		}
		for _, line := range member.Rationale {
			rationale[line] = struct{}{}
		}
		ids = append(ids, record.ID)
		group.Members = append(group.Members, member)
	}

	group.ID = groupID(ids)
	group.Confidence = b.aggregateConfidence(group.Members)
	if group.Incomplete {
		rationale["extraction was partial for at least one member"] = struct{}{}
	}
	group.RationaleLines = sortedLines(rationale)
	return group
}

func (b *Builder) aggregateConfidence(members []Member) float64 {
	if len(members) == 0 {
		return 0
	}
	agg := members[0].Confidence
	for _, member := range members[1:] {
		switch b.groupRule {
		case "max":
			if member.Confidence > agg {
				agg = member.Confidence
			}
		default: // min
			if member.Confidence < agg {
				agg = member.Confidence
			}
		}
	}
	return agg
}

// groupID derives a stable UUID from the sorted member IDs so repeated runs
// over identical input emit identical groups.
func groupID(memberIDs []string) string {
	payload := "mediadup-group:" + strings.Join(memberIDs, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(payload)).String()
}

func sortedLines(set map[string]struct{}) []string {
	lines := make([]string, 0, len(set))
	for line := range set {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// Describe renders a one-line summary used in logs.
func (g Group) Describe() string {
	return fmt.Sprintf("group %s: %d members, confidence %.2f", g.ID[:8], len(g.Members), g.Confidence)
}
