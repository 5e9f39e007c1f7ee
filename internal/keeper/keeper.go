package keeper

import (
	"sort"

	"mediadup/internal/media"
)

// Ranker orders duplicate-group members by retention quality.
type Ranker struct {
	formatRank map[string]int
}

// NewRanker builds a ranker from a best-first extension preference list.
func NewRanker(formatPreference []string) *Ranker {
	rank := make(map[string]int, len(formatPreference))
	for idx, ext := range formatPreference {
		if _, ok := rank[ext]; !ok {
			rank[ext] = idx
		}
	}
	return &Ranker{formatRank: rank}
}

// Suggest returns the ID of the member to keep. Empty input yields "".
func (r *Ranker) Suggest(members []media.FileRecord) string {
	if len(members) == 0 {
		return ""
	}
	ranked := r.Rank(members)
	return ranked[0].ID
}

// Rank returns the members ordered best-keeper-first without mutating the
// input.
func (r *Ranker) Rank(members []media.FileRecord) []media.FileRecord {
	ranked := make([]media.FileRecord, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.less(ranked[i], ranked[j])
	})
	return ranked
}

// less reports whether a is the better keeper. Each criterion only applies
// when both sides carry the data it needs; otherwise the cascade falls
// through.
func (r *Ranker) less(a, b media.FileRecord) bool {
	if areaA, areaB := a.PixelArea(), b.PixelArea(); areaA > 0 && areaB > 0 && areaA != areaB {
		return areaA > areaB
	}
	if a.Bitrate > 0 && b.Bitrate > 0 && a.Bitrate != b.Bitrate {
		return a.Bitrate > b.Bitrate
	}

	if rankA, rankB := r.formatValue(a), r.formatValue(b); rankA != rankB {
		return rankA < rankB
	}

	if richA, richB := metadataRichness(a), metadataRichness(b); richA != richB {
		return richA > richB
	}

	if a.CaptureTime != nil && b.CaptureTime != nil && !a.CaptureTime.Equal(*b.CaptureTime) {
		return a.CaptureTime.Before(*b.CaptureTime)
	}

	return a.ID < b.ID
}

func (r *Ranker) formatValue(record media.FileRecord) int {
	if rank, ok := r.formatRank[record.Extension()]; ok {
		return rank
	}
	return len(r.formatRank)
}

func metadataRichness(record media.FileRecord) int {
	richness := 0
	if record.CaptureTime != nil {
		richness++
	}
	if record.HasGPS {
		richness++
	}
	return richness
}
