package evidence

import (
	"fmt"
	"sort"

	"mediadup/internal/cluster"
	"mediadup/internal/config"
	"mediadup/internal/media"
	"mediadup/internal/score"
)

// Item is one row of the evidence list shown to reviewers. Penalty-derived
// items carry a "penalty_" prefixed ID and always fail.
type Item struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	DistanceText  string        `json:"distanceText"`
	ThresholdText string        `json:"thresholdText"`
	Verdict       score.Verdict `json:"verdict"`
	Contribution  float64       `json:"contribution"`
}

var signalLabels = map[score.Kind]string{
	score.KindChecksum:    "Checksum",
	score.KindHash:        "Perceptual hash",
	score.KindName:        "Filename similarity",
	score.KindCaptureTime: "Capture time",
	score.KindDuration:    "Duration",
}

// ForMember formats one member's signals and penalties.
func ForMember(member cluster.Member, mediaType media.MediaType, thresholds config.Thresholds) []Item {
	items := make([]Item, 0, len(member.Signals)+len(member.Penalties))
	for _, signal := range member.Signals {
		items = append(items, signalItem(signal, member.Penalties, mediaType, thresholds))
	}
	for _, penalty := range member.Penalties {
		items = append(items, penaltyItem(penalty))
	}
	sortItems(items)
	return items
}

// ForGroup aggregates evidence across all members of a group, folding items
// that share an ID by maximum contribution.
func ForGroup(group cluster.Group, thresholds config.Thresholds) []Item {
	folded := make(map[string]Item)
	for _, member := range group.Members {
		for _, item := range ForMember(member, group.MediaType, thresholds) {
			current, ok := folded[item.ID]
			if !ok || item.Contribution > current.Contribution {
				folded[item.ID] = item
			}
		}
	}
	items := make([]Item, 0, len(folded))
	for _, item := range folded {
		items = append(items, item)
	}
	sortItems(items)
	return items
}

func signalItem(signal score.Signal, penalties []score.Penalty, mediaType media.MediaType, thresholds config.Thresholds) Item {
	penalized := false
	for _, penalty := range penalties {
		if penalty.Signal == signal.Key {
			penalized = true
			break
		}
	}
	return Item{
		ID:            string(signal.Key),
		Label:         signalLabels[signal.Key],
		DistanceText:  signal.Measured,
		ThresholdText: thresholdText(signal.Key, mediaType, thresholds),
		Verdict:       score.VerdictFor(signal.Contribution, penalized),
		Contribution:  signal.Contribution,
	}
}

func penaltyItem(penalty score.Penalty) Item {
	return Item{
		ID:            "penalty_" + penalty.Key,
		Label:         signalLabels[penalty.Signal] + " missing",
		DistanceText:  "missing",
		ThresholdText: "required",
		Verdict:       score.VerdictFail,
		Contribution:  penalty.Value,
	}
}

func thresholdText(kind score.Kind, mediaType media.MediaType, thresholds config.Thresholds) string {
	switch kind {
	case score.KindChecksum:
		return "equality"
	case score.KindHash:
		return fmt.Sprintf("≤%d", score.PrimaryDistance(mediaType, thresholds))
	case score.KindName:
		return fmt.Sprintf("≥%.0f%%", thresholds.NameSimilarityThreshold*100)
	case score.KindCaptureTime:
		return fmt.Sprintf("≤%ds", thresholds.CaptureWindowSeconds)
	case score.KindDuration:
		return fmt.Sprintf("≤%.1f%%", thresholds.DurationTolerancePct*100)
	default:
		return ""
	}
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Contribution != items[j].Contribution {
			return items[i].Contribution > items[j].Contribution
		}
		return items[i].ID < items[j].ID
	})
}
