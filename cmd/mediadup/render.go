package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediadup/internal/config"
	"mediadup/internal/engine"
	"mediadup/internal/evidence"
)

func renderResult(cmd *cobra.Command, result *engine.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Scan %s (%s)\n", result.ScanID, result.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Files: %d  Candidate pairs: %d  Comparisons: %d  Workers: %d\n",
		result.Stats.Files, result.Stats.CandidatePairs, result.Stats.Comparisons, result.Stats.Workers)
	if len(result.Stats.DegradedBuckets) > 0 {
		fmt.Fprintf(out, "Degraded buckets (linear scan): %d\n", len(result.Stats.DegradedBuckets))
	}
	fmt.Fprintln(out)

	if len(result.Groups) == 0 {
		fmt.Fprintln(out, "No duplicate groups found.")
	} else {
		rows := make([][]string, 0, len(result.Groups))
		for i, group := range result.Groups {
			incomplete := ""
			if group.Incomplete {
				incomplete = "yes"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				group.ID,
				string(group.MediaType),
				strconv.Itoa(len(group.Members)),
				fmt.Sprintf("%.2f", group.Confidence),
				group.KeeperSuggestion,
				incomplete,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Group", "Media", "Members", "Confidence", "Keeper", "Incomplete"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
	}

	if len(result.Similar) > 0 {
		fmt.Fprintf(out, "\nSimilar but not duplicates (%d pairs):\n", len(result.Similar))
		rows := make([][]string, 0, len(result.Similar))
		for _, pair := range result.Similar {
			confirm := "-"
			if pair.ConfirmDistance != nil {
				confirm = strconv.Itoa(*pair.ConfirmDistance)
			}
			rows = append(rows, []string{pair.FileA, pair.FileB, strconv.Itoa(pair.Distance), confirm})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File A", "File B", "Distance", "Confirm"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))
	}
}

func renderGroupDetail(cmd *cobra.Command, result *engine.Result, thresholds config.Thresholds) {
	out := cmd.OutOrStdout()

	for i, group := range result.Groups {
		fmt.Fprintf(out, "Group %d/%d  %s  media=%s  confidence=%.2f\n",
			i+1, len(result.Groups), group.ID, group.MediaType, group.Confidence)
		if group.KeeperSuggestion != "" {
			fmt.Fprintf(out, "Suggested keeper: %s\n", group.KeeperSuggestion)
		}
		for _, line := range group.RationaleLines {
			fmt.Fprintf(out, "  %s\n", line)
		}

		rows := make([][]string, 0, len(group.Members))
		for _, member := range group.Members {
			keeper := ""
			if member.FileID == group.KeeperSuggestion {
				keeper = "*"
			}
			rows = append(rows, []string{
				keeper,
				member.FileID,
				strconv.FormatInt(member.FileSize, 10),
				fmt.Sprintf("%.2f", member.Confidence),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"", "File", "Size", "Confidence"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))

		items := evidence.ForGroup(group, thresholds)
		if len(items) > 0 {
			rows = rows[:0]
			for _, item := range items {
				rows = append(rows, []string{
					item.Label,
					item.DistanceText,
					item.ThresholdText,
					string(item.Verdict),
					fmt.Sprintf("%.2f", item.Contribution),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Signal", "Measured", "Threshold", "Verdict", "Contribution"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
		}
		fmt.Fprintln(out)
	}
}
