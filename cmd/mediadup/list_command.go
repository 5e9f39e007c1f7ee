package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"mediadup/internal/report"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := report.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.ListScans(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summaries)
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{
					summary.ID,
					summary.CreatedAt.Format("2006-01-02 15:04:05"),
					strconv.Itoa(summary.FileCount),
					strconv.Itoa(summary.GroupCount),
					strconv.Itoa(summary.SimilarCount),
				})
			}
			cmd.Println(renderTable(
				[]string{"Scan", "Created", "Files", "Groups", "Similar"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit summaries as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum scans to list (0 for all)")
	return cmd
}
