package main

import (
	"github.com/spf13/cobra"

	"mediadup/internal/report"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var detail bool

	cmd := &cobra.Command{
		Use:   "show [scan-id]",
		Short: "Show the groups of a stored scan",
		Long: "Show prints a stored scan result. With --evidence each group is " +
			"expanded with its per-signal evidence table. With no scan-id it " +
			"shows the most recent scan.",
		Args: cobra.MaximumNArgs(1),
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

			scanID := ""
			if len(args) == 1 {
				scanID = args[0]
			} else {
				scanID, err = store.LatestScanID(cmd.Context())
				if err != nil {
					return err
				}
			}

			result, err := store.GetResult(cmd.Context(), scanID)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			renderResult(cmd, result)
			if detail {
				renderGroupDetail(cmd, result, result.Thresholds)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the stored result as JSON")
	cmd.Flags().BoolVar(&detail, "evidence", false, "Expand each group with its evidence table")
	return cmd
}
