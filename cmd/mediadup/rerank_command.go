package main

import (
	"github.com/spf13/cobra"

	"mediadup/internal/engine"
	"mediadup/internal/report"
)

func newRerankCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var noStore bool

	cmd := &cobra.Command{
		Use:   "rerank [scan-id]",
		Short: "Rescore a stored scan with current weights and thresholds",
		Long: "Rerank replays the stored measurements of an earlier scan through " +
			"the current scoring configuration without touching any files. " +
			"With no scan-id it uses the most recent scan.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
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

			snapshot, err := store.GetSnapshot(cmd.Context(), scanID)
			if err != nil {
				return err
			}

			eng, err := engine.New(cfg, logger)
			if err != nil {
				return err
			}
			result, err := eng.Rerank(cmd.Context(), snapshot)
			if err != nil {
				return err
			}

			if !noStore {
				if err := store.SaveResult(cmd.Context(), result, snapshot); err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			renderResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full result as JSON")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Skip persisting the reranked result")
	return cmd
}
