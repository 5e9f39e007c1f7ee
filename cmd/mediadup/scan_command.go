package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediadup/internal/engine"
	"mediadup/internal/media"
	"mediadup/internal/report"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var noStore bool
	var pressureFlag string

	cmd := &cobra.Command{
		Use:   "scan <manifest>",
		Short: "Detect duplicate groups from a scanner manifest",
		Long: "Scan loads the file records of a scanner manifest (JSON or YAML), " +
			"runs the detection pipeline, stores the result for later show/rerank, " +
			"and prints a group summary.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			pressure, err := parsePressure(pressureFlag)
			if err != nil {
				return err
			}

			records, err := media.LoadManifest(args[0])
			if err != nil {
				return err
			}

			eng, err := engine.New(cfg, logger)
			if err != nil {
				return err
			}
			result, snapshot, err := eng.Scan(cmd.Context(), records, engine.WithPressure(pressure))
			if err != nil {
				return err
			}

			if !noStore {
				store, err := report.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
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
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Skip persisting the result to the report database")
	cmd.Flags().StringVar(&pressureFlag, "pressure", "none", "Resource pressure hint: none, moderate, or high")
	return cmd
}

func parsePressure(value string) (engine.Pressure, error) {
	switch value {
	case "", "none":
		return engine.PressureNone, nil
	case "moderate":
		return engine.PressureModerate, nil
	case "high":
		return engine.PressureHigh, nil
	default:
		return engine.PressureNone, fmt.Errorf("unknown pressure %q (want none, moderate, or high)", value)
	}
}
