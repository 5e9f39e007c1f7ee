package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. A failure here is fatal at
// the API boundary; the engine refuses to scan with an invalid config.
func (c *Config) Validate() error {
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateWeights(); err != nil {
		return err
	}
	if err := c.validateKeeper(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateThresholds() error {
	t := c.Thresholds
	if t.ImageDistance < 0 || t.ImageDistance > 64 {
		return fmt.Errorf("thresholds.image_distance must be in [0, 64], got %d", t.ImageDistance)
	}
	if t.VideoFrameDistance < 0 || t.VideoFrameDistance > 64 {
		return fmt.Errorf("thresholds.video_frame_distance must be in [0, 64], got %d", t.VideoFrameDistance)
	}
	if t.DurationTolerancePct < 0 || t.DurationTolerancePct >= 1 {
		return fmt.Errorf("thresholds.duration_tolerance_pct must be in [0, 1), got %g", t.DurationTolerancePct)
	}
	if t.NameSimilarityThreshold < 0 || t.NameSimilarityThreshold > 1 {
		return fmt.Errorf("thresholds.name_similarity_threshold must be in [0, 1], got %g", t.NameSimilarityThreshold)
	}
	if t.ConfirmBandLower < 0 || t.ConfirmBandUpper < 0 {
		return errors.New("thresholds.confirm_band bounds must not be negative")
	}
	if t.ConfirmBandLower > t.ConfirmBandUpper {
		return fmt.Errorf("thresholds.confirm_band_lower %d exceeds confirm_band_upper %d", t.ConfirmBandLower, t.ConfirmBandUpper)
	}
	if t.ConfirmBandUpper > 64 {
		return fmt.Errorf("thresholds.confirm_band_upper must not exceed 64, got %d", t.ConfirmBandUpper)
	}
	if t.ConfirmHashDistance < 0 || t.ConfirmHashDistance > 64 {
		return fmt.Errorf("thresholds.confirm_hash_distance must be in [0, 64], got %d", t.ConfirmHashDistance)
	}
	if t.HashScoreCeiling <= 0 {
		return fmt.Errorf("thresholds.hash_score_ceiling must be positive, got %d", t.HashScoreCeiling)
	}
	if t.HashScoreCeiling <= t.ImageDistance || t.HashScoreCeiling <= t.VideoFrameDistance {
		return errors.New("thresholds.hash_score_ceiling must exceed the duplicate distance thresholds")
	}
	if t.DupThreshold < 0 || t.DupThreshold > 1 {
		return fmt.Errorf("thresholds.dup_threshold must be in [0, 1], got %g", t.DupThreshold)
	}
	if t.SizeTolerancePct <= 0 || t.SizeTolerancePct >= 1 {
		return fmt.Errorf("thresholds.size_tolerance_pct must be in (0, 1), got %g", t.SizeTolerancePct)
	}
	if t.CaptureWindowSeconds <= 0 {
		return fmt.Errorf("thresholds.capture_window_seconds must be positive, got %d", t.CaptureWindowSeconds)
	}
	if t.CaptureZeroSeconds <= t.CaptureWindowSeconds {
		return errors.New("thresholds.capture_zero_seconds must exceed capture_window_seconds")
	}
	return nil
}

func (c *Config) validateWeights() error {
	w := c.Weights
	named := []struct {
		name  string
		value float64
	}{
		{"weights.checksum", w.Checksum},
		{"weights.hash", w.Hash},
		{"weights.name", w.Name},
		{"weights.capture_time", w.CaptureTime},
		{"weights.duration", w.Duration},
	}
	for _, entry := range named {
		if entry.value < 0 || entry.value > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", entry.name, entry.value)
		}
	}
	penalties := []struct {
		name  string
		value float64
	}{
		{"weights.hash_missing_penalty", w.HashMissingPenalty},
		{"weights.checksum_missing_penalty", w.ChecksumMissingPenalty},
		{"weights.capture_time_missing_penalty", w.CaptureTimeMissingPenalty},
		{"weights.duration_missing_penalty", w.DurationMissingPenalty},
	}
	for _, entry := range penalties {
		if entry.value > 0 {
			return fmt.Errorf("%s must not be positive, got %g", entry.name, entry.value)
		}
	}
	return nil
}

func (c *Config) validateKeeper() error {
	switch c.Keeper.GroupConfidence {
	case "min", "max":
		return nil
	default:
		return fmt.Errorf("keeper.group_confidence must be \"min\" or \"max\", got %q", c.Keeper.GroupConfidence)
	}
}

func (c *Config) validateEngine() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	if c.Engine.BucketCeiling <= 0 {
		return fmt.Errorf("engine.bucket_ceiling must be positive, got %d", c.Engine.BucketCeiling)
	}
	if c.Engine.PairBatchSize <= 0 {
		return fmt.Errorf("engine.pair_batch_size must be positive, got %d", c.Engine.PairBatchSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
