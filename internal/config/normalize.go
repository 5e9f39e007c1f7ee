package config

import (
	"strings"
)

// Normalize expands paths and canonicalizes string fields. It runs before
// Validate so validation sees final values.
func (c *Config) Normalize() error {
	reportDB, err := expandPath(c.Paths.ReportDB)
	if err != nil {
		return err
	}
	c.Paths.ReportDB = reportDB

	if strings.TrimSpace(c.Paths.LogDir) != "" {
		logDir, err := expandPath(c.Paths.LogDir)
		if err != nil {
			return err
		}
		c.Paths.LogDir = logDir
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.Keeper.GroupConfidence = strings.ToLower(strings.TrimSpace(c.Keeper.GroupConfidence))
	if c.Keeper.GroupConfidence == "" {
		c.Keeper.GroupConfidence = defaultGroupConfidence
	}
	normalized := make([]string, 0, len(c.Keeper.FormatPreference))
	for _, ext := range c.Keeper.FormatPreference {
		ext = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if ext == "" {
			continue
		}
		normalized = append(normalized, ext)
	}
	if len(normalized) == 0 {
		normalized = defaultFormatPreference()
	}
	c.Keeper.FormatPreference = normalized

	if c.Engine.BucketCeiling <= 0 {
		c.Engine.BucketCeiling = defaultBucketCeiling
	}
	if c.Engine.PairBatchSize <= 0 {
		c.Engine.PairBatchSize = defaultPairBatchSize
	}
	return nil
}
