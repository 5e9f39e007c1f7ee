package config

const (
	defaultImageDistance           = 5
	defaultVideoFrameDistance      = 5
	defaultDurationTolerancePct    = 0.02
	defaultNameSimilarityThreshold = 0.5
	defaultConfirmBandLower        = 4
	defaultConfirmBandUpper        = 6
	defaultConfirmHashDistance     = 8
	defaultHashScoreCeiling        = 25
	defaultDupThreshold            = 0.3
	defaultSizeTolerancePct        = 0.05
	defaultCaptureWindowSeconds    = 300
	defaultCaptureZeroSeconds      = 3600

	defaultChecksumWeight    = 1.0
	defaultHashWeight        = 0.4
	defaultNameWeight        = 0.3
	defaultCaptureTimeWeight = 0.2
	defaultDurationWeight    = 0.2

	defaultHashMissingPenalty        = -0.1
	defaultChecksumMissingPenalty    = -0.1
	defaultCaptureTimeMissingPenalty = -0.05
	defaultDurationMissingPenalty    = -0.05

	defaultBucketCeiling = 4096
	defaultPairBatchSize = 256

	defaultReportDB  = "~/.local/share/mediadup/report.db"
	defaultLogDir    = "~/.local/share/mediadup/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultGroupConfidence = "min"
)

func defaultFormatPreference() []string {
	return []string{
		"raw", "dng", "cr2", "cr3", "nef", "arw",
		"tiff", "tif", "png", "heic", "webp", "jpeg", "jpg",
		"mkv", "mov", "mp4", "webm", "avi",
		"flac", "wav", "m4a", "mp3",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			ImageDistance:           defaultImageDistance,
			VideoFrameDistance:      defaultVideoFrameDistance,
			DurationTolerancePct:    defaultDurationTolerancePct,
			NameSimilarityThreshold: defaultNameSimilarityThreshold,
			ConfirmBandLower:        defaultConfirmBandLower,
			ConfirmBandUpper:        defaultConfirmBandUpper,
			ConfirmHashDistance:     defaultConfirmHashDistance,
			HashScoreCeiling:        defaultHashScoreCeiling,
			DupThreshold:            defaultDupThreshold,
			SizeTolerancePct:        defaultSizeTolerancePct,
			CaptureWindowSeconds:    defaultCaptureWindowSeconds,
			CaptureZeroSeconds:      defaultCaptureZeroSeconds,
		},
		Weights: Weights{
			Checksum:                  defaultChecksumWeight,
			Hash:                      defaultHashWeight,
			Name:                      defaultNameWeight,
			CaptureTime:               defaultCaptureTimeWeight,
			Duration:                  defaultDurationWeight,
			HashMissingPenalty:        defaultHashMissingPenalty,
			ChecksumMissingPenalty:    defaultChecksumMissingPenalty,
			CaptureTimeMissingPenalty: defaultCaptureTimeMissingPenalty,
			DurationMissingPenalty:    defaultDurationMissingPenalty,
		},
		Keeper: Keeper{
			FormatPreference: defaultFormatPreference(),
			GroupConfidence:  defaultGroupConfidence,
		},
		Engine: Engine{
			Workers:       0,
			BucketCeiling: defaultBucketCeiling,
			PairBatchSize: defaultPairBatchSize,
		},
		Paths: Paths{
			ReportDB: defaultReportDB,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
