package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Thresholds is the externally tunable detection contract. Changing these and
// re-ranking a stored scan snapshot reproduces results without re-hashing.
type Thresholds struct {
	// ImageDistance is the maximum Hamming distance at which two photo
	// hashes are considered duplicates outright.
	ImageDistance int `toml:"image_distance"`
	// VideoFrameDistance bounds the maximum aligned-keyframe distance for
	// video duplicates.
	VideoFrameDistance int `toml:"video_frame_distance"`
	// DurationTolerancePct is the fraction of the longer duration within
	// which two video durations count as equal.
	DurationTolerancePct float64 `toml:"duration_tolerance_pct"`
	// NameSimilarityThreshold is the similarity ratio above which filenames
	// are reported as matching in rationale text.
	NameSimilarityThreshold float64 `toml:"name_similarity_threshold"`
	// ConfirmBandLower and ConfirmBandUpper delimit the borderline distance
	// zone that needs secondary confirmation before grouping.
	ConfirmBandLower int `toml:"confirm_band_lower"`
	ConfirmBandUpper int `toml:"confirm_band_upper"`
	// ConfirmHashDistance is the maximum secondary-hash distance that
	// confirms a borderline pair.
	ConfirmHashDistance int `toml:"confirm_hash_distance"`
	// HashScoreCeiling is the distance at which the hash signal's raw score
	// reaches zero. With the default of 25, distance 5 scores 0.8.
	HashScoreCeiling int `toml:"hash_score_ceiling"`
	// DupThreshold is the minimum aggregate confidence for a within-distance
	// pair to be merged into a group.
	DupThreshold float64 `toml:"dup_threshold"`
	// SizeTolerancePct controls the width of the coarse size-class buckets.
	SizeTolerancePct float64 `toml:"size_tolerance_pct"`
	// CaptureWindowSeconds is the timestamp delta under which the capture
	// time signal scores 1.0; CaptureZeroSeconds is where it reaches 0.
	CaptureWindowSeconds int `toml:"capture_window_seconds"`
	CaptureZeroSeconds   int `toml:"capture_zero_seconds"`
}

// Weights holds the configured importance of each confidence signal and the
// penalty applied when a signal's inputs are missing.
type Weights struct {
	Checksum    float64 `toml:"checksum"`
	Hash        float64 `toml:"hash"`
	Name        float64 `toml:"name"`
	CaptureTime float64 `toml:"capture_time"`
	Duration    float64 `toml:"duration"`

	// Penalties are negative contributions applied when a signal cannot be
	// computed; they never apply to a computed-but-low signal.
	HashMissingPenalty        float64 `toml:"hash_missing_penalty"`
	ChecksumMissingPenalty    float64 `toml:"checksum_missing_penalty"`
	CaptureTimeMissingPenalty float64 `toml:"capture_time_missing_penalty"`
	DurationMissingPenalty    float64 `toml:"duration_missing_penalty"`
}

// Keeper configures the keeper-suggestion comparator.
type Keeper struct {
	// FormatPreference ranks filename extensions best-first; unknown
	// extensions sort after every listed one.
	FormatPreference []string `toml:"format_preference"`
	// GroupConfidence selects the group-level aggregation rule: "min"
	// (default) or "max" over member confidences.
	GroupConfidence string `toml:"group_confidence"`
}

// Engine configures pipeline execution.
type Engine struct {
	// Workers caps pipeline parallelism; 0 means one worker per CPU.
	Workers int `toml:"workers"`
	// BucketCeiling is the bucket size above which the neighbor index falls
	// back to a linear scan instead of a tree.
	BucketCeiling int `toml:"bucket_ceiling"`
	// PairBatchSize is the number of candidate pairs scored per work unit.
	PairBatchSize int `toml:"pair_batch_size"`
}

// Paths contains file locations used by the CLI and report store.
type Paths struct {
	ReportDB string `toml:"report_db"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediadup.
type Config struct {
	Thresholds Thresholds `toml:"thresholds"`
	Weights    Weights    `toml:"weights"`
	Keeper     Keeper     `toml:"keeper"`
	Engine     Engine     `toml:"engine"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediadup/config.toml")
}

// Load locates, parses, and validates a configuration file. When path is
// empty the default location is tried; a missing file yields defaults. The
// returned bool reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config %s: %w", resolvedPath, err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	candidate := strings.TrimSpace(path)
	explicit := candidate != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		candidate = defaultPath
	}

	expanded, err := expandPath(candidate)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return "", false, fmt.Errorf("config file %s does not exist", expanded)
		}
		return expanded, false, nil
	default:
		return "", false, fmt.Errorf("stat config %s: %w", expanded, err)
	}
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file %s already exists", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", expanded, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}

// EnsureDirectories creates the directories the report store and logger need.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.ReportDB), c.Paths.LogDir}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Clean(trimmed), nil
}
