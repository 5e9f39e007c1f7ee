package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk handoff format from the external scanner: one
// document listing every record of a scan. JSON and YAML are both accepted;
// the extension decides.
type Manifest struct {
	Records []manifestRecord `json:"records" yaml:"records"`
}

type manifestRecord struct {
	ID             string   `json:"id" yaml:"id"`
	MediaType      string   `json:"media_type" yaml:"media_type"`
	FileSize       int64    `json:"file_size" yaml:"file_size"`
	Checksum       string   `json:"checksum" yaml:"checksum"`
	FileName       string   `json:"file_name" yaml:"file_name"`
	PerceptualHash string   `json:"perceptual_hash,omitempty" yaml:"perceptual_hash,omitempty"`
	ConfirmHash    string   `json:"confirm_hash,omitempty" yaml:"confirm_hash,omitempty"`
	FrameHashes    []string `json:"frame_hashes,omitempty" yaml:"frame_hashes,omitempty"`
	DurationSec    float64  `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	CaptureTime    string   `json:"capture_time,omitempty" yaml:"capture_time,omitempty"`
	Width          int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height         int      `json:"height,omitempty" yaml:"height,omitempty"`
	Bitrate        int64    `json:"bitrate,omitempty" yaml:"bitrate,omitempty"`
	HasGPS         bool     `json:"has_gps,omitempty" yaml:"has_gps,omitempty"`
	Partial        bool     `json:"partial,omitempty" yaml:"partial,omitempty"`
}

// LoadManifest reads a scanner manifest and converts it into validated file
// records, preserving the scanner's ordering.
func LoadManifest(path string) ([]FileRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &manifest); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	case ".json", "":
		if err := json.Unmarshal(raw, &manifest); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension %q (want .json or .yaml)", path, ext)
	}

	return manifest.FileRecords()
}

// FileRecords converts the raw manifest entries into FileRecord values.
func (m Manifest) FileRecords() ([]FileRecord, error) {
	records := make([]FileRecord, 0, len(m.Records))
	seen := make(map[string]struct{}, len(m.Records))
	for idx, entry := range m.Records {
		record, err := entry.toRecord()
		if err != nil {
			return nil, fmt.Errorf("manifest record %d: %w", idx, err)
		}
		if _, dup := seen[record.ID]; dup {
			return nil, fmt.Errorf("manifest record %d: duplicate id %q", idx, record.ID)
		}
		seen[record.ID] = struct{}{}
		records = append(records, record)
	}
	return records, nil
}

func (e manifestRecord) toRecord() (FileRecord, error) {
	mediaType, err := ParseMediaType(e.MediaType)
	if err != nil {
		return FileRecord{}, err
	}

	record := FileRecord{
		ID:        strings.TrimSpace(e.ID),
		MediaType: mediaType,
		FileSize:  e.FileSize,
		Checksum:  strings.ToLower(strings.TrimSpace(e.Checksum)),
		FileName:  e.FileName,
		Width:     e.Width,
		Height:    e.Height,
		Bitrate:   e.Bitrate,
		HasGPS:    e.HasGPS,
		Partial:   e.Partial,
	}

	if e.PerceptualHash != "" {
		code, err := ParseHashCode(e.PerceptualHash)
		if err != nil {
			return FileRecord{}, err
		}
		record.PerceptualHash = &code
	}
	if e.ConfirmHash != "" {
		code, err := ParseHashCode(e.ConfirmHash)
		if err != nil {
			return FileRecord{}, err
		}
		record.ConfirmHash = &code
	}
	for _, frame := range e.FrameHashes {
		code, err := ParseHashCode(frame)
		if err != nil {
			return FileRecord{}, err
		}
		record.FrameHashes = append(record.FrameHashes, code)
	}
	if e.DurationSec != 0 {
		record.Duration = time.Duration(e.DurationSec * float64(time.Second))
	}
	if strings.TrimSpace(e.CaptureTime) != "" {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(e.CaptureTime))
		if err != nil {
			return FileRecord{}, fmt.Errorf("capture_time: %w", err)
		}
		utc := ts.UTC()
		record.CaptureTime = &utc
	}

	if err := record.Validate(); err != nil {
		return FileRecord{}, err
	}
	return record, nil
}
