package media

import (
	"fmt"
	"strings"
	"time"
)

// MediaType classifies a file record. Buckets never span media types.
type MediaType string

const (
	TypePhoto    MediaType = "photo"
	TypeVideo    MediaType = "video"
	TypeAudio    MediaType = "audio"
	TypeDocument MediaType = "document"
)

var mediaTypes = map[MediaType]struct{}{
	TypePhoto:    {},
	TypeVideo:    {},
	TypeAudio:    {},
	TypeDocument: {},
}

// ParseMediaType validates and canonicalizes a media type string.
func ParseMediaType(raw string) (MediaType, error) {
	mt := MediaType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := mediaTypes[mt]; !ok {
		return "", fmt.Errorf("unknown media type %q", raw)
	}
	return mt, nil
}

// FileRecord is one scanned file as delivered by the external metadata and
// hashing collaborator. The engine treats records as immutable input; all
// derived state (signals, scores, groups) is rebuilt per scan.
type FileRecord struct {
	// ID is the caller's stable unique identifier for the file.
	ID        string    `json:"id"`
	MediaType MediaType `json:"mediaType"`
	FileSize  int64     `json:"fileSize"`
	// Checksum is the content hash (hex, typically SHA-256). Empty when the
	// scanner could not read the file.
	Checksum string `json:"checksum,omitempty"`
	FileName string `json:"fileName"`

	// PerceptualHash is the primary 64-bit code for photos. Nil only when
	// extraction failed upstream.
	PerceptualHash *HashCode `json:"perceptualHash,omitempty"`
	// ConfirmHash is an optional secondary code (alternate algorithm, e.g.
	// pHash) used to confirm borderline matches.
	ConfirmHash *HashCode `json:"confirmHash,omitempty"`

	// FrameHashes are ordered per-keyframe codes for videos.
	FrameHashes []HashCode `json:"frameHashes,omitempty"`
	// Duration is the video duration; zero for non-video records.
	Duration time.Duration `json:"duration,omitempty"`

	// CaptureTime is the capture timestamp from container/EXIF metadata,
	// when present.
	CaptureTime *time.Time `json:"captureTime,omitempty"`

	// Width and Height are pixel dimensions when known (photos, videos).
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Bitrate is the average bitrate in bits per second when known (videos,
	// audio).
	Bitrate int64 `json:"bitrate,omitempty"`
	// HasGPS reports whether location metadata was present.
	HasGPS bool `json:"hasGps,omitempty"`

	// Partial marks a record whose extraction was truncated or timed out
	// upstream. Groups containing partial members are flagged incomplete.
	Partial bool `json:"partial,omitempty"`
}

// HasPerceptualHash reports whether the record carries usable perceptual hash
// data for its media type.
func (r FileRecord) HasPerceptualHash() bool {
	if r.MediaType == TypeVideo {
		return len(r.FrameHashes) > 0
	}
	return r.PerceptualHash != nil
}

// PixelArea returns width×height, or 0 when dimensions are unknown.
func (r FileRecord) PixelArea() int64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return int64(r.Width) * int64(r.Height)
}

// Extension returns the lowercased filename extension without the dot.
func (r FileRecord) Extension() string {
	idx := strings.LastIndexByte(r.FileName, '.')
	if idx < 0 || idx == len(r.FileName)-1 {
		return ""
	}
	return strings.ToLower(r.FileName[idx+1:])
}

// Validate checks the invariants the engine relies on.
func (r FileRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("file record missing id")
	}
	if _, ok := mediaTypes[r.MediaType]; !ok {
		return fmt.Errorf("file record %s: unknown media type %q", r.ID, r.MediaType)
	}
	if r.FileSize < 0 {
		return fmt.Errorf("file record %s: negative file size %d", r.ID, r.FileSize)
	}
	if r.MediaType == TypeVideo && r.Duration < 0 {
		return fmt.Errorf("file record %s: negative duration", r.ID)
	}
	return nil
}
