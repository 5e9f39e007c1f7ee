package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const jsonManifest = `{
  "records": [
    {
      "id": "photo-1",
      "media_type": "photo",
      "file_size": 2048000,
      "checksum": "AABBCC",
      "file_name": "IMG_0042.jpg",
      "perceptual_hash": "deadbeefcafef00d",
      "confirm_hash": "0123456789abcdef",
      "capture_time": "2024-06-01T12:30:00Z",
      "width": 4000,
      "height": 3000,
      "has_gps": true
    },
    {
      "id": "video-1",
      "media_type": "video",
      "file_size": 90000000,
      "checksum": "ddeeff",
      "file_name": "clip.mp4",
      "frame_hashes": ["1111111111111111", "2222222222222222"],
      "duration_seconds": 12.5,
      "bitrate": 8000000,
      "partial": true
    }
  ]
}`

const yamlManifest = `records:
  - id: photo-1
    media_type: photo
    file_size: 2048000
    checksum: aabbcc
    file_name: IMG_0042.jpg
    perceptual_hash: deadbeefcafef00d
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestJSON(t *testing.T) {
	records, err := LoadManifest(writeManifest(t, "scan.json", jsonManifest))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	photo := records[0]
	if photo.ID != "photo-1" || photo.MediaType != TypePhoto {
		t.Fatalf("unexpected first record: %+v", photo)
	}
	if photo.Checksum != "aabbcc" {
		t.Errorf("checksum not lowercased: %q", photo.Checksum)
	}
	if photo.PerceptualHash == nil || *photo.PerceptualHash != 0xdeadbeefcafef00d {
		t.Errorf("perceptual hash not parsed: %v", photo.PerceptualHash)
	}
	if photo.CaptureTime == nil || !photo.CaptureTime.Equal(time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("capture time not parsed: %v", photo.CaptureTime)
	}

	video := records[1]
	if len(video.FrameHashes) != 2 {
		t.Fatalf("frame hashes not parsed: %v", video.FrameHashes)
	}
	if video.Duration != 12500*time.Millisecond {
		t.Errorf("duration = %v, want 12.5s", video.Duration)
	}
	if !video.Partial {
		t.Error("partial flag lost")
	}
}

func TestLoadManifestYAML(t *testing.T) {
	records, err := LoadManifest(writeManifest(t, "scan.yaml", yamlManifest))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(records) != 1 || records[0].PerceptualHash == nil {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestLoadManifestRejectsDuplicateIDs(t *testing.T) {
	doc := `{"records": [
	  {"id": "x", "media_type": "photo", "file_size": 1, "file_name": "a.jpg"},
	  {"id": "x", "media_type": "photo", "file_size": 2, "file_name": "b.jpg"}
	]}`
	if _, err := LoadManifest(writeManifest(t, "dup.json", doc)); err == nil {
		t.Fatal("expected duplicate-id error")
	}
}

func TestLoadManifestRejectsUnknownExtension(t *testing.T) {
	if _, err := LoadManifest(writeManifest(t, "scan.toml", "records = []")); err == nil {
		t.Fatal("expected unsupported-extension error")
	}
}

func TestLoadManifestRejectsBadHash(t *testing.T) {
	doc := `{"records": [
	  {"id": "x", "media_type": "photo", "file_size": 1, "file_name": "a.jpg", "perceptual_hash": "zzzz"}
	]}`
	if _, err := LoadManifest(writeManifest(t, "bad.json", doc)); err == nil {
		t.Fatal("expected hash parse error")
	}
}
