package keeper

import (
	"testing"
	"time"

	"mediadup/internal/media"
)

func testRanker() *Ranker {
	return NewRanker([]string{"raw", "png", "heic", "jpg"})
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSuggestPrefersResolution(t *testing.T) {
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "small", FileName: "a.jpg", Width: 1920, Height: 1080},
		{ID: "large", FileName: "b.jpg", Width: 4000, Height: 3000},
	})
	if got != "large" {
		t.Fatalf("Suggest = %s, want the higher-resolution member", got)
	}
}

func TestSuggestPrefersBitrate(t *testing.T) {
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "low", FileName: "a.mp4", Bitrate: 2_000_000},
		{ID: "high", FileName: "b.mp4", Bitrate: 8_000_000},
	})
	if got != "high" {
		t.Fatalf("Suggest = %s, want the higher-bitrate member", got)
	}
}

func TestSuggestFormatPreference(t *testing.T) {
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "jpeg", FileName: "photo.jpg", Width: 4000, Height: 3000},
		{ID: "raw", FileName: "photo.raw", Width: 4000, Height: 3000},
	})
	if got != "raw" {
		t.Fatalf("Suggest = %s, want preferred format at equal resolution", got)
	}
}

func TestSuggestUnknownFormatRanksLast(t *testing.T) {
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "known", FileName: "a.jpg"},
		{ID: "unknown", FileName: "b.xyz"},
	})
	if got != "known" {
		t.Fatalf("Suggest = %s, want listed format over unlisted", got)
	}
}

func TestSuggestMetadataRichness(t *testing.T) {
	ranker := testRanker()
	capture := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ranker.Suggest([]media.FileRecord{
		{ID: "bare", FileName: "a.jpg"},
		{ID: "rich", FileName: "b.jpg", CaptureTime: timePtr(capture), HasGPS: true},
	})
	if got != "rich" {
		t.Fatalf("Suggest = %s, want metadata-rich member", got)
	}
}

func TestSuggestEarliestCapture(t *testing.T) {
	ranker := testRanker()
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	got := ranker.Suggest([]media.FileRecord{
		{ID: "late", FileName: "a.jpg", CaptureTime: timePtr(late)},
		{ID: "early", FileName: "b.jpg", CaptureTime: timePtr(early)},
	})
	if got != "early" {
		t.Fatalf("Suggest = %s, want earliest capture as the original", got)
	}
}

func TestSuggestTieBreaksOnID(t *testing.T) {
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "bbb", FileName: "x.jpg"},
		{ID: "aaa", FileName: "y.jpg"},
	})
	if got != "aaa" {
		t.Fatalf("Suggest = %s, want deterministic ID tie-break", got)
	}
}

func TestSuggestMissingDimensionsSkipCriterion(t *testing.T) {
	// Resolution only decides when both sides have it; here it must fall
	// through to format preference.
	ranker := testRanker()
	got := ranker.Suggest([]media.FileRecord{
		{ID: "sized", FileName: "a.jpg", Width: 4000, Height: 3000},
		{ID: "unsized", FileName: "b.raw"},
	})
	if got != "unsized" {
		t.Fatalf("Suggest = %s, want resolution criterion skipped on one-sided data", got)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	ranker := testRanker()
	members := []media.FileRecord{
		{ID: "b", FileName: "b.jpg"},
		{ID: "a", FileName: "a.jpg"},
	}
	ranker.Rank(members)
	if members[0].ID != "b" {
		t.Fatal("Rank reordered the caller's slice")
	}
}

func TestSuggestEmpty(t *testing.T) {
	if got := testRanker().Suggest(nil); got != "" {
		t.Fatalf("Suggest(nil) = %q, want empty", got)
	}
}
