package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mediadup/internal/cluster"
	"mediadup/internal/config"
	"mediadup/internal/engine"
	"mediadup/internal/media"
	"mediadup/internal/score"
)

func testStoreConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ReportDB = filepath.Join(dir, "report.db")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	return &cfg
}

func openTestStore(t *testing.T, cfg *config.Config) *Store {
	t.Helper()
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(scanID string, createdAt time.Time) (*engine.Result, *engine.Snapshot) {
	records := []media.FileRecord{
		{ID: "a", MediaType: media.TypePhoto, FileSize: 1000, FileName: "a.jpg", Checksum: "x"},
		{ID: "b", MediaType: media.TypePhoto, FileSize: 1000, FileName: "b.jpg", Checksum: "x"},
	}
	group := cluster.Group{
		ID:        "group-1",
		MediaType: media.TypePhoto,
		Members: []cluster.Member{
			{FileID: "a", Confidence: 1.0, FileSize: 1000},
			{FileID: "b", Confidence: 1.0, FileSize: 1000},
		},
		Confidence:       1.0,
		KeeperSuggestion: "a",
	}
	result := &engine.Result{
		ScanID:     scanID,
		CreatedAt:  createdAt,
		Thresholds: config.Default().Thresholds,
		Groups:     []cluster.Group{group},
		Similar:    []cluster.SimilarPair{{FileA: "a", FileB: "b", Distance: 6}},
		Stats:      engine.Stats{Files: 2, CandidatePairs: 1, SimilarPairs: 1, Workers: 2},
	}
	snapshot := &engine.Snapshot{
		CreatedAt: createdAt,
		Records:   records,
		Measurements: []score.PairMeasurement{
			{A: 0, B: 1, MediaType: media.TypePhoto, ChecksumPresent: true, ChecksumEqual: true},
		},
	}
	return result, snapshot
}

func TestSaveAndGetResult(t *testing.T) {
	store := openTestStore(t, testStoreConfig(t))
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	result, snapshot := sampleResult("scan-1", created)
	if err := store.SaveResult(ctx, result, snapshot); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	loaded, err := store.GetResult(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if !loaded.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", loaded.CreatedAt, created)
	}
	if loaded.Thresholds.ImageDistance != result.Thresholds.ImageDistance {
		t.Error("thresholds not round-tripped")
	}
	if len(loaded.Groups) != 1 || loaded.Groups[0].ID != "group-1" {
		t.Fatalf("groups = %+v", loaded.Groups)
	}
	if loaded.Groups[0].KeeperSuggestion != "a" || len(loaded.Groups[0].Members) != 2 {
		t.Errorf("group payload lost detail: %+v", loaded.Groups[0])
	}
	if loaded.Stats.Files != 2 {
		t.Errorf("stats = %+v", loaded.Stats)
	}
}

func TestGetSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t, testStoreConfig(t))
	ctx := context.Background()
	result, snapshot := sampleResult("scan-1", time.Now().UTC())
	if err := store.SaveResult(ctx, result, snapshot); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.GetSnapshot(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if len(loaded.Records) != 2 || len(loaded.Measurements) != 1 {
		t.Fatalf("snapshot = %+v", loaded)
	}
	if !loaded.Measurements[0].ChecksumEqual {
		t.Error("measurement detail lost")
	}
}

func TestListScansNewestFirst(t *testing.T) {
	store := openTestStore(t, testStoreConfig(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		result, snapshot := sampleResult(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveResult(ctx, result, snapshot); err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := store.ListScans(ctx, 0)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries", len(summaries))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if summaries[i].ID != want {
			t.Errorf("summary %d = %s, want %s", i, summaries[i].ID, want)
		}
	}

	limited, err := store.ListScans(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "new" {
		t.Errorf("limited = %+v", limited)
	}

	latest, err := store.LatestScanID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest != "new" {
		t.Errorf("LatestScanID = %s", latest)
	}
}

func TestNotFoundErrors(t *testing.T) {
	store := openTestStore(t, testStoreConfig(t))
	ctx := context.Background()

	if _, err := store.GetResult(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetResult = %v, want ErrNotFound", err)
	}
	if _, err := store.GetSnapshot(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSnapshot = %v, want ErrNotFound", err)
	}
	if _, err := store.LatestScanID(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestScanID = %v, want ErrNotFound", err)
	}
}

func TestLockExcludesSecondOpen(t *testing.T) {
	cfg := testStoreConfig(t)
	first := openTestStore(t, cfg)

	if _, err := Open(cfg); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Open = %v, want ErrLocked", err)
	}

	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open after release: %v", err)
	}
	_ = second.Close()
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testStoreConfig(t)
	ctx := context.Background()

	store := openTestStore(t, cfg)
	result, snapshot := sampleResult("persisted", time.Now().UTC())
	if err := store.SaveResult(ctx, result, snapshot); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openTestStore(t, cfg)
	if _, err := reopened.GetResult(ctx, "persisted"); err != nil {
		t.Fatalf("data lost across reopen: %v", err)
	}
}

func TestDuplicateScanIDRejected(t *testing.T) {
	store := openTestStore(t, testStoreConfig(t))
	ctx := context.Background()
	result, snapshot := sampleResult("dup", time.Now().UTC())
	if err := store.SaveResult(ctx, result, snapshot); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveResult(ctx, result, snapshot); err == nil {
		t.Fatal("duplicate scan ID accepted")
	}
}
