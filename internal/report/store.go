package report

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"mediadup/internal/cluster"
	"mediadup/internal/config"
	"mediadup/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; users clear the report database
// to adopt a new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different schema
// version.
var ErrSchemaMismatch = errors.New("report: schema version mismatch")

// ErrLocked indicates another process holds the report database.
var ErrLocked = errors.New("report: database locked by another process")

// ErrNotFound indicates the requested scan does not exist.
var ErrNotFound = errors.New("report: scan not found")

// Store manages result persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open acquires the advisory lock and connects to the report database,
// creating the schema on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.ReportDB
	lock := flock.New(dbPath + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire report lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the advisory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
		s.lock = nil
	}
	return err
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaMismatch, version, schemaVersion)
	default:
		return nil
	}
}

// SaveResult stores a result and its snapshot atomically.
func (s *Store) SaveResult(ctx context.Context, result *engine.Result, snapshot *engine.Snapshot) error {
	thresholdsJSON, err := json.Marshal(result.Thresholds)
	if err != nil {
		return fmt.Errorf("marshal thresholds: %w", err)
	}
	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, created_at, file_count, group_count, similar_count, thresholds_json, stats_json, snapshot_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ScanID,
		result.CreatedAt.Format(time.RFC3339Nano),
		result.Stats.Files,
		len(result.Groups),
		len(result.Similar),
		string(thresholdsJSON),
		string(statsJSON),
		string(snapshotJSON),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for position, group := range result.Groups {
		payload, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("marshal group %s: %w", group.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scan_groups (scan_id, group_id, position, media_type, confidence, incomplete, keeper_id, payload_json)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ScanID,
			group.ID,
			position,
			string(group.MediaType),
			group.Confidence,
			boolToInt(group.Incomplete),
			nullableString(group.KeeperSuggestion),
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert group %s: %w", group.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scan %s: %w", result.ScanID, err)
	}
	return nil
}

// ScanSummary is one row of the scan listing.
type ScanSummary struct {
	ID           string    `json:"scanId"`
	CreatedAt    time.Time `json:"createdAt"`
	FileCount    int       `json:"fileCount"`
	GroupCount   int       `json:"groupCount"`
	SimilarCount int       `json:"similarCount"`
}

// ListScans returns summaries newest-first, bounded by limit (0 means all).
func (s *Store) ListScans(ctx context.Context, limit int) ([]ScanSummary, error) {
	query := "SELECT id, created_at, file_count, group_count, similar_count FROM scans ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var summaries []ScanSummary
	for rows.Next() {
		var summary ScanSummary
		var createdAt string
		if err := rows.Scan(&summary.ID, &createdAt, &summary.FileCount, &summary.GroupCount, &summary.SimilarCount); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		summary.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// GetResult reconstructs a stored result, groups in their original order.
func (s *Store) GetResult(ctx context.Context, scanID string) (*engine.Result, error) {
	result := &engine.Result{ScanID: scanID}
	var createdAt, thresholdsJSON, statsJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT created_at, thresholds_json, stats_json FROM scans WHERE id = ?", scanID,
	).Scan(&createdAt, &thresholdsJSON, &statsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("load scan %s: %w", scanID, err)
	}
	result.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(thresholdsJSON), &result.Thresholds); err != nil {
		return nil, fmt.Errorf("unmarshal thresholds: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &result.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload_json FROM scan_groups WHERE scan_id = ? ORDER BY position", scanID)
	if err != nil {
		return nil, fmt.Errorf("load groups for %s: %w", scanID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("group row: %w", err)
		}
		var group cluster.Group
		if err := json.Unmarshal([]byte(payload), &group); err != nil {
			return nil, fmt.Errorf("unmarshal group: %w", err)
		}
		result.Groups = append(result.Groups, group)
	}
	return result, rows.Err()
}

// GetSnapshot loads the re-rankable snapshot for a scan.
func (s *Store) GetSnapshot(ctx context.Context, scanID string) (*engine.Snapshot, error) {
	var snapshotJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT snapshot_json FROM scans WHERE id = ?", scanID,
	).Scan(&snapshotJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", scanID, err)
	}
	var snapshot engine.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// LatestScanID returns the most recent scan's ID, or ErrNotFound on an empty
// store.
func (s *Store) LatestScanID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM scans ORDER BY created_at DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("latest scan: %w", err)
	}
	return id, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
