// Package sqlite implements the farm snapshot and journal stores over a
// single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/storage/sqlitemigrate"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage/sqlite/migrations"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements storage.FarmStore and storage.EventStore over SQLite.
//
// A single SQLite file backs both the snapshot table and the journal so a
// transition's snapshot write and journal append share one transaction.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a farm SQLite store and applies bundled migrations.
//
// This keeps startup and schema evolution in one place, instead of requiring
// callers to coordinate migrations independently.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateFarm stores a new farm snapshot at version 1 and its genesis journal
// record in one transaction.
func (s *Store) CreateFarm(ctx context.Context, record storage.FarmRecord, evt storage.EventRecord) error {
	raw, err := json.Marshal(record.State)
	if err != nil {
		return fmt.Errorf("encode farm state: %w", err)
	}

	version := record.Version
	if version == 0 {
		version = 1
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO farms (id, state, version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		record.ID, string(raw), version, toMillis(record.CreatedAt), toMillis(record.UpdatedAt)); err != nil {
		_ = tx.Rollback()
		if isConstraintError(err) {
			return storage.ErrFarmExists
		}
		return fmt.Errorf("insert farm: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO farm_events (id, farm_id, seq, type, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.FarmID, evt.Seq, string(evt.Type), string(evt.Payload), toMillis(evt.CreatedAt)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("append genesis event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create transaction: %w", err)
	}
	return nil
}

// GetFarm loads a farm snapshot.
func (s *Store) GetFarm(ctx context.Context, farmID string) (storage.FarmRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, state, version, created_at, updated_at
FROM farms
WHERE id = ?`, farmID)

	var (
		record           storage.FarmRecord
		raw              string
		created, updated int64
	)
	if err := row.Scan(&record.ID, &raw, &record.Version, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return storage.FarmRecord{}, storage.ErrNotFound
		}
		return storage.FarmRecord{}, fmt.Errorf("scan farm: %w", err)
	}

	var st state.GameState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return storage.FarmRecord{}, fmt.Errorf("decode farm state: %w", err)
	}
	record.State = st
	record.CreatedAt = fromMillis(created)
	record.UpdatedAt = fromMillis(updated)
	return record, nil
}

// SaveFarm replaces an existing snapshot and appends the journal record in
// one transaction. The write succeeds only when the stored version still
// equals expectedVersion.
func (s *Store) SaveFarm(ctx context.Context, record storage.FarmRecord, expectedVersion uint64, evt storage.EventRecord) error {
	raw, err := json.Marshal(record.State)
	if err != nil {
		return fmt.Errorf("encode farm state: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE farms
SET state = ?, version = ?, updated_at = ?
WHERE id = ? AND version = ?`,
		string(raw), record.Version, toMillis(record.UpdatedAt), record.ID, expectedVersion)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update farm: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update farm rows: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		if _, getErr := s.GetFarm(ctx, record.ID); getErr != nil {
			return getErr
		}
		return storage.ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO farm_events (id, farm_id, seq, type, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.FarmID, evt.Seq, string(evt.Type), string(evt.Payload), toMillis(evt.CreatedAt)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("append farm event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// ListEvents returns up to limit journal records with seq > afterSeq in
// ascending order.
func (s *Store) ListEvents(ctx context.Context, farmID string, afterSeq uint64, limit int) ([]storage.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, farm_id, seq, type, payload, created_at
FROM farm_events
WHERE farm_id = ? AND seq > ?
ORDER BY seq ASC
LIMIT ?`, farmID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("query farm events: %w", err)
	}
	defer rows.Close()

	var events []storage.EventRecord
	for rows.Next() {
		var (
			evt     storage.EventRecord
			typ     string
			payload string
			created int64
		)
		if err := rows.Scan(&evt.ID, &evt.FarmID, &evt.Seq, &typ, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan farm event: %w", err)
		}
		evt.Type = action.Type(typ)
		evt.Payload = json.RawMessage(payload)
		evt.CreatedAt = fromMillis(created)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate farm events: %w", err)
	}
	return events, nil
}

// isConstraintError detects SQLite uniqueness violations on inserts.
func isConstraintError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint") || strings.Contains(value, "constraint failed")
}
