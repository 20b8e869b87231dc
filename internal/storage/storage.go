// Package storage defines the persistence interfaces the orchestrator works
// against: farm snapshots with optimistic versioning and an append-only
// journal of accepted actions.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such farm" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrVersionConflict indicates a snapshot save raced another writer: the
// stored version no longer matches the version the transition was computed
// against. The caller should reload and retry.
var ErrVersionConflict = apperrors.New(apperrors.CodeVersionConflict, "farm version conflict")

// ErrFarmExists indicates a create collided with an existing farm id.
var ErrFarmExists = apperrors.New(apperrors.CodeFarmExists, "farm already exists")

// FarmRecord is one farm's persisted snapshot plus its version counter. The
// version increments on every accepted transition and guards against
// double-apply under concurrent writers.
type FarmRecord struct {
	ID        string
	State     state.GameState
	Version   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventRecord is one accepted transition in a farm's journal. Payloads are
// exact-decimal JSON; replaying the journal over the seed state reproduces
// the snapshot.
type EventRecord struct {
	ID        string
	FarmID    string
	Seq       uint64
	Type      action.Type
	Payload   json.RawMessage
	CreatedAt time.Time
}

// FarmStore persists farm snapshots.
type FarmStore interface {
	// CreateFarm stores a new farm at version 1, appending its genesis
	// journal record in the same transaction.
	// Returns ErrFarmExists if the id is taken.
	CreateFarm(ctx context.Context, record FarmRecord, evt EventRecord) error

	// GetFarm loads a farm snapshot.
	// Returns ErrNotFound if the farm does not exist.
	GetFarm(ctx context.Context, farmID string) (FarmRecord, error)

	// SaveFarm replaces the snapshot of an existing farm, appending the
	// journal record in the same transaction. The write only succeeds when
	// the stored version equals expectedVersion; otherwise ErrVersionConflict.
	SaveFarm(ctx context.Context, record FarmRecord, expectedVersion uint64, evt EventRecord) error
}

// EventStore reads a farm's action journal.
type EventStore interface {
	// ListEvents returns up to limit journal records with Seq > afterSeq in
	// ascending order.
	ListEvents(ctx context.Context, farmID string, afterSeq uint64, limit int) ([]EventRecord, error)
}
