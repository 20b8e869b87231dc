// Package service coordinates farm state transitions against durable storage.
//
// The transition engine itself is pure; this package owns everything around
// it: loading the snapshot, serializing writes per farm, journaling the
// applied action, and re-deriving snapshots from the journal.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/engine"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage"
)

// TypeFarmCreated marks the genesis journal record. Its payload is the seed
// state the farm was created with, so a replay has a starting point without
// consulting the snapshot table.
const TypeFarmCreated action.Type = "farm.created"

// ErrReplayDiverged reports that folding the journal does not reproduce the
// stored snapshot.
var ErrReplayDiverged = apperrors.New(apperrors.CodeReplayDiverged, "replayed state diverges from stored snapshot")

// ErrMissingFarmID rejects requests without an account identifier.
var ErrMissingFarmID = apperrors.New(apperrors.CodeActionMalformed, "farm id is required")

// listEventsPageSize bounds how many journal records a replay loads at once.
const listEventsPageSize = 200

// Service applies actions to farms and keeps the snapshot and journal in
// lockstep. Writes to the same farm are serialized in-process; the version
// check on save guards against writers outside this process.
type Service struct {
	farms       storage.FarmStore
	events      storage.EventStore
	clock       func() time.Time
	idGenerator func() (string, error)
	tracer      trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the time source. Tests use this to pin season
// boundaries and pricing windows.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides journal record ID generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// New creates a Service with default dependencies.
func New(farms storage.FarmStore, events storage.EventStore, opts ...Option) *Service {
	s := &Service{
		farms:       farms,
		events:      events,
		clock:       time.Now,
		idGenerator: newEventID,
		tracer:      otel.Tracer("service"),
		locks:       map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newEventID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// farmLock returns the mutex serializing writes for one farm.
func (s *Service) farmLock(farmID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[farmID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[farmID] = lock
	}
	return lock
}

// CreateFarm stores a new farm at version 1 with the given seed state and
// appends the genesis journal record in the same transaction.
func (s *Service) CreateFarm(ctx context.Context, farmID string, seed state.GameState) (storage.FarmRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateFarm",
		trace.WithAttributes(attribute.String("farm.id", farmID)))
	defer span.End()

	if farmID == "" {
		return storage.FarmRecord{}, ErrMissingFarmID
	}

	now := s.clock().UTC()
	payload, err := json.Marshal(seed)
	if err != nil {
		return storage.FarmRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "encode seed state", err)
	}
	eventID, err := s.idGenerator()
	if err != nil {
		return storage.FarmRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "generate event id", err)
	}

	record := storage.FarmRecord{
		ID:        farmID,
		State:     seed.Clone(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	evt := storage.EventRecord{
		ID:        eventID,
		FarmID:    farmID,
		Seq:       1,
		Type:      TypeFarmCreated,
		Payload:   payload,
		CreatedAt: now,
	}
	if err := s.farms.CreateFarm(ctx, record, evt); err != nil {
		return storage.FarmRecord{}, err
	}
	return record, nil
}

// Dispatch applies a single action to a farm. On success the new snapshot and
// the journaled action are persisted atomically and the updated record is
// returned. On rejection nothing is persisted and the rejection is returned
// unchanged, so callers can branch on its code.
func (s *Service) Dispatch(ctx context.Context, farmID string, act action.Action) (storage.FarmRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.Dispatch",
		trace.WithAttributes(
			attribute.String("farm.id", farmID),
			attribute.String("action.type", string(act.ActionType())),
		))
	defer span.End()

	if farmID == "" {
		return storage.FarmRecord{}, ErrMissingFarmID
	}

	lock := s.farmLock(farmID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.farms.GetFarm(ctx, farmID)
	if err != nil {
		return storage.FarmRecord{}, err
	}

	now := s.clock().UTC()
	next, err := engine.Apply(record.State, act, action.Context{
		CreatedAt: now,
		FarmID:    farmID,
	})
	if err != nil {
		return storage.FarmRecord{}, err
	}

	payload, err := json.Marshal(act)
	if err != nil {
		return storage.FarmRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "encode action", err)
	}
	eventID, err := s.idGenerator()
	if err != nil {
		return storage.FarmRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "generate event id", err)
	}

	updated := storage.FarmRecord{
		ID:        farmID,
		State:     next,
		Version:   record.Version + 1,
		CreatedAt: record.CreatedAt,
		UpdatedAt: now,
	}
	evt := storage.EventRecord{
		ID:        eventID,
		FarmID:    farmID,
		Seq:       record.Version + 1,
		Type:      act.ActionType(),
		Payload:   payload,
		CreatedAt: now,
	}
	if err := s.farms.SaveFarm(ctx, updated, record.Version, evt); err != nil {
		return storage.FarmRecord{}, err
	}
	return updated, nil
}

// Replay folds the journal from the genesis record forward and compares the
// result against the stored snapshot. A mismatch means the snapshot was
// written by something other than the engine and is reported as
// ErrReplayDiverged. The derived state is returned either way so callers can
// inspect the divergence.
func (s *Service) Replay(ctx context.Context, farmID string) (state.GameState, error) {
	ctx, span := s.tracer.Start(ctx, "service.Replay",
		trace.WithAttributes(attribute.String("farm.id", farmID)))
	defer span.End()

	if farmID == "" {
		return state.GameState{}, ErrMissingFarmID
	}

	record, err := s.farms.GetFarm(ctx, farmID)
	if err != nil {
		return state.GameState{}, err
	}

	derived, err := s.foldJournal(ctx, farmID)
	if err != nil {
		return state.GameState{}, err
	}

	if !derived.Equal(record.State) {
		return derived, ErrReplayDiverged
	}
	return derived, nil
}

// foldJournal re-derives a farm's state purely from its journal.
func (s *Service) foldJournal(ctx context.Context, farmID string) (state.GameState, error) {
	var (
		st       state.GameState
		seeded   bool
		afterSeq uint64
	)
	for {
		page, err := s.events.ListEvents(ctx, farmID, afterSeq, listEventsPageSize)
		if err != nil {
			return state.GameState{}, err
		}
		for _, evt := range page {
			if !seeded {
				if evt.Type != TypeFarmCreated || evt.Seq != 1 {
					return state.GameState{}, apperrors.WithMetadata(apperrors.CodeReplayDiverged,
						"journal does not start with a genesis record",
						map[string]string{"type": string(evt.Type)})
				}
				if err := json.Unmarshal(evt.Payload, &st); err != nil {
					return state.GameState{}, apperrors.Wrap(apperrors.CodeReplayDiverged, "decode genesis state", err)
				}
				seeded = true
				afterSeq = evt.Seq
				continue
			}

			act, err := engine.Decode(evt.Type, evt.Payload)
			if err != nil {
				return state.GameState{}, err
			}
			st, err = engine.Apply(st, act, action.Context{
				CreatedAt: evt.CreatedAt,
				FarmID:    farmID,
			})
			if err != nil {
				return state.GameState{}, err
			}
			afterSeq = evt.Seq
		}
		if len(page) < listEventsPageSize {
			break
		}
	}
	if !seeded {
		return state.GameState{}, apperrors.New(apperrors.CodeReplayDiverged, "farm journal is empty")
	}
	return st, nil
}
