package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finboard/internal/core"
	"finboard/internal/ports"

	"github.com/google/uuid"
)

// Stampable is a record that can receive its identity and creation defaults.
type Stampable[T any] interface {
	core.Record
	Stamp(id, userID string, now time.Time) T
}

// RecordService orchestrates one collection: the store is written first and
// a record event is published afterwards. A failed publish is logged and
// never fails the request; the row is already saved.
type RecordService[T Stampable[T]] struct {
	store     ports.RecordStore[T]
	publisher ports.EventPublisher
	now       func() time.Time
	newID     func() string
}

// NewRecordService wires a collection store. publisher may be nil.
func NewRecordService[T Stampable[T]](store ports.RecordStore[T], publisher ports.EventPublisher) *RecordService[T] {
	return &RecordService[T]{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List returns the user's records in page order.
func (s *RecordService[T]) List(ctx context.Context, userID string) ([]T, error) {
	recs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

// Create stamps draft with a fresh id, the owner and creation defaults,
// validates it and inserts it.
func (s *RecordService[T]) Create(ctx context.Context, userID string, draft T) (T, error) {
	rec := draft.Stamp(s.newID(), userID, s.now().UTC())
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("validate %s: %w", rec.Kind(), err)
	}

	saved, err := s.store.Insert(ctx, rec)
	if err != nil {
		return rec, fmt.Errorf("save %s: %w", rec.Kind(), err)
	}

	s.publish(ctx, saved.Kind(), core.ActionCreated, userID, saved.RecordID())
	return saved, nil
}

// Delete removes one of the user's records. core.ErrNotFound is returned
// wrapped when the record does not exist or belongs to someone else.
func (s *RecordService[T]) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteByID(ctx, userID, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	var zero T
	s.publish(ctx, zero.Kind(), core.ActionDeleted, userID, id)
	return nil
}

func (s *RecordService[T]) publish(ctx context.Context, kind core.Kind, action, userID, id string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping record event", "kind", kind, "action", action)
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, kind, action, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", kind,
			"action", action,
			"record_id", id,
			"error", err)
	}
}
