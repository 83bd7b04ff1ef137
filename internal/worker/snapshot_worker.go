package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/ports"
)

// Snapshotter recomputes a user's portfolio view.
type Snapshotter interface {
	Snapshot(ctx context.Context, userID, trigger string, at time.Time) (core.PortfolioSnapshot, error)
}

// SnapshotWorker turns record events into exported portfolio snapshots.
// Each event triggers a fresh recompute from the store; the event only
// names the user and what changed.
type SnapshotWorker struct {
	portfolio Snapshotter
	writer    ports.SnapshotWriter
	now       func() time.Time

	processed atomic.Int64
	failed    atomic.Int64
}

func NewSnapshotWorker(portfolio Snapshotter, writer ports.SnapshotWriter) *SnapshotWorker {
	return &SnapshotWorker{
		portfolio: portfolio,
		writer:    writer,
		now:       time.Now,
	}
}

// HandleRecordEvent is the AMQP handler. A returned error requeues the event.
func (w *SnapshotWorker) HandleRecordEvent(ctx context.Context, msg *amqp.RecordEvent) error {
	at := msg.Timestamp
	if at.IsZero() {
		at = w.now()
	}
	trigger := fmt.Sprintf("%s %s", msg.Kind, msg.Action)

	slog.InfoContext(ctx, "Processing record event",
		"user_id", msg.UserID,
		"trigger", trigger,
		"record_id", msg.RecordID)

	snap, err := w.portfolio.Snapshot(ctx, msg.UserID, trigger, at)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("compute snapshot: %w", err)
	}

	if err := w.writer.AppendSnapshot(ctx, snap); err != nil {
		w.failed.Add(1)
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.processed.Add(1)
	return nil
}

// Stats returns the number of handled and failed events since start.
func (w *SnapshotWorker) Stats() (processed, failed int64) {
	return w.processed.Load(), w.failed.Load()
}
