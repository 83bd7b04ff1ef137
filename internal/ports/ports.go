package ports

import (
	"context"

	"finboard/internal/core"
)

// Ports for outbound adapters. Every implementation scopes reads and
// deletes to the given user.
type (
	// RecordStore persists one collection of user-owned records.
	RecordStore[T any] interface {
		// ListForUser returns the user's records in the collection's page order.
		ListForUser(ctx context.Context, userID string) ([]T, error)
		// Insert stores rec and returns it as persisted.
		Insert(ctx context.Context, rec T) (T, error)
		// DeleteByID removes a record owned by userID. It returns
		// core.ErrNotFound when no such record exists for that user.
		DeleteByID(ctx context.Context, userID, id string) error
	}

	// MetricStore holds the per-user dashboard snapshot.
	MetricStore interface {
		// GetOrSeed returns the user's snapshot, creating the seeded one on first read.
		GetOrSeed(ctx context.Context, userID string) (core.DashboardMetric, error)
	}

	// Stores bundles every collection a backend provides.
	Stores struct {
		Vouchers    RecordStore[core.Voucher]
		Crops       RecordStore[core.Crop]
		Capex       RecordStore[core.CapexItem]
		Investments RecordStore[core.Investment]
		Loans       RecordStore[core.Loan]
		Plans       RecordStore[core.Plan]
		Metrics     MetricStore
	}

	// EventPublisher announces record changes to background consumers.
	EventPublisher interface {
		PublishRecordEvent(ctx context.Context, kind core.Kind, action, userID, recordID string) error
	}

	// SnapshotWriter appends a portfolio snapshot row to an external sheet.
	SnapshotWriter interface {
		AppendSnapshot(ctx context.Context, s core.PortfolioSnapshot) error
	}
)
