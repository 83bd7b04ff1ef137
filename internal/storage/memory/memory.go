// Package memory is an in-process backend. Data lives for the process
// lifetime only; it backs development runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"finboard/internal/core"
	"finboard/internal/ports"

	"github.com/google/uuid"
)

// Collection is a user-scoped record list guarded by a mutex.
type Collection[T core.Record] struct {
	mu    sync.Mutex
	items []T
	less  func(a, b T) bool
}

func NewCollection[T core.Record](less func(a, b T) bool) *Collection[T] {
	return &Collection[T]{less: less}
}

func (c *Collection[T]) ListForUser(_ context.Context, userID string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0)
	for _, it := range c.items {
		if it.OwnerID() == userID {
			out = append(out, it)
		}
	}
	if c.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return c.less(out[i], out[j]) })
	}
	return out, nil
}

func (c *Collection[T]) Insert(_ context.Context, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("validate %s: %w", rec.Kind(), err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.RecordID() == rec.RecordID() {
			return rec, fmt.Errorf("insert %s: duplicate id %q", rec.Kind(), rec.RecordID())
		}
	}
	c.items = append(c.items, rec)
	return rec, nil
}

func (c *Collection[T]) DeleteByID(_ context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.RecordID() == id && it.OwnerID() == userID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// MetricStore seeds a dashboard snapshot per user on first read.
type MetricStore struct {
	mu      sync.Mutex
	metrics map[string]core.DashboardMetric
}

func (m *MetricStore) GetOrSeed(_ context.Context, userID string) (core.DashboardMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metrics == nil {
		m.metrics = make(map[string]core.DashboardMetric)
	}
	if dm, ok := m.metrics[userID]; ok {
		return dm, nil
	}
	dm := core.SeedDashboardMetric(uuid.NewString(), userID)
	m.metrics[userID] = dm
	return dm, nil
}

// Store holds one collection per record kind.
type Store struct {
	Vouchers    *Collection[core.Voucher]
	Crops       *Collection[core.Crop]
	Capex       *Collection[core.CapexItem]
	Investments *Collection[core.Investment]
	Loans       *Collection[core.Loan]
	Plans       *Collection[core.Plan]
	Metrics     *MetricStore
}

func New() *Store {
	return &Store{
		Vouchers: NewCollection(func(a, b core.Voucher) bool { return a.CreatedAt.After(b.CreatedAt) }),
		Crops:    NewCollection(func(a, b core.Crop) bool { return a.CreatedAt.After(b.CreatedAt) }),
		Capex: NewCollection(func(a, b core.CapexItem) bool {
			if !a.Date.Equal(b.Date.Time) {
				return a.Date.After(b.Date.Time)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}),
		Investments: NewCollection(func(a, b core.Investment) bool { return a.CreatedAt.After(b.CreatedAt) }),
		Loans:       NewCollection(func(a, b core.Loan) bool { return a.CreatedAt.After(b.CreatedAt) }),
		Plans:       NewCollection(planOrder),
		Metrics:     &MetricStore{},
	}
}

// planOrder sorts by deadline ascending, missing deadlines last.
func planOrder(a, b core.Plan) bool {
	switch {
	case a.Deadline.IsEmpty() != b.Deadline.IsEmpty():
		return b.Deadline.IsEmpty()
	case !a.Deadline.Equal(b.Deadline.Time):
		return a.Deadline.Before(b.Deadline.Time)
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

// Stores exposes the store through the collection ports.
func (s *Store) Stores() ports.Stores {
	return ports.Stores{
		Vouchers:    s.Vouchers,
		Crops:       s.Crops,
		Capex:       s.Capex,
		Investments: s.Investments,
		Loans:       s.Loans,
		Plans:       s.Plans,
		Metrics:     s.Metrics,
	}
}
