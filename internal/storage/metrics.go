package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finboard/internal/core"

	"github.com/google/uuid"
)

type metricStore struct {
	db *sql.DB
}

const selectMetricSQL = `SELECT id, user_id, watches_sold, open_orders, capex_amount, this_week_metric, this_month_metric
FROM dashboard_metrics WHERE user_id = ?`

// GetOrSeed returns the user's snapshot. The first read inserts the seeded
// row; a concurrent first read loses the insert race silently and re-reads.
func (s *metricStore) GetOrSeed(ctx context.Context, userID string) (core.DashboardMetric, error) {
	m, err := s.get(ctx, userID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.DashboardMetric{}, fmt.Errorf("get dashboard metric: %w", err)
	}

	seed := core.SeedDashboardMetric(uuid.NewString(), userID)
	_, err = s.db.ExecContext(ctx, `INSERT OR IGNORE INTO dashboard_metrics
(id, user_id, watches_sold, open_orders, capex_amount, this_week_metric, this_month_metric)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seed.ID, seed.UserID, seed.WatchesSold, seed.OpenOrders, seed.CapexAmount, seed.ThisWeekMetric, seed.ThisMonthMetric)
	if err != nil {
		return core.DashboardMetric{}, fmt.Errorf("seed dashboard metric: %w", err)
	}

	m, err = s.get(ctx, userID)
	if err != nil {
		return core.DashboardMetric{}, fmt.Errorf("read seeded dashboard metric: %w", err)
	}
	return m, nil
}

func (s *metricStore) get(ctx context.Context, userID string) (core.DashboardMetric, error) {
	var m core.DashboardMetric
	err := s.db.QueryRowContext(ctx, selectMetricSQL, userID).Scan(
		&m.ID, &m.UserID, &m.WatchesSold, &m.OpenOrders, &m.CapexAmount, &m.ThisWeekMetric, &m.ThisMonthMetric)
	return m, err
}
