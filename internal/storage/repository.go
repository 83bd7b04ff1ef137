package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finboard/internal/core"
	"finboard/internal/ports"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the database handle shared by every collection store.
type SQLiteRepository struct {
	db *sql.DB

	vouchers    *tableStore[core.Voucher]
	crops       *tableStore[core.Crop]
	capex       *tableStore[core.CapexItem]
	investments *tableStore[core.Investment]
	loans       *tableStore[core.Loan]
	plans       *tableStore[core.Plan]
	metrics     *metricStore
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("SQLite repository ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:          db,
		vouchers:    newTableStore(db, voucherTable),
		crops:       newTableStore(db, cropTable),
		capex:       newTableStore(db, capexTable),
		investments: newTableStore(db, investmentTable),
		loans:       newTableStore(db, loanTable),
		plans:       newTableStore(db, planTable),
		metrics:     &metricStore{db: db},
	}, nil
}

// Stores exposes the repository through the collection ports.
func (r *SQLiteRepository) Stores() ports.Stores {
	return ports.Stores{
		Vouchers:    r.vouchers,
		Crops:       r.crops,
		Capex:       r.capex,
		Investments: r.investments,
		Loans:       r.loans,
		Plans:       r.plans,
		Metrics:     r.metrics,
	}
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
