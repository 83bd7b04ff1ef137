package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"finboard/internal/core"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one record type maps onto its SQL table.
type table[T core.Record] struct {
	name    string
	columns []string // first two are always id, user_id
	orderBy string
	args    func(T) []any
	scan    func(rowScanner) (T, error)
}

// tableStore implements ports.RecordStore over a single table.
type tableStore[T core.Record] struct {
	db        *sql.DB
	t         table[T]
	listSQL   string
	insertSQL string
	deleteSQL string
}

func newTableStore[T core.Record](db *sql.DB, t table[T]) *tableStore[T] {
	cols := strings.Join(t.columns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return &tableStore[T]{
		db:        db,
		t:         t,
		listSQL:   fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? ORDER BY %s", cols, t.name, t.orderBy),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, cols, placeholders),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", t.name),
	}
}

func (s *tableStore[T]) ListForUser(ctx context.Context, userID string) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.listSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		rec, err := s.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.t.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.t.name, err)
	}
	return out, nil
}

func (s *tableStore[T]) Insert(ctx context.Context, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("validate %s: %w", rec.Kind(), err)
	}
	if _, err := s.db.ExecContext(ctx, s.insertSQL, s.t.args(rec)...); err != nil {
		return rec, fmt.Errorf("insert %s: %w", s.t.name, err)
	}
	return rec, nil
}

func (s *tableStore[T]) DeleteByID(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, s.deleteSQL, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", s.t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Column helpers. created_at is stored as unix nanoseconds; calendar dates
// as YYYY-MM-DD text or NULL.

func unixNanos(t time.Time) int64 { return t.UnixNano() }

func fromUnixNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func scanDate(ns sql.NullString) (core.Date, error) {
	if !ns.Valid {
		return core.Date{}, nil
	}
	return core.ParseDate(ns.String)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func scanFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

var voucherTable = table[core.Voucher]{
	name:    "vouchers",
	columns: []string{"id", "user_id", "voucher_number", "amount", "description", "status", "created_at"},
	orderBy: "created_at DESC",
	args: func(v core.Voucher) []any {
		return []any{v.ID, v.UserID, v.VoucherNumber, v.Amount, v.Description, v.Status, unixNanos(v.CreatedAt)}
	},
	scan: func(row rowScanner) (core.Voucher, error) {
		var v core.Voucher
		var created int64
		if err := row.Scan(&v.ID, &v.UserID, &v.VoucherNumber, &v.Amount, &v.Description, &v.Status, &created); err != nil {
			return v, err
		}
		v.CreatedAt = fromUnixNanos(created)
		return v, nil
	},
}

var cropTable = table[core.Crop]{
	name:    "crops",
	columns: []string{"id", "user_id", "crop_name", "area_planted", "yield", "harvest_date", "status", "created_at"},
	orderBy: "created_at DESC",
	args: func(c core.Crop) []any {
		return []any{c.ID, c.UserID, c.CropName, nullFloat(c.AreaPlanted), nullFloat(c.Yield), nullDate(c.HarvestDate), c.Status, unixNanos(c.CreatedAt)}
	},
	scan: func(row rowScanner) (core.Crop, error) {
		var (
			c           core.Crop
			area, yield sql.NullFloat64
			harvest     sql.NullString
			created     int64
		)
		if err := row.Scan(&c.ID, &c.UserID, &c.CropName, &area, &yield, &harvest, &c.Status, &created); err != nil {
			return c, err
		}
		d, err := scanDate(harvest)
		if err != nil {
			return c, err
		}
		c.AreaPlanted, c.Yield, c.HarvestDate = scanFloat(area), scanFloat(yield), d
		c.CreatedAt = fromUnixNanos(created)
		return c, nil
	},
}

var capexTable = table[core.CapexItem]{
	name:    "capex_items",
	columns: []string{"id", "user_id", "item_name", "amount", "category", "status", "date", "created_at"},
	orderBy: "date DESC, created_at DESC",
	args: func(c core.CapexItem) []any {
		return []any{c.ID, c.UserID, c.ItemName, c.Amount, c.Category, c.Status, nullDate(c.Date), unixNanos(c.CreatedAt)}
	},
	scan: func(row rowScanner) (core.CapexItem, error) {
		var (
			c       core.CapexItem
			date    sql.NullString
			created int64
		)
		if err := row.Scan(&c.ID, &c.UserID, &c.ItemName, &c.Amount, &c.Category, &c.Status, &date, &created); err != nil {
			return c, err
		}
		d, err := scanDate(date)
		if err != nil {
			return c, err
		}
		c.Date, c.CreatedAt = d, fromUnixNanos(created)
		return c, nil
	},
}

var investmentTable = table[core.Investment]{
	name:    "investments",
	columns: []string{"id", "user_id", "investment_name", "amount", "return_percentage", "status", "start_date", "created_at"},
	orderBy: "created_at DESC",
	args: func(i core.Investment) []any {
		return []any{i.ID, i.UserID, i.InvestmentName, i.Amount, i.ReturnPercentage, i.Status, nullDate(i.StartDate), unixNanos(i.CreatedAt)}
	},
	scan: func(row rowScanner) (core.Investment, error) {
		var (
			i       core.Investment
			start   sql.NullString
			created int64
		)
		if err := row.Scan(&i.ID, &i.UserID, &i.InvestmentName, &i.Amount, &i.ReturnPercentage, &i.Status, &start, &created); err != nil {
			return i, err
		}
		d, err := scanDate(start)
		if err != nil {
			return i, err
		}
		i.StartDate, i.CreatedAt = d, fromUnixNanos(created)
		return i, nil
	},
}

var loanTable = table[core.Loan]{
	name:    "loans",
	columns: []string{"id", "user_id", "loan_name", "principal_amount", "interest_rate", "tenure_months", "status", "start_date", "created_at"},
	orderBy: "created_at DESC",
	args: func(l core.Loan) []any {
		return []any{l.ID, l.UserID, l.LoanName, l.PrincipalAmount, l.InterestRate, l.TenureMonths, l.Status, nullDate(l.StartDate), unixNanos(l.CreatedAt)}
	},
	scan: func(row rowScanner) (core.Loan, error) {
		var (
			l       core.Loan
			start   sql.NullString
			created int64
		)
		if err := row.Scan(&l.ID, &l.UserID, &l.LoanName, &l.PrincipalAmount, &l.InterestRate, &l.TenureMonths, &l.Status, &start, &created); err != nil {
			return l, err
		}
		d, err := scanDate(start)
		if err != nil {
			return l, err
		}
		l.StartDate, l.CreatedAt = d, fromUnixNanos(created)
		return l, nil
	},
}

var planTable = table[core.Plan]{
	name:    "plans",
	columns: []string{"id", "user_id", "plan_name", "category", "target_amount", "current_amount", "deadline", "priority", "created_at"},
	// Missing deadlines sort last.
	orderBy: "deadline IS NULL, deadline ASC, created_at DESC",
	args: func(p core.Plan) []any {
		return []any{p.ID, p.UserID, p.PlanName, p.Category, p.TargetAmount, p.CurrentAmount, nullDate(p.Deadline), p.Priority, unixNanos(p.CreatedAt)}
	},
	scan: func(row rowScanner) (core.Plan, error) {
		var (
			p        core.Plan
			deadline sql.NullString
			created  int64
		)
		if err := row.Scan(&p.ID, &p.UserID, &p.PlanName, &p.Category, &p.TargetAmount, &p.CurrentAmount, &deadline, &p.Priority, &created); err != nil {
			return p, err
		}
		d, err := scanDate(deadline)
		if err != nil {
			return p, err
		}
		p.Deadline, p.CreatedAt = d, fromUnixNanos(created)
		return p, nil
	},
}
