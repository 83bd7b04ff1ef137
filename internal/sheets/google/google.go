package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"finboard/internal/core"
	"finboard/internal/ports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Exporter appends portfolio snapshot rows to a yearly sheet, for example
// "2026 Snapshots".
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string

	mu            sync.Mutex
	headerWritten map[string]bool
}

var _ ports.SnapshotWriter = (*Exporter)(nil)

// New creates an exporter using service-account credentials from the
// environment (see newSheetsService).
func New(ctx context.Context, spreadsheetID, sheetBase string) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetBase = strings.TrimSpace(sheetBase)
	if sheetBase == "" {
		sheetBase = "Snapshots"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
		headerWritten: make(map[string]bool),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func serviceAccountCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}

	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// AppendSnapshot writes one row to the sheet for the snapshot's year,
// adding the header row first when the sheet is empty.
func (e *Exporter) AppendSnapshot(ctx context.Context, s core.PortfolioSnapshot) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheet := yearPrefixedName(e.sheetBase, s.TakenAt.Year())
	if err := e.ensureHeader(ctx, sheet); err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A:%s", sheet, lastColumn())
	vr := &gsheet.ValueRange{Values: [][]any{snapshotRow(s)}}
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append snapshot to %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Snapshot exported",
		"sheet", sheet,
		"user_id", s.UserID,
		"trigger", s.Trigger,
		"total", s.Total)
	return nil
}

func (e *Exporter) ensureHeader(ctx context.Context, sheet string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.headerWritten[sheet] {
		return nil
	}

	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, sheet+"!A1:A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", sheet, err)
	}
	if len(resp.Values) == 0 {
		rng := fmt.Sprintf("%s!A1:%s1", sheet, lastColumn())
		vr := &gsheet.ValueRange{Values: [][]any{snapshotHeader()}}
		if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("write header of %s: %w", sheet, err)
		}
	}
	e.headerWritten[sheet] = true
	return nil
}

func snapshotHeader() []any {
	row := []any{"Timestamp", "User", "Trigger", "Total"}
	for _, cat := range core.PortfolioCategories {
		row = append(row, cat, cat+" %")
	}
	return row
}

// snapshotRow lays out: timestamp, user, trigger, total, then amount and
// share for each category in display order.
func snapshotRow(s core.PortfolioSnapshot) []any {
	row := []any{s.TakenAt.UTC().Format(time.RFC3339), s.UserID, s.Trigger, s.Total}
	for _, cat := range core.PortfolioCategories {
		row = append(row, s.Totals[cat], s.Shares[cat])
	}
	return row
}

// lastColumn is the column letter of the last snapshot field.
func lastColumn() string {
	return columnName(len(snapshotHeader()))
}

// columnName converts a 1-based column index to its A1 letter form.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
