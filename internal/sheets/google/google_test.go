package google

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"finboard/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ", "Snapshots")
	if err == nil || err.Error() != "missing spreadsheet ID" {
		t.Fatalf("New() error = %v, want missing spreadsheet ID", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), "sheet-id", "Snapshots")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("New() error = %v, want missing credentials", err)
	}
}

func TestServiceAccountCredentials_FileNotFound(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/non/existent/credentials.json")

	if _, err := serviceAccountCredentials(); err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("serviceAccountCredentials() error = %v", err)
	}
}

func TestServiceAccountCredentials_InlinePreferred(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/non/existent/credentials.json")

	b, err := serviceAccountCredentials()
	if err != nil {
		t.Fatalf("serviceAccountCredentials() error = %v", err)
	}
	if string(b) != `{"type":"service_account"}` {
		t.Errorf("credentials = %s", b)
	}
}

func TestAppendSnapshot_Uninitialized(t *testing.T) {
	e := &Exporter{spreadsheetID: "test", sheetBase: "Snapshots"}
	if err := e.AppendSnapshot(context.Background(), core.PortfolioSnapshot{}); err == nil {
		t.Error("AppendSnapshot() should fail without a sheets service")
	}
}

func TestSnapshotRow(t *testing.T) {
	snap := core.PortfolioSnapshot{
		TakenAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		UserID:  "alice",
		Trigger: "loan created",
		Total:   1000,
		Totals: map[string]float64{
			core.CategoryInvestments: 600,
			core.CategoryLoans:       300,
			core.CategoryCapex:       100,
			core.CategoryVouchers:    0,
		},
		Shares: map[string]int{
			core.CategoryInvestments: 60,
			core.CategoryLoans:       30,
			core.CategoryCapex:       10,
			core.CategoryVouchers:    0,
		},
	}

	want := []any{"2026-03-04T05:06:07Z", "alice", "loan created", 1000.0,
		600.0, 60, 300.0, 30, 100.0, 10, 0.0, 0}
	if got := snapshotRow(snap); !reflect.DeepEqual(got, want) {
		t.Errorf("snapshotRow() = %v, want %v", got, want)
	}
	if len(snapshotHeader()) != len(want) {
		t.Errorf("header has %d columns, row has %d", len(snapshotHeader()), len(want))
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{1: "A", 12: "L", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for n, want := range tests {
		if got := columnName(n); got != want {
			t.Errorf("columnName(%d) = %q, want %q", n, got, want)
		}
	}
	if lastColumn() != "L" {
		t.Errorf("lastColumn() = %q, want L", lastColumn())
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Snapshots", 2026, "2026 Snapshots"},
		{"", 2023, ""},
		{"Portfolio Log", 2022, "2022 Portfolio Log"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}
