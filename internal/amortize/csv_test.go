package amortize

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeScheduleCSV(t *testing.T) {
	s := scenarioA(t)

	var buf bytes.Buffer
	if err := EncodeScheduleCSV(&buf, s.Periods); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 145 {
		t.Fatalf("expected header + 144 rows, got %d", len(rows))
	}

	want := [][]string{
		{"period", "payment_date", "payment", "principal_paid", "interest_paid", "start_balance", "ending_balance"},
		{"1", "2021-12-01", "2345.05", "1845.05", "500.00", "300000.00", "298154.95"},
	}
	for i, w := range want {
		for j := range w {
			if rows[i][j] != w[j] {
				t.Errorf("row %d col %d: expected %q, got %q", i, j, w[j], rows[i][j])
			}
		}
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	if err := WriteScheduleCSV(path, scenarioA(t).Periods[:3]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines := bytes.Count(raw, []byte("\n")); lines != 4 {
		t.Errorf("expected 4 lines, got %d", lines)
	}
}
