package dataset

import (
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	src := "Team,Year,Gold\nUSA,2020,39\nChina,2020,38\n"
	d, err := LoadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", d.Len())
	}
	if got := d.Value(0, "Team"); got != "USA" {
		t.Fatalf("unexpected value: %q", got)
	}
	if d.ID == "" {
		t.Fatal("expected a dataset id")
	}
}

func TestLoadCSVStripsBOM(t *testing.T) {
	src := "\ufeffTeam,Year\nUSA,2020\n"
	d, err := LoadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.HasColumn("Team") {
		t.Fatalf("BOM not stripped, columns: %v", d.Columns)
	}
}

func TestLoadCSVZeroRows(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("Team,Year,Gold\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("expected zero rows, got %d", d.Len())
	}
}

func TestLoadCSVRaggedRows(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("Team,Year,Gold\nUSA,2020\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := d.Value(0, "Gold"); got != "" {
		t.Fatalf("expected empty cell for short row, got %q", got)
	}
}

func TestValueMissingColumn(t *testing.T) {
	d := New([]string{"Team"}, [][]string{{"USA"}})
	if got := d.Value(0, "Nope"); got != "" {
		t.Fatalf("expected empty for missing column, got %q", got)
	}
}
