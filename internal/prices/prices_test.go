package prices

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/pharmadocs/internal/diag"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024_注射剤.xlsx", "注射剤"},
		{"内服薬一覧.xlsx", "内服薬"},
		{"内服_2024.xlsx", "内服薬"},
		{"外用薬.xlsx", "外用薬"},
		{"注射剤と内服.xlsx", "注射剤"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := Category(tt.in); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeWorkbook(t, filepath.Join(dir, "注射剤_2024.xlsx"), [][]any{
		{"品名", "規格", "薬価"},
		{"製品A", "1瓶", 12345},
		{"製品B"},
	})
	writeWorkbook(t, filepath.Join(dir, "外用薬.xlsx"), [][]any{
		{"品名", "薬価"},
		{"軟膏", 100},
	})
	if err := os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	var rec diag.Recorder
	tables, err := Load(root, &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}

	inj := tables[CategoryInjection]
	if inj == nil {
		t.Fatal("expected injection table")
	}
	if !slices.Equal(inj.Columns, []string{"品名", "規格", "薬価"}) {
		t.Errorf("unexpected columns %v", inj.Columns)
	}
	if inj.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", inj.Len())
	}
	if !slices.Equal(inj.Rows[0], []string{"製品A", "1瓶", "12345"}) {
		t.Errorf("unexpected first row %v", inj.Rows[0])
	}
	if !slices.Equal(inj.Rows[1], []string{"製品B", "", ""}) {
		t.Errorf("expected short row padded, got %v", inj.Rows[1])
	}

	if tables["外用薬"] == nil || tables["外用薬"].Len() != 1 {
		t.Errorf("expected 外用薬 table keyed by stem, got %v", tables["外用薬"])
	}

	if n := rec.Count(slog.LevelError); n != 1 {
		t.Errorf("expected 1 error for broken workbook, got %d", n)
	}
}

func TestLoad_LastWins(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeWorkbook(t, filepath.Join(dir, "a_内服.xlsx"), [][]any{{"品名"}, {"x"}})
	writeWorkbook(t, filepath.Join(dir, "b_内服薬.xlsx"), [][]any{{"品名"}, {"y"}, {"z"}})

	tables, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tables[CategoryOral]; got == nil || got.Len() != 2 {
		t.Errorf("expected later file to win, got %v", got)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	var rec diag.Recorder
	tables, err := Load(t.TempDir(), &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tables == nil || len(tables) != 0 {
		t.Errorf("expected empty map, got %v", tables)
	}
	if rec.Count(slog.LevelWarn) != 1 {
		t.Errorf("expected 1 warning, got %d", rec.Count(slog.LevelWarn))
	}
}

func TestLoad_ExtraCellsGetGeneratedColumns(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeWorkbook(t, filepath.Join(dir, "外用薬.xlsx"), [][]any{
		{"品名", "", "薬価"},
		{"軟膏", "10g", 100, "備考"},
		{"クリーム"},
	})

	tables, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl := tables["外用薬"]
	if tbl == nil {
		t.Fatal("expected 外用薬 table")
	}
	want := []string{"品名", "Unnamed: 1", "薬価", "Unnamed: 3"}
	if !slices.Equal(tbl.Columns, want) {
		t.Errorf("columns = %v, want %v", tbl.Columns, want)
	}
	if !slices.Equal(tbl.Rows[0], []string{"軟膏", "10g", "100", "備考"}) {
		t.Errorf("expected wide row kept whole, got %v", tbl.Rows[0])
	}
	if !slices.Equal(tbl.Rows[1], []string{"クリーム", "", "", ""}) {
		t.Errorf("expected short row padded, got %v", tbl.Rows[1])
	}
}

func TestLoad_RootWithGlobCharacters(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data[2024]*?")
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(filepath.Join(dir, "nested.xlsx"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeWorkbook(t, filepath.Join(dir, "注射剤.xlsx"), [][]any{{"品名"}, {"製品A"}})

	tables, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 1 || tables[CategoryInjection] == nil {
		t.Fatalf("expected only the injection table, got %v", tables)
	}
	if tables[CategoryInjection].Len() != 1 {
		t.Errorf("expected 1 row, got %d", tables[CategoryInjection].Len())
	}
}
