// Package prices reads the drug price spreadsheets kept under the 薬価
// directory of the data root.
package prices

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/pharmadocs/internal/diag"
)

// Dir is the price directory name below the data root.
const Dir = "薬価"

const (
	CategoryInjection = "注射剤"
	CategoryOral      = "内服薬"
)

// Table is the first sheet of a price workbook. Every row has
// len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Category maps a workbook file name to its table key: injection and oral
// files share a fixed key, anything else is keyed by its stem.
func Category(fileName string) string {
	switch {
	case strings.Contains(fileName, CategoryInjection):
		return CategoryInjection
	case strings.Contains(fileName, "内服"):
		return CategoryOral
	default:
		return strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
}

// Load reads every *.xlsx file directly under <dataDir>/薬価. A missing
// directory is reported and yields an empty map. Workbooks that fail to
// open are reported and skipped. When two files map to the same category
// the later one in name order wins.
func Load(dataDir string, rep diag.Reporter) (map[string]*Table, error) {
	if rep == nil {
		rep = diag.Discard
	}
	tables := make(map[string]*Table)
	dir := filepath.Join(dataDir, Dir)

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		rep.Report(slog.LevelWarn, "price directory does not exist", "path", dir)
		return tables, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		rep.Report(slog.LevelWarn, "price directory does not exist", "path", dir)
		return tables, nil
	}

	files, err := workbooks(dir)
	if err != nil {
		return nil, err
	}
	rep.Report(slog.LevelInfo, "discovered price files", "path", dir, "count", len(files))

	for _, path := range files {
		name := filepath.Base(path)
		table, err := readTable(path)
		if err != nil {
			rep.Report(slog.LevelError, "failed to load price file", "file", name, "error", err)
			continue
		}
		tables[Category(name)] = table
		rep.Report(slog.LevelInfo, "loaded price file",
			"file", name,
			"rows", table.Len(),
			"columns", len(table.Columns),
		)
	}
	return tables, nil
}

// workbooks lists the *.xlsx files directly in dir, sorted by name. Only
// entry names are matched, so dir itself may contain glob metacharacters.
func workbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match("*.xlsx", e.Name()); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func readTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	t := &Table{Columns: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return t, nil
	}

	// Cells beyond the header get generated column names instead of
	// being dropped. GetRows also omits trailing empty cells, so short
	// rows are padded.
	width := len(rows[0])
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	t.Columns = make([]string, width)
	for i := range t.Columns {
		if i < len(rows[0]) && rows[0][i] != "" {
			t.Columns[i] = rows[0][i]
		} else {
			t.Columns[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	for _, row := range rows[1:] {
		t.Rows = append(t.Rows, padRow(row, width))
	}
	return t, nil
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
