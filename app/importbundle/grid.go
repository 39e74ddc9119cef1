package importbundle

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx"
)

// Cell carries one spreadsheet value. IsNumber is set for native numeric
// cells, which is how Excel serial dates reach the coercion layer.
type Cell struct {
	Text     string
	Number   float64
	IsNumber bool
}

type Row []Cell

type Grid [][]Cell

func (c Cell) IsEmpty() bool {
	return c.Text == "" && !c.IsNumber
}

func isEmptyRow(r Row) bool {
	for _, cell := range r {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}

// ReadGrid loads the first sheet of a workbook, or the whole file for csv,
// into a raw grid of cells.
func ReadGrid(fileName string) (Grid, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return readCSVGrid(fileName)
	default:
		return readXLSXGrid(fileName)
	}
}

func readXLSXGrid(fileName string) (Grid, error) {
	file, err := xlsx.OpenFile(fileName)
	if err != nil {
		return nil, err
	}
	if len(file.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := file.Sheets[0]
	grid := make(Grid, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make(Row, 0, len(row.Cells))
		for _, cell := range row.Cells {
			c := Cell{Text: strings.TrimSpace(cell.String())}
			if cell.Type() == xlsx.CellTypeNumeric {
				if f, err := cell.Float(); err == nil {
					c.Number = f
					c.IsNumber = true
				}
			}
			cells = append(cells, c)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func readCSVGrid(fileName string) (Grid, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make(Grid, 0, len(records))
	for _, record := range records {
		cells := make(Row, 0, len(record))
		for _, value := range record {
			cells = append(cells, Cell{Text: strings.TrimSpace(value)})
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// headerAnchors mark a row as the header row. Exports from other practice
// tools rarely start at row one, a title or a logo row often comes first.
var headerAnchors = []string{"nom", "prenom", "patient", "nomcomplet"}

const headerScanLimit = 10

// LocateHeaderRow scans the top of the grid for a row containing one of the
// anchor headers and falls back to the first row. Anchors match by
// containment so merged columns like "Nom Prénom" anchor too.
func LocateHeaderRow(grid Grid) int {
	limit := len(grid)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range grid[i] {
			normalized := Normalize(cell.Text)
			if normalized == "" {
				continue
			}
			for _, anchor := range headerAnchors {
				if strings.Contains(normalized, anchor) {
					return i
				}
			}
		}
	}
	return 0
}

// Table is a grid cut below its header row, with normalized headers kept in
// column order.
type Table struct {
	Headers []string
	Rows    []Row
}

// NewTable locates the header row and returns the data rows under it, empty
// rows dropped.
func NewTable(grid Grid) Table {
	table := Table{}
	if len(grid) == 0 {
		return table
	}

	headerIndex := LocateHeaderRow(grid)
	for _, cell := range grid[headerIndex] {
		table.Headers = append(table.Headers, Normalize(cell.Text))
	}

	for _, row := range grid[headerIndex+1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// ExtractCell finds the cell under the first header matching one of the
// keywords. An exact header match always beats a substring match, and within
// each pass the leftmost column wins. Keywords must already be normalized.
func ExtractCell(headers []string, row Row, keywords []string) (Cell, bool) {
	cellAt := func(i int) Cell {
		if i < len(row) {
			return row[i]
		}
		return Cell{}
	}

	for i, header := range headers {
		for _, keyword := range keywords {
			if header == keyword {
				return cellAt(i), true
			}
		}
	}
	for i, header := range headers {
		if header == "" {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(header, keyword) {
				return cellAt(i), true
			}
		}
	}
	return Cell{}, false
}

// ExtractString is ExtractCell for callers that only want trimmed text.
func ExtractString(headers []string, row Row, keywords []string) string {
	cell, ok := ExtractCell(headers, row, keywords)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.Text)
}
