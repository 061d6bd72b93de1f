package fetcher

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ErrMissingWorksheets is returned when a workbook lacks sheets the caller requires.
var ErrMissingWorksheets = eris.New("xlsx: workbook is missing worksheets")

// ReadWorkbook opens an XLSX file and returns the required sheets as tables.
// Every missing sheet is named in the error, along with the sheets the
// workbook does have.
func ReadWorkbook(path string, required []string) (map[string]*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	var missing []string
	for _, name := range required {
		if _, ok := f.Sheet[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Wrapf(ErrMissingWorksheets, "%s: %s (available: %s)",
			path, strings.Join(missing, ", "), strings.Join(sheetNames(f), ", "))
	}

	out := make(map[string]*Table, len(required))
	for _, name := range required {
		out[name] = NewTable(name, sheetRows(f.Sheet[name]))
	}
	return out, nil
}

// sheetNames lists the sheets of a workbook in workbook order.
func sheetNames(f *xlsx.File) []string {
	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	return names
}

func sheetRows(sheet *xlsx.Sheet) [][]string {
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows
}
