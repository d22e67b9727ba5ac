package burden

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads one worksheet into b. The first row is the header. An empty
// sheet name selects the first sheet.
func ReadXLSX(ctx context.Context, path, sheetName, idColumn, valueColumn string, b *Builder) error {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return err
	}
	if len(sheet.Rows) == 0 {
		return eris.Errorf("xlsx: sheet %q is empty", sheet.Name)
	}

	idIdx, valIdx, err := headerIndexes(rowToStrings(sheet.Rows[0]), idColumn, valueColumn)
	if err != nil {
		return err
	}

	for _, row := range sheet.Rows[1:] {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		cells := rowToStrings(row)
		b.Add(field(cells, idIdx), field(cells, valIdx))
	}
	return nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
