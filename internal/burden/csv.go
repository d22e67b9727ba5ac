package burden

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV streams a headered CSV into b. The id and value columns are matched
// against the header case-insensitively.
func ReadCSV(ctx context.Context, r io.Reader, idColumn, valueColumn string, b *Builder) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return eris.New("csv: empty file")
	}
	if err != nil {
		return eris.Wrap(err, "csv: read header")
	}

	idIdx, valIdx, err := headerIndexes(header, idColumn, valueColumn)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "csv: read row")
		}
		b.Add(field(record, idIdx), field(record, valIdx))
	}
}

func headerIndexes(header []string, idColumn, valueColumn string) (int, int, error) {
	idIdx, valIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case idIdx < 0 && strings.EqualFold(h, idColumn):
			idIdx = i
		case valIdx < 0 && strings.EqualFold(h, valueColumn):
			valIdx = i
		}
	}
	if idIdx < 0 {
		return 0, 0, eris.Errorf("burden: id column %q not in header", idColumn)
	}
	if valIdx < 0 {
		return 0, 0, eris.Errorf("burden: value column %q not in header", valueColumn)
	}
	return idIdx, valIdx, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}
