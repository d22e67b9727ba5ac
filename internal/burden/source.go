package burden

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/db"
)

// Source kinds.
const (
	KindCSV      = "csv"
	KindXLSX     = "xlsx"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Source describes where observed burden values come from.
type Source struct {
	Kind        string
	Path        string
	Sheet       string
	Table       string
	IDColumn    string
	ValueColumn string

	// Pool is required for KindPostgres.
	Pool db.Pool
}

// InferKind returns the source kind implied by a file extension.
func InferKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindXLSX
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return ""
}

// Load reads src into an immutable Lookup.
func Load(ctx context.Context, src Source) (*Lookup, error) {
	log := zap.L().With(zap.String("component", "burden"))

	kind := src.Kind
	if kind == "" {
		kind = InferKind(src.Path)
	}

	b := NewBuilder()
	var err error
	switch kind {
	case KindCSV:
		err = loadCSVFile(ctx, src, b)
	case KindXLSX:
		err = ReadXLSX(ctx, src.Path, src.Sheet, src.IDColumn, src.ValueColumn, b)
	case KindSQLite:
		err = ReadSQLite(ctx, src.Path, src.Table, src.IDColumn, src.ValueColumn, b)
	case KindPostgres:
		if src.Pool == nil {
			return nil, eris.New("burden: postgres source needs a pool")
		}
		err = ReadPostgres(ctx, src.Pool, src.Table, src.IDColumn, src.ValueColumn, b)
	default:
		return nil, eris.Errorf("burden: unknown source kind %q (path %q)", kind, src.Path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "burden: load %s source", kind)
	}

	stats := b.Stats()
	log.Info("loaded burden values",
		zap.String("kind", kind),
		zap.Int("rows", stats.Rows),
		zap.Int("kept", stats.Kept),
		zap.Int("skipped", stats.Skipped),
		zap.Int("duplicates", stats.Duplicates),
	)
	if stats.Duplicates > 0 {
		log.Warn("duplicate tract ids in burden source, last row wins", zap.Int("duplicates", stats.Duplicates))
	}

	return b.Lookup(), nil
}

func loadCSVFile(ctx context.Context, src Source, b *Builder) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck
	return ReadCSV(ctx, f, src.IDColumn, src.ValueColumn, b)
}
