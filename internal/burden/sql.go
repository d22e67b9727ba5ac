package burden

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/sells-group/burden-map/internal/db"
)

// ReadSQLite reads (id, value) pairs from a table in a SQLite file.
func ReadSQLite(ctx context.Context, path, table, idColumn, valueColumn string, b *Builder) error {
	if err := db.CheckIdents(table, idColumn, valueColumn); err != nil {
		return err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "sqlite: open")
	}
	defer conn.Close() //nolint:errcheck

	query := fmt.Sprintf(
		"SELECT COALESCE(CAST(%s AS TEXT), ''), COALESCE(CAST(%s AS TEXT), '') FROM %s",
		idColumn, valueColumn, table,
	)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return eris.Wrapf(err, "sqlite: query %s", table)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return eris.Wrap(err, "sqlite: scan row")
		}
		b.Add(id, value)
	}
	return eris.Wrap(rows.Err(), "sqlite: iterate rows")
}

// ReadPostgres reads (id, value) pairs from a Postgres table.
func ReadPostgres(ctx context.Context, pool db.Pool, table, idColumn, valueColumn string, b *Builder) error {
	if err := db.CheckIdents(table, idColumn, valueColumn); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(%s::text, ''), COALESCE(%s::text, '') FROM %s",
		idColumn, valueColumn, table,
	)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return eris.Wrapf(err, "postgres: query %s", table)
	}
	defer rows.Close()

	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return eris.Wrap(err, "postgres: scan row")
		}
		b.Add(id, value)
	}
	return eris.Wrap(rows.Err(), "postgres: iterate rows")
}
