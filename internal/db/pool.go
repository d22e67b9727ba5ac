// Package db provides the Postgres connection seam shared by the tract and
// burden loaders.
package db

import (
	"context"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool the loaders use. pgxmock satisfies it.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Connect opens a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, eris.New("db: database url is required")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "db: open pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping")
	}
	return pool, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdent reports whether s is a plain (optionally schema-qualified) SQL
// identifier that is safe to interpolate into a query.
func ValidIdent(s string) bool {
	return identRe.MatchString(s)
}

// CheckIdents returns an error naming the first identifier that is not plain.
func CheckIdents(idents ...string) error {
	for _, s := range idents {
		if !ValidIdent(s) {
			return eris.Errorf("db: invalid identifier %q", s)
		}
	}
	return nil
}
