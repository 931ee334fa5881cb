package handlers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubRow scans scripted values into the destinations, or fails
type stubRow struct {
	err  error
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan != nil {
		return r.scan(dest...)
	}
	return r.err
}

// stubDB replays scripted rows for QueryRow calls in order; once the script
// is exhausted every further query finds nothing
type stubDB struct {
	rows    []stubRow
	execErr error
}

func (s *stubDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if len(s.rows) == 0 {
		return stubRow{err: pgx.ErrNoRows}
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r
}

func (s *stubDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubDB) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, s.execErr
}
