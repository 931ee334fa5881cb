package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// fakeRow scans scripted values into the destinations, or fails
type fakeRow struct {
	err  error
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.scan != nil {
		return r.scan(dest...)
	}
	return r.err
}

// fakeDB replays scripted rows for QueryRow calls in order
type fakeDB struct {
	rows    []fakeRow
	execErr error
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, f.execErr
}

func TestLoadWithoutSaveReturnsNoTimetable(t *testing.T) {
	repo := NewTimetableRepository(&fakeDB{})

	tt, err := repo.Load(context.Background(), uuid.New())
	assert.Nil(t, tt)
	assert.ErrorIs(t, err, ErrNoTimetable)
}

func TestLoadDecodesStoredSnapshot(t *testing.T) {
	stored := []byte(`{"id":"tt_1","total_days":3,"daily_schedule":[{"day":1,"date":"2026-08-24","sessions":[{"session_id":"s_1_1","subject":"Math","topic":"Calculus","duration_hours":2,"completed":true}]}]}`)

	db := &fakeDB{rows: []fakeRow{{scan: func(dest ...any) error {
		*(dest[0].(*[]byte)) = stored
		return nil
	}}}}

	repo := NewTimetableRepository(db)
	tt, err := repo.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "tt_1", tt.ID)
	require.Len(t, tt.DailySchedule, 1)
	assert.True(t, tt.DailySchedule[0].Sessions[0].Completed)
}

func TestSaveEncodesSnapshot(t *testing.T) {
	repo := NewTimetableRepository(&fakeDB{})
	err := repo.Save(context.Background(), uuid.New(), &models.Timetable{ID: "tt_1"})
	assert.NoError(t, err)
}
