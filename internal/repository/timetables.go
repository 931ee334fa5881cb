package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/database"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// ErrNoTimetable means the user has never saved a timetable; the UI should
// prompt them to generate one first
var ErrNoTimetable = errors.New("no timetable stored")

// TimetableRepository persists each user's single current-timetable snapshot.
// The whole document is written on every mutation, last-writer-wins, exactly
// the contract the snapshot had as a browser-storage blob. There is no
// versioning: an older snapshot whose shape drifted from the current structs
// decodes loosely, with unknown fields dropped.
type TimetableRepository struct {
	db database.Querier
}

func NewTimetableRepository(db database.Querier) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Load returns the user's current timetable, or ErrNoTimetable
func (r *TimetableRepository) Load(ctx context.Context, userID uuid.UUID) (*models.Timetable, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM timetables WHERE user_id = $1`, userID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoTimetable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load timetable: %w", err)
	}

	var t models.Timetable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode stored timetable: %w", err)
	}
	return &t, nil
}

// Save replaces the user's current timetable wholesale
func (r *TimetableRepository) Save(ctx context.Context, userID uuid.UUID, t *models.Timetable) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode timetable: %w", err)
	}

	query := `
		INSERT INTO timetables (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, data); err != nil {
		return fmt.Errorf("failed to save timetable: %w", err)
	}
	return nil
}

// Delete removes the user's current timetable
func (r *TimetableRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM timetables WHERE user_id = $1`, userID)
	return err
}
