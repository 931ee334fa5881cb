package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/database"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// DocumentRepository keeps bookkeeping records for files uploaded to the AI
// backend. The ids are the backend's own document identifiers.
type DocumentRepository struct {
	db database.Querier
}

func NewDocumentRepository(db database.Querier) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Record appends upload records for a user
func (r *DocumentRepository) Record(ctx context.Context, docs []models.Document) error {
	for _, d := range docs {
		query := `
			INSERT INTO documents (id, user_id, filename, subject, content_type, size_bytes, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`
		if _, err := r.db.Exec(ctx, query,
			d.ID, d.UserID, d.Filename, d.Subject, d.ContentType, d.SizeBytes, d.UploadedAt,
		); err != nil {
			return fmt.Errorf("failed to record document %s: %w", d.ID, err)
		}
	}
	return nil
}

// List returns a user's upload records, optionally filtered by subject,
// newest first
func (r *DocumentRepository) List(ctx context.Context, userID uuid.UUID, subject string) ([]models.Document, error) {
	query := `
		SELECT id, user_id, filename, subject, content_type, size_bytes, uploaded_at
		FROM documents
		WHERE user_id = $1
	`
	params := []interface{}{userID}

	if subject != "" {
		query += ` AND subject = $2`
		params = append(params, subject)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Filename, &d.Subject, &d.ContentType, &d.SizeBytes, &d.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountBySubject returns how many documents a user has for a subject
func (r *DocumentRepository) CountBySubject(ctx context.Context, userID uuid.UUID, subject string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE user_id = $1 AND subject = $2`,
		userID, subject,
	).Scan(&count)
	return count, err
}
