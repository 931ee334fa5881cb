package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/database"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// QuizResultRepository persists completed quiz attempts as history. In-flight
// attempts are never stored here; only submitted, evaluated results are.
type QuizResultRepository struct {
	db database.Querier
}

func NewQuizResultRepository(db database.Querier) *QuizResultRepository {
	return &QuizResultRepository{db: db}
}

// Record stores one completed attempt
func (r *QuizResultRepository) Record(ctx context.Context, result models.QuizResult) error {
	query := `
		INSERT INTO quiz_results (id, user_id, quiz_id, subject, quiz_type, score, total_questions, percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		result.ID, result.UserID, result.QuizID, result.Subject, result.QuizType,
		result.Score, result.TotalQuestions, result.Percentage, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record quiz result: %w", err)
	}
	return nil
}

// ListByUser returns a user's quiz history, newest first
func (r *QuizResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.QuizResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, quiz_id, subject, quiz_type, score, total_questions, percentage, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz results: %w", err)
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var qr models.QuizResult
		if err := rows.Scan(
			&qr.ID, &qr.UserID, &qr.QuizID, &qr.Subject, &qr.QuizType,
			&qr.Score, &qr.TotalQuestions, &qr.Percentage, &qr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result row: %w", err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}
