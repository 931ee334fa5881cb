package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is the bookkeeping record for a file uploaded to the AI backend.
// The file content itself lives behind the AI backend's boundary; only the
// identifiers it returns are kept here.
type Document struct {
	ID          string    `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Filename    string    `json:"filename" db:"filename"`
	Subject     string    `json:"subject" db:"subject"`
	ContentType string    `json:"type" db:"content_type"`
	SizeBytes   int64     `json:"size" db:"size_bytes"`
	UploadedAt  time.Time `json:"uploadedAt" db:"uploaded_at"`
}
