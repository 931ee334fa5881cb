package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/aiclient"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/middleware"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/repository"
)

// maxUploadBytes bounds a single notes upload (all files combined)
const maxUploadBytes = 32 << 20

// readUploads drains multipart file headers into AI client uploads
func readUploads(fileHeaders []*multipart.FileHeader) ([]aiclient.FileUpload, error) {
	uploads := make([]aiclient.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, aiclient.FileUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

// recordUploads writes bookkeeping rows for the documents the AI backend
// accepted, matching its returned ids to the sent files by position
func recordUploads(c *gin.Context, userID uuid.UUID, subject string, uploads []aiclient.FileUpload, result *aiclient.UploadResult) ([]models.Document, error) {
	db, _ := middleware.GetDB(c)
	repo := repository.NewDocumentRepository(db)

	byFilename := make(map[string]string, len(result.Details))
	for _, d := range result.Details {
		byFilename[d.Filename] = d.ID
	}

	now := time.Now()
	docs := []models.Document{}
	for i, u := range uploads {
		id, ok := byFilename[u.Filename]
		if !ok && i < len(result.DocumentIDs) {
			id = result.DocumentIDs[i]
		}
		if id == "" {
			// The backend skipped this file (empty or unextractable)
			continue
		}
		docs = append(docs, models.Document{
			ID:          id,
			UserID:      userID,
			Filename:    u.Filename,
			Subject:     subject,
			ContentType: u.ContentType,
			SizeBytes:   int64(len(u.Data)),
			UploadedAt:  now,
		})
	}

	if err := repo.Record(c.Request.Context(), docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadNotes forwards study notes to the AI backend for extraction and
// records the returned document ids
func UploadNotes(ai *aiclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.GetDB(c); !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		subject := c.PostForm("subject")
		if subject == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subject is required"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form", "details": err.Error()})
			return
		}

		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
			return
		}

		var total int64
		for _, fh := range fileHeaders {
			total += fh.Size
		}
		if total > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds the size limit"})
			return
		}

		uploads, err := readUploads(fileHeaders)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files", "details": err.Error()})
			return
		}

		result, err := ai.UploadNotes(c.Request.Context(), subject, uploads)
		if err != nil {
			aiError(c, err)
			return
		}

		docs, err := recordUploads(c, userID, subject, uploads, result)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record documents", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"documents_processed": result.DocumentsProcessed,
			"document_ids":        result.DocumentIDs,
			"subject":             subject,
			"documents":           docs,
		})
	}
}

// ListDocuments returns the user's upload records, optionally by subject
func ListDocuments() gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		repo := repository.NewDocumentRepository(db)
		docs, err := repo.List(c.Request.Context(), userID, c.Query("subject"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query documents", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
	}
}

// AnalyzePapers forwards previous year question papers for topic weightage
// analysis. Weightage feeds timetable generation; nothing is persisted here.
func AnalyzePapers(ai *aiclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form", "details": err.Error()})
			return
		}

		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
			return
		}

		uploads, err := readUploads(fileHeaders)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files", "details": err.Error()})
			return
		}

		analysis, err := ai.AnalyzePapers(c.Request.Context(), uploads)
		if err != nil {
			aiError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"topic_weightage":       analysis.TopicWeightage,
			"total_files_processed": analysis.TotalFilesProcessed,
		})
	}
}
