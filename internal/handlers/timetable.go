package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/aiclient"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/middleware"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/repository"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/study"
)

const dateLayout = "2006-01-02"

type GenerateTimetableRequest struct {
	Subjects           []aiclient.SubjectInput `json:"subjects" binding:"required,min=1"`
	ExamDate           string                  `json:"exam_date"`
	StudyHoursPerDay   int                     `json:"study_hours_per_day" binding:"required,min=1,max=16"`
	PreferredTimeSlots []string                `json:"preferred_time_slots"`
	ManualWeightage    bool                    `json:"manual_weightage"`
	Enhanced           bool                    `json:"enhanced"`
}

// GenerateTimetable asks the AI backend for a schedule and stores it as the
// user's current snapshot, replacing any previous one wholesale
func GenerateTimetable(ai *aiclient.Client) gin.HandlerFunc {
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

		var req GenerateTimetableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		repo := repository.NewTimetableRepository(db)

		if req.Enhanced {
			// Enhanced generation uses per-subject exam dates
			for _, s := range req.Subjects {
				if s.ExamDate == "" {
					continue
				}
				if _, err := time.Parse(dateLayout, s.ExamDate); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam date for subject " + s.Name + ". Use YYYY-MM-DD"})
					return
				}
			}

			t, err := ai.GenerateEnhancedTimetable(c.Request.Context(), aiclient.EnhancedTimetableRequest{
				Subjects:           req.Subjects,
				StudyHoursPerDay:   req.StudyHoursPerDay,
				PreferredTimeSlots: req.PreferredTimeSlots,
				UserID:             userID.String(),
			})
			if err != nil {
				aiError(c, err)
				return
			}

			if err := repo.Save(c.Request.Context(), userID, t); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store timetable", "details": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"timetable": t})
			return
		}

		// Basic generation needs a single future exam date
		examDate, err := time.Parse(dateLayout, req.ExamDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam_date format. Use YYYY-MM-DD"})
			return
		}
		if !examDate.After(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Exam date must be in the future"})
			return
		}

		t, err := ai.GenerateTimetable(c.Request.Context(), aiclient.TimetableRequest{
			Subjects:           req.Subjects,
			ExamDate:           req.ExamDate,
			StudyHoursPerDay:   req.StudyHoursPerDay,
			PreferredTimeSlots: req.PreferredTimeSlots,
			ManualWeightage:    req.ManualWeightage,
			UserID:             userID.String(),
		})
		if err != nil {
			aiError(c, err)
			return
		}

		if err := repo.Save(c.Request.Context(), userID, t); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"timetable": t})
	}
}

// GetTimetable returns the user's current timetable snapshot
func GetTimetable() gin.HandlerFunc {
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

		repo := repository.NewTimetableRepository(db)
		t, err := repo.Load(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoTimetable) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No timetable found. Generate a timetable first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"timetable": t})
	}
}

// ToggleSession flips a session's completed flag and persists the whole
// timetable
func ToggleSession() gin.HandlerFunc {
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

		sessionID := c.Param("sessionID")

		repo := repository.NewTimetableRepository(db)
		t, err := repo.Load(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoTimetable) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No timetable found. Generate a timetable first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timetable", "details": err.Error()})
			return
		}

		completed, err := study.ToggleCompletion(t, sessionID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found in timetable"})
			return
		}

		if err := repo.Save(c.Request.Context(), userID, t); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id": sessionID,
			"completed":  completed,
			"progress":   study.BuildReport(t, time.Now()),
		})
	}
}

type SessionNotesRequest struct {
	Notes string `json:"notes"`
}

// SetSessionNotes assigns a session's notes text and persists the timetable
func SetSessionNotes() gin.HandlerFunc {
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

		sessionID := c.Param("sessionID")

		var req SessionNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		repo := repository.NewTimetableRepository(db)
		t, err := repo.Load(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoTimetable) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No timetable found. Generate a timetable first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timetable", "details": err.Error()})
			return
		}

		if err := study.SetNotes(t, sessionID, req.Notes); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found in timetable"})
			return
		}

		if err := repo.Save(c.Request.Context(), userID, t); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "notes": req.Notes})
	}
}

// GetProgress returns the derived progress view over the current timetable
func GetProgress() gin.HandlerFunc {
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

		repo := repository.NewTimetableRepository(db)
		t, err := repo.Load(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoTimetable) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No timetable found. Generate a timetable first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, study.BuildReport(t, time.Now()))
	}
}

// Reschedule summarizes completed work and asks the AI backend to revise the
// remaining plan. The response is advisory: the recommendation text is stored
// on the snapshot, the daily schedule itself is left untouched.
func Reschedule(ai *aiclient.Client) gin.HandlerFunc {
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

		repo := repository.NewTimetableRepository(db)
		t, err := repo.Load(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoTimetable) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No timetable found. Generate a timetable first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timetable", "details": err.Error()})
			return
		}

		result, err := ai.Reschedule(c.Request.Context(), aiclient.RescheduleRequest{
			TimetableID:     t.ID,
			CompletedTopics: study.CompletedTopics(t),
			RemainingDays:   study.RemainingDays(t, time.Now()),
			UserID:          userID.String(),
		})
		if err != nil {
			aiError(c, err)
			return
		}

		// Keep the advice with the snapshot so it survives reloads
		t.AIRecommendation = result.AIRecommendation
		if err := repo.Save(c.Request.Context(), userID, t); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store timetable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"recommendations": result.AIRecommendation,
			"suggestions":     result.Suggestions,
			"remaining_days":  result.RemainingDays,
			"status":          result.Status,
		})
	}
}
