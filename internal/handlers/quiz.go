package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/aiclient"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/middleware"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/quiz"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/repository"
)

// loadQuizSession resolves the :id param into the caller's session
func loadQuizSession(c *gin.Context, registry *quiz.Registry) (*quiz.Session, bool) {
	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return nil, false
	}

	s, err := registry.Get(sessionID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz session not found"})
		return nil, false
	}
	return s, true
}

// transitionError maps state machine failures to API responses
func transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrNoSubject):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject is required"})
	case errors.Is(err, quiz.ErrNoDocuments):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload at least one document for this subject first"})
	case errors.Is(err, quiz.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Action not allowed in the current quiz step"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error", "details": err.Error()})
	}
}

// CreateQuizSession starts a new quiz wizard in the upload step
func CreateQuizSession(registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		s := registry.Create(userID)
		c.JSON(http.StatusCreated, s.Snapshot())
	}
}

// GetQuizSession returns the current wizard state
func GetQuizSession(registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// UploadQuizNotes forwards notes to the AI backend within a quiz session and
// advances the wizard to the configure step on success
func UploadQuizNotes(ai *aiclient.Client, registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}

		userID, _ := middleware.GetAuthUserID(c)

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

		// Wizard only advances on a successful upload call
		if err := s.RecordUpload(subject, result.DocumentIDs); err != nil {
			transitionError(c, err)
			return
		}

		if _, err := recordUploads(c, userID, subject, uploads, result); err != nil {
			// The upload already succeeded and the wizard moved on; report
			// the bookkeeping failure without undoing either
			c.JSON(http.StatusOK, gin.H{
				"session":           s.Snapshot(),
				"bookkeeping_error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, s.Snapshot())
	}
}

type ConfigureQuizRequest struct {
	Topic        string `json:"topic"`
	QuizType     string `json:"quiz_type" binding:"required,oneof=mcq subjective"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1,max=50"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// ConfigureQuiz generates the quiz from the session's uploaded documents and
// advances the wizard to the attempt step. The generation call blocks until
// the AI backend answers.
func ConfigureQuiz(ai *aiclient.Client, registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}

		var req ConfigureQuizRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		if req.Difficulty == "" {
			req.Difficulty = "medium"
		}

		view := s.Snapshot()
		if view.State != quiz.StateConfigure {
			c.JSON(http.StatusConflict, gin.H{"error": "Action not allowed in the current quiz step"})
			return
		}
		if view.Subject == "" || len(view.DocumentIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Upload at least one document for this subject first"})
			return
		}

		generated, err := ai.GenerateQuiz(c.Request.Context(), aiclient.QuizRequest{
			Subject:      view.Subject,
			Topic:        req.Topic,
			QuizType:     req.QuizType,
			NumQuestions: req.NumQuestions,
			Difficulty:   req.Difficulty,
		})
		if err != nil {
			aiError(c, err)
			return
		}

		if err := s.BeginAttempt(generated); err != nil {
			transitionError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// QuizSessionBack steps the wizard backward (configure→upload or
// attempt→configure)
func QuizSessionBack(registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}
		if err := s.Back(); err != nil {
			transitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

type QuizAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// SetQuizAnswers merges answers keyed by question id into the attempt.
// Answers live only in memory until submission.
func SetQuizAnswers(registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}

		var req QuizAnswersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		if err := s.SetAnswers(req.Answers); err != nil {
			transitionError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"answers": s.AnswerMap()})
	}
}

// SubmitQuiz sends the accumulated answers for evaluation, advances the
// wizard to results, and records the outcome as history
func SubmitQuiz(ai *aiclient.Client, registry *quiz.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		s, ok := loadQuizSession(c, registry)
		if !ok {
			return
		}

		view := s.Snapshot()
		if view.State != quiz.StateAttempt || view.Quiz == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Action not allowed in the current quiz step"})
			return
		}

		evaluation, err := ai.EvaluateQuiz(c.Request.Context(), view.Quiz.ID, s.AnswerMap())
		if err != nil {
			aiError(c, err)
			return
		}

		if err := s.Complete(evaluation); err != nil {
			transitionError(c, err)
			return
		}

		userID, _ := middleware.GetAuthUserID(c)
		results := repository.NewQuizResultRepository(db)
		record := models.QuizResult{
			ID:             uuid.New(),
			UserID:         userID,
			QuizID:         view.Quiz.ID,
			Subject:        view.Quiz.Subject,
			QuizType:       view.Quiz.QuizType,
			Score:          evaluation.Score,
			TotalQuestions: evaluation.TotalQuestions,
			Percentage:     evaluation.Percentage,
			CreatedAt:      time.Now(),
		}
		if err := results.Record(c.Request.Context(), record); err != nil {
			// The evaluation already succeeded; report it even if history
			// bookkeeping failed
			c.JSON(http.StatusOK, gin.H{
				"session":       s.Snapshot(),
				"history_error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// ListQuizResults returns the user's quiz history
func ListQuizResults() gin.HandlerFunc {
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

		limit := 50
		if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
			limit = l
		}

		results := repository.NewQuizResultRepository(db)
		history, err := results.ListByUser(c.Request.Context(), userID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query quiz results", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": history, "count": len(history)})
	}
}
