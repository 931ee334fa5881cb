// Package aiclient is the typed HTTP client for the Python AI backend that
// performs document processing, retrieval-augmented quiz generation, and
// timetable optimization. The backend is assumed reachable at a fixed
// address; no discovery and no retries.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// ErrUnavailable means the AI backend could not be reached at all
var ErrUnavailable = errors.New("AI backend unreachable")

// RemoteError is a non-2xx response from the AI backend. Detail carries the
// backend's own message when the body was parseable.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("AI backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("AI backend returned %d", e.StatusCode)
}

// Client talks to the AI backend. Bookkeeping calls get a short timeout;
// generation and evaluation block for much longer while the LLM works.
type Client struct {
	baseURL string
	quick   *http.Client
	slow    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		quick:   &http.Client{Timeout: 15 * time.Second},
		slow:    &http.Client{Timeout: 3 * time.Minute},
	}
}

// HealthReport is the backend's self-description
type HealthReport struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	LLMProvider string            `json:"llm_provider"`
	LLMStatus   string            `json:"llm_status"`
	Components  map[string]string `json:"components"`
	Endpoints   []string          `json:"endpoints"`
}

// Health checks the AI backend
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	var report HealthReport
	if err := c.getJSON(ctx, c.quick, "/health", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SubjectInput describes one subject for timetable generation
type SubjectInput struct {
	Name           string             `json:"name"`
	Topics         []string           `json:"topics"`
	Weightage      map[string]float64 `json:"weightage,omitempty"`
	ExamDate       string             `json:"examDate,omitempty"`
	EstimatedHours int                `json:"estimatedHours,omitempty"`
}

// TimetableRequest is the basic generation payload
type TimetableRequest struct {
	Subjects           []SubjectInput `json:"subjects"`
	ExamDate           string         `json:"exam_date"`
	StudyHoursPerDay   int            `json:"study_hours_per_day"`
	PreferredTimeSlots []string       `json:"preferred_time_slots"`
	ManualWeightage    bool           `json:"manual_weightage"`
	UserID             string         `json:"user_id"`
}

type timetableResponse struct {
	Success         bool              `json:"success"`
	Timetable       *models.Timetable `json:"timetable"`
	DaysUntilExam   int               `json:"days_until_exam"`
	TotalStudyHours int               `json:"total_study_hours"`
	Note            string            `json:"note"`
}

// GenerateTimetable asks the backend for a full study schedule
func (c *Client) GenerateTimetable(ctx context.Context, req TimetableRequest) (*models.Timetable, error) {
	var resp timetableResponse
	if err := c.postJSON(ctx, c.slow, "/generate-timetable", req, &resp); err != nil {
		return nil, err
	}
	if resp.Timetable == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Detail: "response contained no timetable"}
	}
	return resp.Timetable, nil
}

// EnhancedTimetableRequest carries per-subject exam dates for LLM-driven
// priority optimization
type EnhancedTimetableRequest struct {
	Subjects           []SubjectInput  `json:"subjects"`
	StudyHoursPerDay   int             `json:"study_hours_per_day"`
	PreferredTimeSlots []string        `json:"preferred_time_slots"`
	LLMFeatures        map[string]bool `json:"llm_features,omitempty"`
	UserID             string          `json:"user_id"`
}

// GenerateEnhancedTimetable asks the backend for a priority-optimized
// schedule with LLM insights and study tips
func (c *Client) GenerateEnhancedTimetable(ctx context.Context, req EnhancedTimetableRequest) (*models.Timetable, error) {
	var resp timetableResponse
	if err := c.postJSON(ctx, c.slow, "/generate-enhanced-timetable", req, &resp); err != nil {
		return nil, err
	}
	if resp.Timetable == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Detail: "response contained no timetable"}
	}
	return resp.Timetable, nil
}

// RescheduleRequest summarizes completed work for the backend
type RescheduleRequest struct {
	TimetableID     string   `json:"timetable_id"`
	CompletedTopics []string `json:"completed_topics"`
	RemainingDays   int      `json:"remaining_days"`
	UserID          string   `json:"user_id"`
}

// RescheduleResult is advisory: recommendations and suggestions only, the
// backend does not return a regenerated daily schedule
type RescheduleResult struct {
	ID               string   `json:"id"`
	RemainingDays    int      `json:"remaining_days"`
	CompletedTopics  []string `json:"completed_topics"`
	AIRecommendation string   `json:"ai_recommendations"`
	Status           string   `json:"status"`
	Suggestions      []string `json:"suggestions"`
}

type rescheduleResponse struct {
	Success        bool              `json:"success"`
	NewTimetable   *RescheduleResult `json:"new_timetable"`
	CompletedCount int               `json:"completed_count"`
}

// Reschedule asks the backend to revise remaining study time given the
// completed topics
func (c *Client) Reschedule(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error) {
	if req.CompletedTopics == nil {
		req.CompletedTopics = []string{}
	}
	var resp rescheduleResponse
	if err := c.postJSON(ctx, c.quick, "/reschedule-timetable", req, &resp); err != nil {
		return nil, err
	}
	if resp.NewTimetable == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Detail: "response contained no reschedule result"}
	}
	return resp.NewTimetable, nil
}

// FileUpload is one file destined for the backend's document processor
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult reports which documents the backend extracted and stored
type UploadResult struct {
	Success            bool     `json:"success"`
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentIDs        []string `json:"document_ids"`
	Subject            string   `json:"subject"`
	Details            []struct {
		Filename       string `json:"filename"`
		ID             string `json:"id"`
		CharsExtracted int    `json:"chars_extracted"`
	} `json:"details"`
}

// UploadNotes sends study notes for text extraction and vector storage
func (c *Client) UploadNotes(ctx context.Context, subject string, files []FileUpload) (*UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", f.Filename, err)
		}
	}
	if err := writer.WriteField("subject", subject); err != nil {
		return nil, fmt.Errorf("failed to write subject field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var result UploadResult
	if err := c.do(ctx, c.slow, http.MethodPost, "/upload-notes", writer.FormDataContentType(), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QuizRequest configures quiz generation
type QuizRequest struct {
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	QuizType     string `json:"quizType"`
	NumQuestions int    `json:"numQuestions"`
	Difficulty   string `json:"difficulty"`
}

type quizResponse struct {
	Success bool         `json:"success"`
	Quiz    *models.Quiz `json:"quiz"`
	Subject string       `json:"subject"`
	Note    string       `json:"note"`
}

// GenerateQuiz builds a quiz from previously uploaded notes via RAG
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (*models.Quiz, error) {
	var resp quizResponse
	if err := c.postJSON(ctx, c.slow, "/generate-quiz", req, &resp); err != nil {
		return nil, err
	}
	if resp.Quiz == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Detail: "response contained no quiz"}
	}
	return resp.Quiz, nil
}

type evaluationResponse struct {
	Success    bool               `json:"success"`
	Evaluation *models.Evaluation `json:"evaluation"`
	QuizID     string             `json:"quiz_id"`
}

// EvaluateQuiz submits an answer map for scoring. The backend takes form
// fields, with the answers as a JSON string.
func (c *Client) EvaluateQuiz(ctx context.Context, quizID string, answers map[string]string) (*models.Evaluation, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	form := url.Values{}
	form.Set("quiz_id", quizID)
	form.Set("answers", string(answersJSON))

	var resp evaluationResponse
	if err := c.do(ctx, c.slow, http.MethodPost, "/evaluate-quiz",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp); err != nil {
		return nil, err
	}
	if resp.Evaluation == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Detail: "response contained no evaluation"}
	}
	return resp.Evaluation, nil
}

// PaperAnalysis maps topics to inferred weightage from past question papers
type PaperAnalysis struct {
	Success             bool               `json:"success"`
	TopicWeightage      map[string]float64 `json:"topic_weightage"`
	TotalFilesProcessed int                `json:"total_files_processed"`
	Note                string             `json:"note"`
}

// AnalyzePapers uploads previous year question papers for weightage analysis
func (c *Client) AnalyzePapers(ctx context.Context, files []FileUpload) (*PaperAnalysis, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", f.Filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var result PaperAnalysis
	if err := c.do(ctx, c.slow, http.MethodPost, "/analyze-papers", writer.FormDataContentType(), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StudyTips fetches subject/topic study tips
func (c *Client) StudyTips(ctx context.Context, subject, topic string) ([]string, error) {
	path := "/study-tips/" + url.PathEscape(subject)
	if topic != "" {
		path += "?topic=" + url.QueryEscape(topic)
	}

	var resp struct {
		Success bool     `json:"success"`
		Tips    []string `json:"tips"`
	}
	if err := c.getJSON(ctx, c.quick, path, &resp); err != nil {
		return nil, err
	}
	return resp.Tips, nil
}

func (c *Client) getJSON(ctx context.Context, client *http.Client, path string, out interface{}) error {
	return c.do(ctx, client, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, client, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		// Connection-level failure: the backend is down or unreachable
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// readDetail pulls FastAPI's {"detail": "..."} message out of an error body
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}
