package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescheduleSendsEmptyTopicList(t *testing.T) {
	var got RescheduleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reschedule-timetable", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"new_timetable": map[string]interface{}{
				"id":                 "rescheduled_1",
				"remaining_days":     5,
				"completed_topics":   []string{},
				"ai_recommendations": "Focus on remaining high-priority topics.",
				"status":             "rescheduled",
				"suggestions":        []string{"Review completed topics for retention"},
			},
			"completed_count": 0,
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	result, err := client.Reschedule(context.Background(), RescheduleRequest{
		TimetableID:   "tt_1",
		RemainingDays: 5,
		UserID:        "u_1",
	})
	require.NoError(t, err)

	// Zero completed topics still produces a request with an empty list
	assert.NotNil(t, got.CompletedTopics)
	assert.Empty(t, got.CompletedTopics)
	assert.Equal(t, 5, got.RemainingDays)
	assert.Equal(t, "rescheduled", result.Status)
	assert.NotEmpty(t, result.AIRecommendation)
}

func TestGenerateQuiz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-quiz", r.URL.Path)

		var req QuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mcq", req.QuizType)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"quiz": map[string]interface{}{
				"id":       "quiz_abc",
				"subject":  req.Subject,
				"quiz_type": req.QuizType,
				"questions": []map[string]interface{}{
					{"id": "q_1", "question": "What is 2+2?", "options": []string{"3", "4"}, "correct_answer": "4"},
				},
				"total_questions": 1,
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	quiz, err := client.GenerateQuiz(context.Background(), QuizRequest{
		Subject: "Math", QuizType: "mcq", NumQuestions: 1, Difficulty: "easy",
	})
	require.NoError(t, err)
	assert.Equal(t, "quiz_abc", quiz.ID)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "4", quiz.Questions[0].CorrectAnswer)
}

func TestEvaluateQuizSendsFormFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "quiz_abc", r.PostFormValue("quiz_id"))

		var answers map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("answers")), &answers))
		assert.Equal(t, "4", answers["q_1"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"evaluation": map[string]interface{}{
				"quiz_id":         "quiz_abc",
				"total_questions": 1,
				"score":           1,
				"percentage":      100.0,
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	eval, err := client.EvaluateQuiz(context.Background(), "quiz_abc", map[string]string{"q_1": "4"})
	require.NoError(t, err)
	assert.Equal(t, 1, eval.Score)
	assert.Equal(t, 100.0, eval.Percentage)
}

func TestUploadNotesMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "Physics", r.PostFormValue("subject"))
		require.Len(t, r.MultipartForm.File["files"], 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":             true,
			"documents_processed": 2,
			"document_ids":        []string{"doc_1", "doc_2"},
			"subject":             "Physics",
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	result, err := client.UploadNotes(context.Background(), "Physics", []FileUpload{
		{Filename: "ch1.pdf", ContentType: "application/pdf", Data: []byte("pdf bytes")},
		{Filename: "ch2.pdf", ContentType: "application/pdf", Data: []byte("more pdf bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_1", "doc_2"}, result.DocumentIDs)
}

func TestErrorKinds(t *testing.T) {
	t.Run("unreachable backend maps to ErrUnavailable", func(t *testing.T) {
		client := New("http://127.0.0.1:1") // nothing listens here
		_, err := client.Health(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("non-2xx surfaces the backend detail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "No subjects provided"})
		}))
		defer srv.Close()

		client := New(srv.URL)
		_, err := client.GenerateTimetable(context.Background(), TimetableRequest{})
		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
		assert.Equal(t, "No subjects provided", remoteErr.Detail)
	})
}
