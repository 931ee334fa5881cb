package models

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is a generated set of questions for one subject/topic
type Quiz struct {
	ID              string     `json:"id"`
	Subject         string     `json:"subject"`
	Topic           string     `json:"topic"`
	QuizType        string     `json:"quiz_type"`
	Difficulty      string     `json:"difficulty"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
	CreatedAt       string     `json:"created_at,omitempty"`
	SourceDocuments []string   `json:"source_documents,omitempty"`
}

// Question is a single quiz question. MCQ questions carry options and a
// correct answer; subjective questions carry sample answer points and marks.
type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options,omitempty"`
	CorrectAnswer      string   `json:"correct_answer,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
	SampleAnswerPoints []string `json:"sample_answer_points,omitempty"`
	MaxMarks           int      `json:"max_marks,omitempty"`
	TimeLimit          string   `json:"time_limit,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	SourceText         string   `json:"source_text,omitempty"`
}

// QuestionResult is the per-question outcome of an evaluation
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Evaluation is the AI backend's scoring of a submitted quiz
type Evaluation struct {
	QuizID          string           `json:"quiz_id"`
	TotalQuestions  int              `json:"total_questions"`
	AnswersProvided int              `json:"answers_provided"`
	Results         []QuestionResult `json:"results"`
	Score           int              `json:"score"`
	Percentage      float64          `json:"percentage"`
	Feedback        []string         `json:"feedback,omitempty"`
}

// QuizResult is the persisted history row for a completed attempt
type QuizResult struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	QuizID         string    `json:"quiz_id" db:"quiz_id"`
	Subject        string    `json:"subject" db:"subject"`
	QuizType       string    `json:"quiz_type" db:"quiz_type"`
	Score          int       `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	Percentage     float64   `json:"percentage" db:"percentage"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
