// Package quiz drives the four-step quiz wizard. Session state, including
// the accumulated answer map, lives only in memory: a restart loses
// in-flight attempts, and only submitted results are persisted elsewhere.
package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

// State is one step of the quiz wizard
type State string

const (
	StateUpload    State = "upload"
	StateConfigure State = "configure"
	StateAttempt   State = "attempt"
	StateResults   State = "results"
)

var (
	ErrSessionNotFound   = errors.New("quiz session not found")
	ErrInvalidTransition = errors.New("invalid quiz session transition")
	ErrNoDocuments       = errors.New("at least one uploaded document is required")
	ErrNoSubject         = errors.New("subject is required")
)

// Session is one user's in-flight quiz wizard. Transitions move strictly
// forward on successful external calls; the only backward moves are
// Configure→Upload and Attempt→Configure.
type Session struct {
	mu sync.Mutex

	ID          uuid.UUID
	UserID      uuid.UUID
	State       State
	Subject     string
	DocumentIDs []string
	Quiz        *models.Quiz
	Answers     map[string]string
	Evaluation  *models.Evaluation
	CreatedAt   time.Time
}

// View is a lock-free snapshot of a session for API output
type View struct {
	ID          uuid.UUID          `json:"id"`
	State       State              `json:"state"`
	Subject     string             `json:"subject,omitempty"`
	DocumentIDs []string           `json:"document_ids"`
	Quiz        *models.Quiz       `json:"quiz,omitempty"`
	Answers     map[string]string  `json:"answers,omitempty"`
	Evaluation  *models.Evaluation `json:"evaluation,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RecordUpload stores the document ids returned by a successful upload call
// and advances Upload→Configure. Further uploads while configuring just add
// documents for the same subject.
func (s *Session) RecordUpload(subject string, documentIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateUpload && s.State != StateConfigure {
		return ErrInvalidTransition
	}
	if subject == "" {
		return ErrNoSubject
	}
	if s.State == StateConfigure && s.Subject != subject {
		// New subject restarts the document set
		s.DocumentIDs = nil
	}
	s.Subject = subject
	s.DocumentIDs = append(s.DocumentIDs, documentIDs...)
	s.State = StateConfigure
	return nil
}

// Back steps the wizard one state backward where allowed. Leaving Attempt
// discards the generated quiz and any accumulated answers.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State {
	case StateConfigure:
		s.State = StateUpload
	case StateAttempt:
		s.Quiz = nil
		s.Answers = nil
		s.State = StateConfigure
	default:
		return ErrInvalidTransition
	}
	return nil
}

// BeginAttempt advances Configure→Attempt once a quiz has been generated.
// Requires a subject with at least one associated document.
func (s *Session) BeginAttempt(q *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateConfigure {
		return ErrInvalidTransition
	}
	if s.Subject == "" {
		return ErrNoSubject
	}
	if len(s.DocumentIDs) == 0 {
		return ErrNoDocuments
	}
	s.Quiz = q
	s.Answers = make(map[string]string)
	s.State = StateAttempt
	return nil
}

// SetAnswers merges answers keyed by question id into the attempt
func (s *Session) SetAnswers(answers map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateAttempt {
		return ErrInvalidTransition
	}
	for questionID, answer := range answers {
		s.Answers[questionID] = answer
	}
	return nil
}

// AnswerMap returns a copy of the accumulated answers
func (s *Session) AnswerMap() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return answers
}

// Complete records the evaluation and advances Attempt→Results
func (s *Session) Complete(eval *models.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateAttempt {
		return ErrInvalidTransition
	}
	s.Evaluation = eval
	s.State = StateResults
	return nil
}

// Snapshot returns a consistent copy for rendering
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]string, len(s.DocumentIDs))
	copy(docs, s.DocumentIDs)

	var answers map[string]string
	if s.Answers != nil {
		answers = make(map[string]string, len(s.Answers))
		for k, v := range s.Answers {
			answers[k] = v
		}
	}

	return View{
		ID:          s.ID,
		State:       s.State,
		Subject:     s.Subject,
		DocumentIDs: docs,
		Quiz:        s.Quiz,
		Answers:     answers,
		Evaluation:  s.Evaluation,
		CreatedAt:   s.CreatedAt,
	}
}

// Registry holds all live quiz sessions in memory
type Registry struct {
	sessions sync.Map // map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create starts a new wizard in the Upload state
func (r *Registry) Create(userID uuid.UUID) *Session {
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		State:     StateUpload,
		CreatedAt: time.Now(),
	}
	r.sessions.Store(s.ID, s)
	return s
}

// Get looks up a session by id, scoped to its owner
func (r *Registry) Get(id, userID uuid.UUID) (*Session, error) {
	val, ok := r.sessions.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := val.(*Session)
	if s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session from the registry
func (r *Registry) Delete(id uuid.UUID) {
	r.sessions.Delete(id)
}
