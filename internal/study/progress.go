// Package study holds the pure derivation and mutation logic over a
// timetable snapshot. Everything here is computed from the per-session
// completed flags on demand; no aggregate counters are stored anywhere.
package study

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ujjwalagrawal22/smartstudy-go/internal/models"
)

var ErrSessionNotFound = errors.New("session not found in timetable")

const dateLayout = "2006-01-02"

// ProgressPercentage returns the rounded overall completion percentage.
// A timetable with no sessions is 0% complete.
func ProgressPercentage(t *models.Timetable) int {
	completed, total := countSessions(t)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// RemainingDays returns the number of whole days until the final scheduled
// day, treating that date as the exam boundary. Never negative.
func RemainingDays(t *models.Timetable, now time.Time) int {
	if len(t.DailySchedule) == 0 {
		return 0
	}
	last := t.DailySchedule[len(t.DailySchedule)-1]
	lastDate, err := time.Parse(dateLayout, last.Date)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lastDate = time.Date(lastDate.Year(), lastDate.Month(), lastDate.Day(), 0, 0, 0, 0, now.Location())

	days := int(math.Ceil(lastDate.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// SubjectBreakdown derives per-subject completion from the session flags,
// sorted by subject name for stable output.
func SubjectBreakdown(t *models.Timetable) []models.SubjectProgress {
	bySubject := make(map[string]*models.SubjectProgress)

	for _, day := range t.DailySchedule {
		for _, s := range day.Sessions {
			p, ok := bySubject[s.Subject]
			if !ok {
				p = &models.SubjectProgress{Subject: s.Subject}
				bySubject[s.Subject] = p
			}
			p.TotalSessions++
			p.TotalHours += s.DurationHours
			if s.Completed {
				p.CompletedSessions++
				p.CompletedHours += s.DurationHours
			}
		}
	}

	subjects := make([]models.SubjectProgress, 0, len(bySubject))
	for _, p := range bySubject {
		if p.TotalHours > 0 {
			p.Percentage = int(math.Round(100 * p.CompletedHours / p.TotalHours))
		}
		subjects = append(subjects, *p)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Subject < subjects[j].Subject })
	return subjects
}

// BuildReport assembles the full derived progress view
func BuildReport(t *models.Timetable, now time.Time) models.ProgressReport {
	completed, total := countSessions(t)
	return models.ProgressReport{
		TimetableID:        t.ID,
		ProgressPercentage: ProgressPercentage(t),
		CompletedSessions:  completed,
		TotalSessions:      total,
		RemainingDays:      RemainingDays(t, now),
		Subjects:           SubjectBreakdown(t),
	}
}

// ToggleCompletion locates a session by its id, flips its completed flag in
// place, and returns the new value
func ToggleCompletion(t *models.Timetable, sessionID string) (bool, error) {
	s, err := findSession(t, sessionID)
	if err != nil {
		return false, err
	}
	s.Completed = !s.Completed
	return s.Completed, nil
}

// SetNotes assigns the notes text of a session in place
func SetNotes(t *models.Timetable, sessionID, notes string) error {
	s, err := findSession(t, sessionID)
	if err != nil {
		return err
	}
	s.Notes = notes
	return nil
}

// CompletedTopics lists every completed session as "{subject}: {topic}",
// in schedule order. An untouched timetable yields an empty (non-nil) list.
func CompletedTopics(t *models.Timetable) []string {
	topics := []string{}
	for _, day := range t.DailySchedule {
		for _, s := range day.Sessions {
			if s.Completed {
				topics = append(topics, fmt.Sprintf("%s: %s", s.Subject, s.Topic))
			}
		}
	}
	return topics
}

func countSessions(t *models.Timetable) (completed, total int) {
	for _, day := range t.DailySchedule {
		for _, s := range day.Sessions {
			total++
			if s.Completed {
				completed++
			}
		}
	}
	return completed, total
}

func findSession(t *models.Timetable, sessionID string) (*models.StudySession, error) {
	for di := range t.DailySchedule {
		sessions := t.DailySchedule[di].Sessions
		for si := range sessions {
			if sessions[si].SessionID == sessionID {
				return &sessions[si], nil
			}
		}
	}
	return nil, ErrSessionNotFound
}
