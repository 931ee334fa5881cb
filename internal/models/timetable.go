package models

// Timetable is a generated day-by-day study schedule. It is created wholesale
// by the AI backend, stored as a single per-user snapshot, mutated
// incrementally by completion toggles and note edits, and replaced wholesale
// on regeneration.
//
// Per-session completed flags are the only ground truth for progress. The
// generator also emits a completion_status aggregate; it is dropped on decode
// and all aggregates are recomputed from the sessions.
type Timetable struct {
	ID               string            `json:"id"`
	CreatedAt        string            `json:"created_at,omitempty"`
	TotalDays        int               `json:"total_days"`
	HoursPerDay      int               `json:"hours_per_day,omitempty"`
	TotalHours       int               `json:"total_hours"`
	SubjectHours     map[string]int    `json:"subject_hours"`
	DailySchedule    []Day             `json:"daily_schedule"`
	AIRecommendation string            `json:"ai_recommendations,omitempty"`
	LLMInsights      string            `json:"llm_insights,omitempty"`
	StudyTips        []string          `json:"study_tips,omitempty"`
	PriorityAnalysis []SubjectPriority `json:"priority_analysis,omitempty"`
	GenerationMethod string            `json:"generation_method,omitempty"`
}

// Day is one calendar day of the schedule
type Day struct {
	Day          int            `json:"day"`
	Date         string         `json:"date"`
	FocusSubject *string        `json:"focus_subject,omitempty"`
	Sessions     []StudySession `json:"sessions"`
}

// StudySession is one schedulable block of study time for a subject/topic.
// SessionID uniquely locates a session across the nested day/session lists.
type StudySession struct {
	SessionID     string  `json:"session_id"`
	Subject       string  `json:"subject"`
	Topic         string  `json:"topic"`
	TimeSlot      string  `json:"time_slot"`
	DurationHours float64 `json:"duration_hours"`
	Priority      *string `json:"priority,omitempty"`
	Completed     bool    `json:"completed"`
	Notes         string  `json:"notes,omitempty"`
}

// SubjectPriority is the per-subject urgency breakdown from enhanced generation
type SubjectPriority struct {
	Subject        string `json:"subject"`
	DaysRemaining  int    `json:"days_remaining"`
	Priority       string `json:"priority"`
	AllocatedHours int    `json:"allocated_hours"`
}

// SubjectProgress is the derived per-subject completion summary
type SubjectProgress struct {
	Subject           string  `json:"subject"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedHours    float64 `json:"completed_hours"`
	TotalHours        float64 `json:"total_hours"`
	Percentage        int     `json:"percentage"`
}

// ProgressReport is the full derived progress view over a timetable
type ProgressReport struct {
	TimetableID        string            `json:"timetable_id"`
	ProgressPercentage int               `json:"progress_percentage"`
	CompletedSessions  int               `json:"completed_sessions"`
	TotalSessions      int               `json:"total_sessions"`
	RemainingDays      int               `json:"remaining_days"`
	Subjects           []SubjectProgress `json:"subjects"`
}
