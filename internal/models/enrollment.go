package models

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentPaused    = "paused"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// StudentEnrollment is one student's instance of a session block.
// CompletedSessions is kept sorted ascending; Progress and CurrentSession
// are derived from it and never set by hand.
type StudentEnrollment struct {
	ID                int64     `json:"id"`
	StudentID         int64     `json:"student_id"`
	SessionBlockID    int64     `json:"session_block_id"`
	CoachID           int64     `json:"coach_id"`
	StartDate         time.Time `json:"start_date"`
	CurrentSession    int       `json:"current_session"`
	CompletedSessions []int     `json:"completed_sessions"`
	Progress          float64   `json:"progress"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	TotalPaid         float64   `json:"total_paid"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasCompleted reports whether sessionNumber is in the completed set.
func (e *StudentEnrollment) HasCompleted(sessionNumber int) bool {
	for _, n := range e.CompletedSessions {
		if n == sessionNumber {
			return true
		}
	}
	return false
}

// SessionProgress records one completed session for one enrollment. At most
// one record exists per (enrollment, session number); recording again
// replaces the previous record.
type SessionProgress struct {
	ID                int64     `json:"id"`
	EnrollmentID      int64     `json:"enrollment_id"`
	SessionNumber     int       `json:"session_number"`
	CompletedDrillIDs []int64   `json:"completed_drill_ids"`
	CoachFeedback     *string   `json:"coach_feedback,omitempty"`
	Rating            *int      `json:"rating,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
}

const (
	ScheduledUpcoming  = "upcoming"
	ScheduledCompleted = "completed"
)

// SessionTimeOverride replaces the default start/end time of one projected
// session for one enrollment. Times are "HH:MM" strings.
type SessionTimeOverride struct {
	EnrollmentID  int64  `json:"enrollment_id"`
	SessionNumber int    `json:"session_number"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// ScheduledSession is the projection of one session template onto a
// concrete date for one enrollment. It is computed on demand and never
// persisted.
type ScheduledSession struct {
	SessionNumber     int       `json:"session_number"`
	SessionTemplateID int64     `json:"session_template_id"`
	EnrollmentID      int64     `json:"enrollment_id"`
	StudentID         int64     `json:"student_id"`
	Date              time.Time `json:"date"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	Location          string    `json:"location"`
	DeliveryMode      string    `json:"delivery_mode"`
	Status            string    `json:"status"`
}

// EnrollmentSummary is the aggregate view behind every progress bar.
type EnrollmentSummary struct {
	EnrollmentID   int64   `json:"enrollment_id"`
	Progress       float64 `json:"progress"`
	CurrentSession int     `json:"current_session"`
	CompletedCount int     `json:"completed_count"`
	RemainingCount int     `json:"remaining_count"`
}

// PaginationMeta describes one page of a list response.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
