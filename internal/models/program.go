package models

import "time"

const (
	DeliveryOnline  = "online"
	DeliveryOffline = "offline"
)

// SessionBlock is a coach-authored multi-session program template. It owns
// its session templates and, through them, their drill assignments.
type SessionBlock struct {
	ID             int64             `json:"id"`
	CoachID        int64             `json:"coach_id"`
	Title          string            `json:"title"`
	Description    *string           `json:"description,omitempty"`
	TotalSessions  int               `json:"total_sessions"`
	SkillLevelFrom string            `json:"skill_level_from"`
	SkillLevelTo   string            `json:"skill_level_to"`
	Price          float64           `json:"price"`
	DurationWeeks  int               `json:"duration_weeks"`
	DeliveryMode   string            `json:"delivery_mode"`
	CourtAddress   *string           `json:"court_address,omitempty"`
	MeetingLink    *string           `json:"meeting_link,omitempty"`
	IsActive       bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Sessions       []SessionTemplate `json:"sessions,omitempty"`
}

// Location resolves where a session of this block happens: the meeting link
// for online blocks, the court address for offline ones.
func (b *SessionBlock) Location() string {
	if b.DeliveryMode == DeliveryOnline {
		if b.MeetingLink != nil {
			return *b.MeetingLink
		}
		return ""
	}
	if b.CourtAddress != nil {
		return *b.CourtAddress
	}
	return ""
}

// SessionTemplate is one numbered lesson-plan slot within a block.
// SessionNumber is 1-based and stays contiguous within the block.
type SessionTemplate struct {
	ID              int64             `json:"id"`
	SessionBlockID  int64             `json:"session_block_id"`
	SessionNumber   int               `json:"session_number"`
	Title           string            `json:"title"`
	Objectives      []string          `json:"objectives"`
	DurationMinutes int               `json:"duration_minutes"`
	CoachNotes      *string           `json:"coach_notes,omitempty"`
	Drills          []DrillAssignment `json:"drills,omitempty"`
}

// TotalDrillMinutes sums the assignment-level durations.
func (t *SessionTemplate) TotalDrillMinutes() int {
	total := 0
	for _, a := range t.Drills {
		total += a.DurationMinutes
	}
	return total
}

// DrillAssignment places a catalog drill into a session template. Order is
// 1-based and stays contiguous within the template. Duration and
// instructions are session-specific and independent of the drill's base
// values.
type DrillAssignment struct {
	ID                int64   `json:"id"`
	SessionTemplateID int64   `json:"session_template_id"`
	DrillID           int64   `json:"drill_id"`
	Order             int     `json:"order"`
	DurationMinutes   int     `json:"duration_minutes"`
	Instructions      *string `json:"instructions,omitempty"`
	IsOptional        bool    `json:"is_optional"`
}
