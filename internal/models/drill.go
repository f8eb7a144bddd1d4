package models

import "time"

// Skill tags a drill can target. Stored as plain strings.
const (
	SkillServe     = "serve"
	SkillReturn    = "return"
	SkillDink      = "dink"
	SkillThirdShot = "third_shot"
	SkillVolley    = "volley"
	SkillLob       = "lob"
	SkillStrategy  = "strategy"
)

func ValidSkillTag(tag string) bool {
	switch tag {
	case SkillServe, SkillReturn, SkillDink, SkillThirdShot, SkillVolley, SkillLob, SkillStrategy:
		return true
	}
	return false
}

// Drill is a reusable catalog entry. Once referenced by an assignment it is
// treated as immutable; assignments carry their own duration and
// instructions, so catalog edits never change past session plans.
type Drill struct {
	ID              int64     `json:"id"`
	CoachID         int64     `json:"coach_id"`
	Title           string    `json:"title"`
	SkillTag        string    `json:"skill_tag"`
	LevelBand       string    `json:"level_band"`
	DurationMinutes int       `json:"duration_minutes"`
	Intensity       int       `json:"intensity"`
	Equipment       []string  `json:"equipment"`
	VideoURL        *string   `json:"video_url,omitempty"`
	IsPublic        bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
