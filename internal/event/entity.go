package event

import (
	"time"

	"github.com/google/uuid"

	util "lifehud/internal/utils"
)

// Type tags the action that produced an event.
type Type string

const (
	TypeManual      Type = "manual"
	TypeQuest       Type = "quest"
	TypePenalty     Type = "penalty"
	TypeWeeklyFail  Type = "penalty_weekly_fail"
	TypeMonthlyFail Type = "penalty_monthly_fail"
	TypeImport      Type = "import"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeManual, TypeQuest, TypePenalty, TypeWeeklyFail, TypeMonthlyFail, TypeImport:
		return true
	default:
		return false
	}
}

// DefaultAreas is the area catalog offered by the dashboard. Events may use
// free-text areas beyond this list.
var DefaultAreas = []string{
	"Coding",
	"Inglês",
	"Educação",
	"Saúde Mental",
	"Saúde Física",
	"Finanças",
	"Social",
	"Produtividade",
	"Criatividade",
	"Casa",
	"Lazer",
}

// Event is one XP transaction. XP is the effective amount, after the perk
// multiplier was applied at creation; the raw amount survives only as an
// audit annotation in the note.
type Event struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"column:username;index;not null" json:"username"`
	Date      util.Date  `gorm:"index;not null" json:"date"`
	Area      string     `gorm:"index;not null" json:"area"`
	XP        int        `json:"xp"`
	Note      string     `json:"note"`
	Type      Type       `json:"type"`
	MetaID    *uuid.UUID `gorm:"type:uuid;index" json:"meta_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
