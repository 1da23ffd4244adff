package meta

import (
	"time"

	"github.com/google/uuid"

	"lifehud/internal/scope"
)

// Meta is a short-term focus goal for one area: a weekly XP target tracked
// over the seven days after its creation. A positive DailySuggestionXP
// generates a linked daily quest that feeds the meta through the ledger.
type Meta struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Area              string    `gorm:"not null" json:"area"`
	WeeklyTarget      int       `json:"weekly_target"`
	Note              string    `json:"note"`
	DailySuggestionXP int       `json:"daily_suggestion_xp"`
	Active            bool      `json:"active"`
	Owner             *string   `gorm:"column:owner;index" json:"owner,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (m *Meta) Scope() scope.Scope {
	return scope.FromOwner(m.Owner)
}
