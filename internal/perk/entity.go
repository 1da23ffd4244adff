package perk

import (
	"time"

	"github.com/google/uuid"

	"lifehud/internal/scope"
	util "lifehud/internal/utils"
)

// AreaSeparator joins multiple areas in a perk's area spec.
const AreaSeparator = "/"

// Perk is a named multiplicative XP bonus. An empty Area applies to every
// area; a slash-separated Area lists several, each matched independently.
// A nil Owner makes the perk global; a user-owned perk of the same name
// shadows the global one in that user's view.
type Perk struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Area         string     `json:"area"`
	UnlockLevel  int        `json:"unlock_level"`
	Effect       string     `json:"effect"`
	Multiplier   float64    `gorm:"default:1.0" json:"multiplier"`
	DurationDays int        `json:"duration_days"`
	ActivatedAt  *util.Date `json:"activated_at,omitempty"`
	Active       bool       `json:"active"`
	Owner        *string    `gorm:"column:owner" json:"owner,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p *Perk) Scope() scope.Scope {
	return scope.FromOwner(p.Owner)
}
