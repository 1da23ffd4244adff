package quest

import (
	"time"

	"github.com/google/uuid"

	"lifehud/internal/scope"
	util "lifehud/internal/utils"
)

// Cadence is how often a quest is meant to be completed.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
	CadenceOnce   Cadence = "once"
)

func (c Cadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceOnce:
		return true
	}
	return false
}

// Quest is a repeatable task that grants XP through the event ledger on
// completion. Global quests (nil Owner) are shared definitions; completing
// one clones it into an owned copy so streak state stays per user. MetaID
// links quests generated from a meta's daily suggestion.
type Quest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Area      string     `json:"area"`
	XPReward  int        `json:"xp_reward"`
	Cadence   Cadence    `json:"cadence"`
	LastDone  *util.Date `json:"last_done,omitempty"`
	Streak    int        `json:"streak"`
	Active    bool       `json:"active"`
	Owner     *string    `gorm:"column:owner;index" json:"owner,omitempty"`
	MetaID    *uuid.UUID `gorm:"index" json:"meta_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (q *Quest) Scope() scope.Scope {
	return scope.FromOwner(q.Owner)
}
