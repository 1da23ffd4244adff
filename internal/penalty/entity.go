package penalty

import (
	"time"

	"github.com/google/uuid"

	"lifehud/internal/scope"
)

// Source identifies which engine produced a penalty application.
type Source string

const (
	SourceManual      Source = "manual"
	SourceQuestSweep  Source = "quest_sweep"
	SourceWeeklyFail  Source = "weekly_fail"
	SourceMonthlyFail Source = "monthly_fail"
)

// Rule is a named, reusable deduction. A nil Owner makes it available to
// every user.
type Rule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Area      string    `json:"area"`
	Amount    int       `json:"amount"`
	Owner     *string   `gorm:"column:owner" json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rule) Scope() scope.Scope {
	return scope.FromOwner(r.Owner)
}

// Application is one append-only audit row per applied penalty. It survives
// edits and deletions in the event ledger, so the penalty history stays
// reconstructible. RuleID is nil for sweep-generated penalties.
type Application struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"index;not null" json:"username"`
	RuleID    *uuid.UUID `json:"rule_id,omitempty"`
	RuleName  string     `json:"rule_name"`
	Area      string     `json:"area"`
	Amount    int        `json:"amount"`
	Source    Source     `json:"source"`
	Note      string     `json:"note"`
	AppliedAt time.Time  `json:"applied_at"`
}
