package quest

import "github.com/google/uuid"

type CreateQuestDTO struct {
	Title    string     `json:"title"`
	Area     string     `json:"area"`
	XPReward int        `json:"xp_reward"`
	Cadence  Cadence    `json:"cadence"`
	MetaID   *uuid.UUID `json:"meta_id,omitempty"`
	// Global quests are visible to every user; only admins may create them.
	Global bool `json:"global"`
}

type UpdateQuestDTO struct {
	Title    string  `json:"title"`
	Area     string  `json:"area"`
	XPReward int     `json:"xp_reward"`
	Cadence  Cadence `json:"cadence"`
	Streak   *int    `json:"streak,omitempty"`
}

// SweepReport summarises one missed-daily penalty pass.
type SweepReport struct {
	Ran          bool     `json:"ran"`
	MissedQuests []string `json:"missed_quests,omitempty"`
	PenaltyXP    int      `json:"penalty_xp"`
}
