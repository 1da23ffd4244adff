package userconfig

// Entry is one per-user configuration value. The table doubles as the durable
// clock state for sweeps and cooldowns.
type Entry struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Username string `gorm:"column:username;uniqueIndex:idx_user_key;not null" json:"username"`
	Key      string `gorm:"uniqueIndex:idx_user_key;not null" json:"key"`
	Value    string `json:"value"`
}

func (Entry) TableName() string { return "user_config" }

// Well-known keys. Area-parameterised keys are built with the helper funcs.
const (
	KeyPenaltyActive        = "penalty_active"
	KeyPenaltyAmount        = "penalty_amount"
	KeyPenaltyWeeklyActive  = "penalty_weekly_active"
	KeyPenaltyWeeklyAmount  = "penalty_weekly_amount"
	KeyPenaltyMonthlyActive = "penalty_monthly_active"
	KeyPenaltyMonthlyAmount = "penalty_monthly_amount"
	KeyLastWeeklyCheck      = "last_weekly_check"
	KeyLastMonthlyCheck     = "last_monthly_check"
	KeyLastQuestSweep       = "last_quest_sweep"
	KeyPrevLevel            = "prev_level"
)

// Defaults for missing values.
const (
	DefaultWeeklyGoal    = 100
	DefaultMonthlyGoal   = 400
	DefaultPenaltyAmount = 10
)

func WeeklyGoalKey(area string) string  { return "goal_weekly_" + area }
func MonthlyGoalKey(area string) string { return "goal_monthly_" + area }

// PenaltyCooldownKey scopes a manual penalty rule's cooldown marker to the rule.
func PenaltyCooldownKey(ruleID string) string { return "penalty_last_" + ruleID }
