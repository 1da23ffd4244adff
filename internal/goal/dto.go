package goal

// AreaProgress compares one area's calendar-week and calendar-month XP
// against the user's configured targets.
type AreaProgress struct {
	Area          string `json:"area"`
	WeeklyXP      int    `json:"weekly_xp"`
	WeeklyTarget  int    `json:"weekly_target"`
	MonthlyXP     int    `json:"monthly_xp"`
	MonthlyTarget int    `json:"monthly_target"`
}

// TargetDTO sets one area's weekly/monthly targets. A zero value keeps the
// current setting.
type TargetDTO struct {
	Area    string `json:"area"`
	Weekly  int    `json:"weekly"`
	Monthly int    `json:"monthly"`
}

// SweepReport summarises one compliance pass. Each branch runs at most once
// per period; an already-checked period reports as not run.
type SweepReport struct {
	WeeklyRan     bool     `json:"weekly_ran"`
	WeeklyFailed  []string `json:"weekly_failed,omitempty"`
	MonthlyRan    bool     `json:"monthly_ran"`
	MonthlyFailed []string `json:"monthly_failed,omitempty"`
}
