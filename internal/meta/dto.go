package meta

import (
	util "lifehud/internal/utils"
)

type SaveMetaDTO struct {
	Area              string `json:"area"`
	WeeklyTarget      int    `json:"weekly_target"`
	Note              string `json:"note"`
	DailySuggestionXP int    `json:"daily_suggestion_xp"`
}

// Progress reports a meta's accumulation inside its own seven-day window.
// Only events linked to the meta count; unrelated activity in the same area
// does not move it.
type Progress struct {
	Meta        Meta      `json:"meta"`
	WindowStart util.Date `json:"window_start"`
	WindowEnd   util.Date `json:"window_end"`
	Accumulated int       `json:"accumulated"`
	Target      int       `json:"target"`
	Fraction    float64   `json:"fraction"`
}
