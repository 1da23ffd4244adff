package event

import (
	util "lifehud/internal/utils"
)

// Badge is a derived achievement; badges are recomputed on read, never
// stored.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ComputeBadges derives the user's badges from their full event history.
func ComputeBadges(events []Event, today util.Date) []Badge {
	badges := []Badge{}
	if len(events) == 0 {
		return badges
	}

	total := 0
	recent := 0
	weekAgo := today.AddDays(-7)
	for _, e := range events {
		total += e.XP
		if !e.Date.Before(weekAgo) {
			recent += e.XP
		}
	}

	if total > 5000 {
		badges = append(badges, Badge{Name: "Veteran", Description: "+5000 XP"})
	}
	if total > 1000 {
		badges = append(badges, Badge{Name: "Committed", Description: ">1000 XP"})
	}
	if recent > 200 {
		badges = append(badges, Badge{Name: "Weekly Hero", Description: ">200 XP last 7d"})
	}

	// Consistency is judged against the calendar, not against whichever
	// weeks happen to carry events: the window is the eight Monday-start
	// weeks ending at today, and an idle week counts against the streak.
	weekXP := make(map[string]int)
	for _, e := range events {
		weekXP[util.WeekStart(e.Date).String()] += e.XP
	}
	active := 0
	thisWeek := util.WeekStart(today)
	for i := 0; i < 8; i++ {
		if weekXP[thisWeek.AddDays(-7*i).String()] > 0 {
			active++
		}
	}
	if active >= 6 {
		badges = append(badges, Badge{Name: "Consistent", Description: "Active 6/8 weeks"})
	}

	return badges
}
