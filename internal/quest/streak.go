package quest

import (
	util "lifehud/internal/utils"
)

// NextStreak returns the streak after completing on today. Daily quests
// chain only on exactly consecutive days; weekly quests chain only on
// consecutive calendar weeks. Any other gap, including a same-period
// repeat, starts over at 1.
func NextStreak(cadence Cadence, last *util.Date, current int, today util.Date) int {
	if last == nil {
		return 1
	}

	switch cadence {
	case CadenceDaily:
		if today.DaysSince(*last) == 1 {
			return current + 1
		}
	case CadenceWeekly:
		if util.WeekStart(today).DaysSince(util.WeekStart(*last)) == 7 {
			return current + 1
		}
	}
	return 1
}

// DecayedStreak shrinks a streak after a gap of `daysSince` days without
// completion: every day past the first costs one streak point, floored at
// zero.
func DecayedStreak(current, daysSince int) int {
	if daysSince <= 1 {
		return current
	}
	decayed := current - (daysSince - 1)
	if decayed < 0 {
		return 0
	}
	return decayed
}
