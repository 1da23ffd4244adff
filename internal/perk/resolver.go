package perk

import (
	"strings"

	util "lifehud/internal/utils"
)

// VisibleTo filters perks down to those in the user's view: globals plus the
// user's own rows, with a user-owned perk suppressing a same-named global.
func VisibleTo(perks []Perk, username string) []Perk {
	ownedNames := make(map[string]bool)
	for _, p := range perks {
		if owner, ok := p.Scope().Owner(); ok && owner == username {
			ownedNames[p.Name] = true
		}
	}

	var visible []Perk
	for _, p := range perks {
		if !p.Scope().VisibleTo(username) {
			continue
		}
		if p.Scope().IsGlobal() && ownedNames[p.Name] {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}

// IsEffective reports whether the perk's bonus currently applies. A perk with
// a duration but no recorded activation timestamp counts as effective: the
// user activated it, so missing timing data must not silently void the bonus.
func IsEffective(p Perk, today util.Date) bool {
	if !p.Active {
		return false
	}
	if p.DurationDays <= 0 {
		return true
	}
	if p.ActivatedAt == nil || p.ActivatedAt.IsZero() {
		return true
	}
	return today.DaysSince(*p.ActivatedAt) < p.DurationDays
}

// MatchesArea reports whether the perk's area spec covers the target area.
// Matching is case-insensitive and substring-wise per segment, so
// "Educação/Inglês/Produtividade" matches "Inglês" and vice versa. An empty
// spec matches every area.
func MatchesArea(spec, area string) bool {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return true
	}
	target := strings.ToLower(strings.TrimSpace(area))
	if target == "" {
		return false
	}
	for _, seg := range strings.Split(spec, AreaSeparator) {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if seg == "" {
			continue
		}
		if strings.Contains(seg, target) || strings.Contains(target, seg) {
			return true
		}
	}
	return false
}

// Resolve returns the single effective multiplier for the area: the highest
// multiplier among the user's effective, matching perks. Perks never stack.
// With no match the multiplier is 1.0.
func Resolve(perks []Perk, username, area string, today util.Date) float64 {
	best := 1.0
	for _, p := range VisibleTo(perks, username) {
		if !IsEffective(p, today) {
			continue
		}
		if !MatchesArea(p.Area, area) {
			continue
		}
		if p.Multiplier > best {
			best = p.Multiplier
		}
	}
	return best
}

// TimeRemaining returns the days left before the perk expires. unlimited is
// true for perks without a duration; expired perks return 0 days.
func TimeRemaining(p Perk, today util.Date) (days int, unlimited bool) {
	if p.DurationDays <= 0 {
		return 0, true
	}
	if p.ActivatedAt == nil || p.ActivatedAt.IsZero() {
		return p.DurationDays, false
	}
	left := p.DurationDays - today.DaysSince(*p.ActivatedAt)
	if left < 0 {
		left = 0
	}
	return left, false
}

// UnlockArea returns the area whose level gates this perk: the first segment
// of the spec, or empty for a global-level requirement.
func UnlockArea(p Perk) string {
	spec := strings.TrimSpace(p.Area)
	if spec == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(spec, AreaSeparator)[0])
}
