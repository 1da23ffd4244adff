// Package level maps cumulative XP to levels. The curve is pure state-free
// arithmetic so repeated calls with the same XP always agree.
package level

import "math"

const (
	// BaseXP and Exponent define the curve: xp required for level L is
	// ceil(BaseXP * L^Exponent), with level 1 free.
	BaseXP   = 100.0
	Exponent = 1.45

	// MaxLevel bounds the search loop against runaway XP totals.
	MaxLevel = 1000
)

// XPForLevel returns the cumulative XP threshold for the given level.
// Levels at or below 1 require no XP.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Ceil(BaseXP * math.Pow(float64(level), Exponent)))
}

// LevelFromXP returns the highest level whose threshold does not exceed xp,
// clamped to 1 for non-positive XP and capped at MaxLevel.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	lvl := 1
	for XPForLevel(lvl+1) <= xp {
		lvl++
		if lvl >= MaxLevel {
			break
		}
	}
	return lvl
}

// Progress describes position within the current level.
type Progress struct {
	Level       int     `json:"level"`
	XPIntoLevel int     `json:"xp_into_level"`
	XPForNext   int     `json:"xp_for_next"`
	Fraction    float64 `json:"fraction"`
}

// ProgressForXP derives the progress-bar view of xp. Fraction is clamped to
// [0,1] and defined as 0 when the next-level span is zero (level cap).
func ProgressForXP(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	lvl := LevelFromXP(xp)
	into := xp - XPForLevel(lvl)
	span := XPForLevel(lvl+1) - XPForLevel(lvl)

	frac := 0.0
	if span > 0 {
		frac = float64(into) / float64(span)
		if frac > 1 {
			frac = 1
		}
	}
	return Progress{Level: lvl, XPIntoLevel: into, XPForNext: span, Fraction: frac}
}
