package event

import (
	"github.com/google/uuid"

	util "lifehud/internal/utils"
)

type RecordEventDTO struct {
	Date   util.Date  `json:"date"`
	Area   string     `json:"area"`
	XP     int        `json:"xp"`
	Note   string     `json:"note"`
	MetaID *uuid.UUID `json:"meta_id,omitempty"`
}

type UpdateEventDTO struct {
	Date util.Date `json:"date"`
	Area string    `json:"area"`
	XP   int       `json:"xp"`
	Note string    `json:"note"`
}

// Filter narrows event listings and aggregates.
type Filter struct {
	From   *util.Date
	To     *util.Date
	Area   string
	MetaID *uuid.UUID
}

// AreaXP is one per-area aggregate row.
type AreaXP struct {
	Area string `json:"area"`
	XP   int    `json:"xp"`
}

// TimeBucket is one point of the XP-over-time series.
type TimeBucket struct {
	Date util.Date `json:"date"`
	XP   int       `json:"xp"`
}

// ImportReport summarises a CSV import: malformed rows are skipped and
// reported individually, never fatal.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
