package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/event"
	"lifehud/internal/goal"
	"lifehud/internal/level"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
)

var ErrUnauthorized = errors.New("unauthorized")

// AreaLevel is one area's position on the level curve.
type AreaLevel struct {
	Area  string `json:"area"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

// Snapshot is the whole character sheet in one response.
type Snapshot struct {
	TotalXP         int                 `json:"total_xp"`
	Progress        level.Progress      `json:"progress"`
	LeveledUp       bool                `json:"leveled_up"`
	Areas           []AreaLevel         `json:"areas"`
	Badges          []event.Badge       `json:"badges"`
	Quests          []quest.Quest       `json:"quests"`
	Perks           []perk.View         `json:"perks"`
	Goals           []goal.AreaProgress `json:"goals"`
	QuestSweep      *quest.SweepReport  `json:"quest_sweep,omitempty"`
	ComplianceSweep *goal.SweepReport   `json:"compliance_sweep,omitempty"`
}

type Service interface {
	// Snapshot runs the due sweeps and assembles the character sheet. Sweep
	// failures are logged and dropped from the response; a broken penalty
	// pass never blocks the page.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type service struct {
	events event.Service
	ledger event.Repository
	quests quest.Service
	perks  perk.Service
	goals  goal.Service
	cfg    userconfig.Repository
	now    func() time.Time
}

func NewService(events event.Service, ledger event.Repository, quests quest.Service, perks perk.Service, goals goal.Service, cfg userconfig.Repository) Service {
	return &service{events: events, ledger: ledger, quests: quests, perks: perks, goals: goals, cfg: cfg, now: time.Now}
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	log := config.WithContext(ctx)

	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthorized
	}
	username := claims.Username

	snap := &Snapshot{}

	if report, err := s.quests.PenaltySweep(ctx); err != nil {
		log.WithError(err).Warn("Quest penalty sweep failed")
	} else if report.Ran {
		snap.QuestSweep = report
	}
	if report, err := s.goals.ComplianceSweep(ctx); err != nil {
		log.WithError(err).Warn("Goal compliance sweep failed")
	} else if report.WeeklyRan || report.MonthlyRan {
		snap.ComplianceSweep = report
	}

	total, err := s.ledger.TotalXP(ctx, username)
	if err != nil {
		return nil, err
	}
	snap.TotalXP = total
	snap.Progress = level.ProgressForXP(total)

	prev := s.cfg.GetInt(username, userconfig.KeyPrevLevel, snap.Progress.Level)
	snap.LeveledUp = snap.Progress.Level > prev
	if err := s.cfg.SetInt(username, userconfig.KeyPrevLevel, snap.Progress.Level); err != nil {
		log.WithError(err).Warn("Failed to store level marker")
	}

	byArea, err := s.ledger.XPByArea(ctx, username)
	if err != nil {
		return nil, err
	}
	areas := make([]AreaLevel, 0, len(byArea))
	for area, xp := range byArea {
		areas = append(areas, AreaLevel{Area: area, XP: xp, Level: level.LevelFromXP(xp)})
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].Area < areas[j].Area })
	snap.Areas = areas

	if snap.Badges, err = s.events.Badges(ctx); err != nil {
		return nil, err
	}
	if snap.Quests, err = s.quests.List(ctx); err != nil {
		return nil, err
	}
	if snap.Perks, err = s.perks.List(ctx); err != nil {
		return nil, err
	}
	if snap.Goals, err = s.goals.Progress(ctx); err != nil {
		return nil, err
	}

	return snap, nil
}
