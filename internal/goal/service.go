package goal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/event"
	"lifehud/internal/penalty"
	"lifehud/internal/userconfig"
	util "lifehud/internal/utils"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidTarget = errors.New("target needs an area")
)

type Service interface {
	// Progress reports current-week (Monday-start) and current-month XP per
	// area against the configured targets.
	Progress(ctx context.Context) ([]AreaProgress, error)
	SetTargets(ctx context.Context, targets []TargetDTO) error
	// ComplianceSweep settles finished periods: on Mondays it scores the
	// previous Mon-Sun week, on the 1st the previous calendar month, each
	// guarded by a durable marker so a period is settled at most once.
	// Failing areas cost the configured penalty through the ledger.
	ComplianceSweep(ctx context.Context) (*SweepReport, error)
}

type service struct {
	db        *gorm.DB
	events    event.Repository
	cfg       userconfig.Repository
	grants    event.Service
	penalties penalty.Repository
	now       func() time.Time
}

func NewService(db *gorm.DB, events event.Repository, cfg userconfig.Repository, grants event.Service, penalties penalty.Repository) Service {
	return &service{db: db, events: events, cfg: cfg, grants: grants, penalties: penalties, now: time.Now}
}

func usernameFromContext(ctx context.Context) (string, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.Username, nil
}

// trackedAreas is the default area set plus anything the user has ever
// logged against.
func (s *service) trackedAreas(ctx context.Context, username string) ([]string, error) {
	byArea, err := s.events.XPByArea(ctx, username)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(event.DefaultAreas))
	var areas []string
	for _, a := range event.DefaultAreas {
		seen[a] = true
		areas = append(areas, a)
	}
	for a := range byArea {
		if !seen[a] {
			areas = append(areas, a)
		}
	}
	sort.Strings(areas)
	return areas, nil
}

func (s *service) sumRange(username, area string, from, to util.Date) (int, error) {
	rows, err := s.events.SumByArea(username, event.Filter{From: &from, To: &to, Area: area})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range rows {
		total += r.XP
	}
	return total, nil
}

func (s *service) Progress(ctx context.Context) ([]AreaProgress, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	weekStart := util.WeekStart(today)
	monthStart := util.MonthStart(today)

	areas, err := s.trackedAreas(ctx, username)
	if err != nil {
		return nil, err
	}

	progress := make([]AreaProgress, 0, len(areas))
	for _, area := range areas {
		weekly, err := s.sumRange(username, area, weekStart, today)
		if err != nil {
			return nil, err
		}
		monthly, err := s.sumRange(username, area, monthStart, today)
		if err != nil {
			return nil, err
		}
		progress = append(progress, AreaProgress{
			Area:          area,
			WeeklyXP:      weekly,
			WeeklyTarget:  s.cfg.GetInt(username, userconfig.WeeklyGoalKey(area), userconfig.DefaultWeeklyGoal),
			MonthlyXP:     monthly,
			MonthlyTarget: s.cfg.GetInt(username, userconfig.MonthlyGoalKey(area), userconfig.DefaultMonthlyGoal),
		})
	}
	return progress, nil
}

func (s *service) SetTargets(ctx context.Context, targets []TargetDTO) error {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return err
	}

	for _, t := range targets {
		if t.Area == "" {
			return ErrInvalidTarget
		}
		if t.Weekly > 0 {
			if err := s.cfg.SetInt(username, userconfig.WeeklyGoalKey(t.Area), t.Weekly); err != nil {
				log.WithError(err).Error("Failed to set weekly target")
				return err
			}
		}
		if t.Monthly > 0 {
			if err := s.cfg.SetInt(username, userconfig.MonthlyGoalKey(t.Area), t.Monthly); err != nil {
				log.WithError(err).Error("Failed to set monthly target")
				return err
			}
		}
	}
	return nil
}

func (s *service) ComplianceSweep(ctx context.Context) (*SweepReport, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{}
	today := util.DateOf(s.now())

	if today.Weekday() == time.Monday && s.cfg.GetBool(username, userconfig.KeyPenaltyWeeklyActive, false) {
		if last, ok := s.cfg.GetDate(username, userconfig.KeyLastWeeklyCheck); !ok || today.After(last) {
			from, to := util.PrevWeekRange(today)
			failed, err := s.settlePeriod(ctx, username, periodSettlement{
				from:      from,
				to:        to,
				today:     today,
				targetKey: userconfig.WeeklyGoalKey,
				defTarget: userconfig.DefaultWeeklyGoal,
				amountKey: userconfig.KeyPenaltyWeeklyAmount,
				markerKey: userconfig.KeyLastWeeklyCheck,
				eventType: event.TypeWeeklyFail,
				source:    penalty.SourceWeeklyFail,
				label:     "weekly goal",
			})
			if err != nil {
				return nil, err
			}
			report.WeeklyRan = true
			report.WeeklyFailed = failed
		}
	}

	if today.Day() == 1 && s.cfg.GetBool(username, userconfig.KeyPenaltyMonthlyActive, false) {
		if last, ok := s.cfg.GetDate(username, userconfig.KeyLastMonthlyCheck); !ok || today.After(last) {
			from, to := util.PrevMonthRange(today)
			failed, err := s.settlePeriod(ctx, username, periodSettlement{
				from:      from,
				to:        to,
				today:     today,
				targetKey: userconfig.MonthlyGoalKey,
				defTarget: userconfig.DefaultMonthlyGoal,
				amountKey: userconfig.KeyPenaltyMonthlyAmount,
				markerKey: userconfig.KeyLastMonthlyCheck,
				eventType: event.TypeMonthlyFail,
				source:    penalty.SourceMonthlyFail,
				label:     "monthly goal",
			})
			if err != nil {
				return nil, err
			}
			report.MonthlyRan = true
			report.MonthlyFailed = failed
		}
	}

	return report, nil
}

type periodSettlement struct {
	from, to  util.Date
	today     util.Date
	targetKey func(area string) string
	defTarget int
	amountKey string
	markerKey string
	eventType event.Type
	source    penalty.Source
	label     string
}

func (s *service) settlePeriod(ctx context.Context, username string, p periodSettlement) ([]string, error) {
	log := config.WithContext(ctx)

	areas, err := s.trackedAreas(ctx, username)
	if err != nil {
		return nil, err
	}
	amount := s.cfg.GetInt(username, p.amountKey, userconfig.DefaultPenaltyAmount)

	// Scoring reads happen before the write transaction opens; the ledger is
	// single-writer, so the period's sums cannot move underneath us.
	type shortfall struct {
		area        string
		got, target int
	}
	var shortfalls []shortfall
	unreadable := 0
	for _, area := range areas {
		got, err := s.sumRange(username, area, p.from, p.to)
		if err != nil {
			log.WithError(err).WithField("area", area).Warn("Skipping area in compliance sweep")
			unreadable++
			continue
		}
		target := s.cfg.GetInt(username, p.targetKey(area), p.defTarget)
		if target <= 0 || got >= target {
			continue
		}
		shortfalls = append(shortfalls, shortfall{area: area, got: got, target: target})
	}
	// An unreadable ledger must not settle the period: leave the marker
	// alone so the next pass retries.
	if len(areas) > 0 && unreadable == len(areas) {
		return nil, fmt.Errorf("%s settlement: no area could be scored", p.label)
	}

	var failed []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		audits := s.penalties.WithTx(tx)

		for _, sf := range shortfalls {
			note := fmt.Sprintf("Penalty: %s missed for %s (%d/%d XP)", p.label, sf.area, sf.got, sf.target)
			if _, err := s.grants.Grant(ctx, tx, username, event.GrantInput{
				Date: p.today,
				Area: sf.area,
				XP:   -amount,
				Note: note,
				Type: p.eventType,
			}); err != nil {
				return err
			}
			if err := audits.RecordApplication(&penalty.Application{
				ID:        uuid.New(),
				Username:  username,
				RuleName:  p.label,
				Area:      sf.area,
				Amount:    amount,
				Source:    p.source,
				Note:      note,
				AppliedAt: s.now(),
			}); err != nil {
				return err
			}
			failed = append(failed, sf.area)
		}

		return s.cfg.WithTx(tx).SetDate(username, p.markerKey, p.today)
	})
	if err != nil {
		log.WithError(err).Error("Compliance settlement failed")
		return nil, err
	}

	if len(failed) > 0 {
		log.WithFields(map[string]interface{}{
			"username": username, "label": p.label, "failed": failed,
		}).Info("Goal compliance penalties applied")
	}
	return failed, nil
}
