package perk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/level"
	util "lifehud/internal/utils"
)

var (
	ErrPerkNotFound = errors.New("perk not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// XPSource supplies the XP totals that unlock checks depend on. The event
// ledger implements it.
type XPSource interface {
	TotalXP(ctx context.Context, username string) (int, error)
	XPByArea(ctx context.Context, username string) (map[string]int, error)
}

type Service interface {
	List(ctx context.Context) ([]View, error)
	Activate(ctx context.Context, id uuid.UUID) (*Perk, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Perk, error)
	EffectiveMultiplier(ctx context.Context, username, area string) (float64, error)
	TimeRemaining(ctx context.Context, id uuid.UUID) (days int, unlimited bool, err error)
}

type service struct {
	repo Repository
	xp   XPSource
	now  func() time.Time
}

func NewService(repo Repository, xp XPSource) Service {
	return &service{repo: repo, xp: xp, now: time.Now}
}

func usernameFromContext(ctx context.Context) (string, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.Username, nil
}

func (s *service) List(ctx context.Context) ([]View, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	perks, err := s.repo.ListVisible(username)
	if err != nil {
		log.WithError(err).Error("Failed to load perks")
		return nil, err
	}

	totalXP, err := s.xp.TotalXP(ctx, username)
	if err != nil {
		return nil, err
	}
	areaXP, err := s.xp.XPByArea(ctx, username)
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	views := make([]View, 0)
	for _, p := range VisibleTo(perks, username) {
		days, unlimited := TimeRemaining(p, today)
		v := View{
			Perk:          p,
			Unlocked:      s.unlocked(p, totalXP, areaXP),
			Effective:     IsEffective(p, today),
			DaysRemaining: days,
			Unlimited:     unlimited,
		}
		if !v.Unlocked {
			v.Requirement = unlockRequirement(p)
		}
		views = append(views, v)
	}
	return views, nil
}

// unlocked checks the gating level: the first listed area's level, or the
// global level for area-less perks. Unlock only gates activation in the UI;
// it never affects an already-active perk's multiplier.
func (s *service) unlocked(p Perk, totalXP int, areaXP map[string]int) bool {
	area := UnlockArea(p)
	if area == "" {
		return level.LevelFromXP(totalXP) >= p.UnlockLevel
	}
	return level.LevelFromXP(areaXP[area]) >= p.UnlockLevel
}

func unlockRequirement(p Perk) string {
	area := UnlockArea(p)
	if area == "" {
		return fmt.Sprintf("nível global %d", p.UnlockLevel)
	}
	return fmt.Sprintf("%s nível %d", area, p.UnlockLevel)
}

func (s *service) Activate(ctx context.Context, id uuid.UUID) (*Perk, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*Perk, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) setActive(ctx context.Context, id uuid.UUID, active bool) (*Perk, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to load perk")
		return nil, err
	}
	if p == nil || !p.Scope().VisibleTo(username) {
		return nil, ErrPerkNotFound
	}

	p.Active = active
	if active {
		today := util.DateOf(s.now())
		p.ActivatedAt = &today
	} else {
		p.ActivatedAt = nil
	}

	if err := s.repo.Update(p); err != nil {
		log.WithError(err).Error("Failed to update perk")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"perk": p.Name, "active": active, "username": username,
	}).Info("Perk state changed")
	return p, nil
}

// EffectiveMultiplier resolves the single multiplier in force for the area.
// It takes the username explicitly so the event ledger can call it for sweep
// writes as well as request-scoped ones.
func (s *service) EffectiveMultiplier(ctx context.Context, username, area string) (float64, error) {
	perks, err := s.repo.ListVisible(username)
	if err != nil {
		return 1.0, err
	}
	return Resolve(perks, username, area, util.DateOf(s.now())), nil
}

func (s *service) TimeRemaining(ctx context.Context, id uuid.UUID) (int, bool, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return 0, false, err
	}

	p, err := s.repo.FindByID(id)
	if err != nil {
		return 0, false, err
	}
	if p == nil || !p.Scope().VisibleTo(username) {
		return 0, false, ErrPerkNotFound
	}

	days, unlimited := TimeRemaining(*p, util.DateOf(s.now()))
	return days, unlimited, nil
}
