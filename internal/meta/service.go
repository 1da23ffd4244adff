package meta

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/event"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
	util "lifehud/internal/utils"
)

var (
	ErrMetaNotFound = errors.New("meta not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidMeta  = errors.New("meta needs an area and a positive weekly target")
)

// windowDays is the length of a meta's tracking window, first day included.
const windowDays = 7

type Service interface {
	Create(ctx context.Context, dto SaveMetaDTO) (*Meta, error)
	Update(ctx context.Context, id uuid.UUID, dto SaveMetaDTO) (*Meta, error)
	List(ctx context.Context) ([]Meta, error)
	// Delete removes the meta, its generated quest and the area's custom
	// goal targets in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	// WeekProgress reports accumulation inside the meta's own window,
	// counting only events linked to the meta.
	WeekProgress(ctx context.Context, id uuid.UUID) (*Progress, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	quests quest.Repository
	events event.Repository
	cfg    userconfig.Repository
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, quests quest.Repository, events event.Repository, cfg userconfig.Repository) Service {
	return &service{db: db, repo: repo, quests: quests, events: events, cfg: cfg, now: time.Now}
}

func usernameFromContext(ctx context.Context) (string, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.Username, nil
}

func questTitle(m *Meta) string {
	return fmt.Sprintf("Meta diária: %s", m.Area)
}

func (s *service) Create(ctx context.Context, dto SaveMetaDTO) (*Meta, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if dto.Area == "" || dto.WeeklyTarget <= 0 {
		return nil, ErrInvalidMeta
	}

	m := &Meta{
		ID:                uuid.New(),
		Area:              dto.Area,
		WeeklyTarget:      dto.WeeklyTarget,
		Note:              dto.Note,
		DailySuggestionXP: dto.DailySuggestionXP,
		Active:            true,
		Owner:             &username,
		// The progress window starts at creation, on the service clock.
		CreatedAt: s.now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(m); err != nil {
			return err
		}
		if m.DailySuggestionXP > 0 {
			return s.quests.WithTx(tx).Create(&quest.Quest{
				ID:       uuid.New(),
				Title:    questTitle(m),
				Area:     m.Area,
				XPReward: m.DailySuggestionXP,
				Cadence:  quest.CadenceDaily,
				Active:   true,
				Owner:    &username,
				MetaID:   &m.ID,
			})
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to create meta")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"username": username, "area": m.Area, "weekly_target": m.WeeklyTarget,
	}).Info("Meta created")
	return m, nil
}

// ownedMeta loads a meta belonging to the caller.
func (s *service) ownedMeta(username string, id uuid.UUID) (*Meta, error) {
	m, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Owner == nil || *m.Owner != username {
		return nil, ErrMetaNotFound
	}
	return m, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto SaveMetaDTO) (*Meta, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.ownedMeta(username, id)
	if err != nil {
		return nil, err
	}
	if dto.Area != "" {
		m.Area = dto.Area
	}
	if dto.WeeklyTarget > 0 {
		m.WeeklyTarget = dto.WeeklyTarget
	}
	m.Note = dto.Note
	m.DailySuggestionXP = dto.DailySuggestionXP

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(m); err != nil {
			return err
		}
		return s.syncQuest(tx, username, m)
	})
	if err != nil {
		log.WithError(err).Error("Failed to update meta")
		return nil, err
	}
	return m, nil
}

// syncQuest reconciles the meta's generated quest with its current daily
// suggestion: created when one appears, updated in place, removed when it
// drops to zero.
func (s *service) syncQuest(tx *gorm.DB, username string, m *Meta) error {
	quests := s.quests.WithTx(tx)
	q, err := quests.FindByMeta(m.ID)
	if err != nil {
		return err
	}

	switch {
	case m.DailySuggestionXP <= 0:
		if q == nil {
			return nil
		}
		return quests.DeleteByMeta(m.ID)
	case q == nil:
		return quests.Create(&quest.Quest{
			ID:       uuid.New(),
			Title:    questTitle(m),
			Area:     m.Area,
			XPReward: m.DailySuggestionXP,
			Cadence:  quest.CadenceDaily,
			Active:   true,
			Owner:    &username,
			MetaID:   &m.ID,
		})
	default:
		q.Title = questTitle(m)
		q.Area = m.Area
		q.XPReward = m.DailySuggestionXP
		return quests.Update(q)
	}
}

func (s *service) List(ctx context.Context) ([]Meta, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOwned(username)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.ownedMeta(username, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.quests.WithTx(tx).DeleteByMeta(m.ID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Delete(m.ID); err != nil {
			return err
		}
		cfg := s.cfg.WithTx(tx)
		if err := cfg.SetInt(username, userconfig.WeeklyGoalKey(m.Area), userconfig.DefaultWeeklyGoal); err != nil {
			return err
		}
		return cfg.SetInt(username, userconfig.MonthlyGoalKey(m.Area), userconfig.DefaultMonthlyGoal)
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete meta")
		return err
	}
	return nil
}

func (s *service) WeekProgress(ctx context.Context, id uuid.UUID) (*Progress, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.ownedMeta(username, id)
	if err != nil {
		return nil, err
	}

	start := util.DateOf(m.CreatedAt)
	end := start.AddDays(windowDays - 1)
	today := util.DateOf(s.now())
	if end.After(today) {
		end = today
	}

	sum, err := s.events.SumForMeta(username, m.ID, start, end)
	if err != nil {
		return nil, err
	}

	fraction := 0.0
	if m.WeeklyTarget > 0 {
		fraction = float64(sum) / float64(m.WeeklyTarget)
		if fraction > 1 {
			fraction = 1
		}
	}

	return &Progress{
		Meta:        *m,
		WindowStart: start,
		WindowEnd:   end,
		Accumulated: sum,
		Target:      m.WeeklyTarget,
		Fraction:    fraction,
	}, nil
}
