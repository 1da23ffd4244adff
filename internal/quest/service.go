package quest

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
	"lifehud/internal/penalty"
	"lifehud/internal/scope"
	"lifehud/internal/userconfig"
	util "lifehud/internal/utils"
)

var (
	ErrQuestNotFound  = errors.New("quest not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidQuest   = errors.New("quest needs a title, an area and a valid cadence")
	ErrGlobalReserved = errors.New("only admins can manage global quests")
)

type Service interface {
	Create(ctx context.Context, dto CreateQuestDTO) (*Quest, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateQuestDTO) (*Quest, error)
	List(ctx context.Context) ([]Quest, error)
	// Complete marks the quest done today and grants its XP reward through
	// the ledger in one transaction. Completing a global quest operates on
	// an owned clone so streak state stays per user.
	Complete(ctx context.Context, id uuid.UUID) (*Quest, error)
	Disable(ctx context.Context, id uuid.UUID) error
	// PenaltySweep deducts XP for missed daily quests. It runs at most once
	// per user per day and only while the penalty_active toggle is set.
	PenaltySweep(ctx context.Context) (*SweepReport, error)

	Repo() Repository
}

type service struct {
	db        *gorm.DB
	repo      Repository
	cfg       userconfig.Repository
	events    event.Service
	penalties penalty.Repository
	now       func() time.Time
}

func NewService(db *gorm.DB, repo Repository, cfg userconfig.Repository, events event.Service, penalties penalty.Repository) Service {
	return &service{db: db, repo: repo, cfg: cfg, events: events, penalties: penalties, now: time.Now}
}

func (s *service) Repo() Repository { return s.repo }

func claimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *service) Create(ctx context.Context, dto CreateQuestDTO) (*Quest, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if dto.Cadence == "" {
		dto.Cadence = CadenceDaily
	}
	if dto.Title == "" || dto.Area == "" || !dto.Cadence.IsValid() {
		return nil, ErrInvalidQuest
	}

	sc := scope.Owned(claims.Username)
	if dto.Global {
		if claims.Role != "admin" {
			return nil, ErrGlobalReserved
		}
		sc = scope.Global()
	}

	q := &Quest{
		ID:       uuid.New(),
		Title:    dto.Title,
		Area:     dto.Area,
		XPReward: dto.XPReward,
		Cadence:  dto.Cadence,
		Active:   true,
		Owner:    sc.OwnerColumn(),
		MetaID:   dto.MetaID,
	}
	if err := s.repo.Create(q); err != nil {
		log.WithError(err).Error("Failed to create quest")
		return nil, err
	}
	return q, nil
}

// visibleQuest loads a quest the user may act on, enforcing the admin gate
// for global rows when mutating is true.
func (s *service) visibleQuest(claims *auth.Claims, id uuid.UUID, mutating bool) (*Quest, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil || !q.Scope().VisibleTo(claims.Username) {
		return nil, ErrQuestNotFound
	}
	if mutating && q.Scope().IsGlobal() && claims.Role != "admin" {
		return nil, ErrGlobalReserved
	}
	return q, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateQuestDTO) (*Quest, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.visibleQuest(claims, id, true)
	if err != nil {
		return nil, err
	}

	if dto.Title != "" {
		q.Title = dto.Title
	}
	if dto.Area != "" {
		q.Area = dto.Area
	}
	if dto.Cadence != "" {
		if !dto.Cadence.IsValid() {
			return nil, ErrInvalidQuest
		}
		q.Cadence = dto.Cadence
	}
	q.XPReward = dto.XPReward
	if dto.Streak != nil && *dto.Streak >= 0 {
		q.Streak = *dto.Streak
	}

	if err := s.repo.Update(q); err != nil {
		log.WithError(err).Error("Failed to update quest")
		return nil, err
	}
	return q, nil
}

func (s *service) List(ctx context.Context) ([]Quest, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListVisible(claims.Username)
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) (*Quest, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	username := claims.Username

	q, err := s.visibleQuest(claims, id, false)
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if q.Scope().IsGlobal() {
			clone, err := repo.FindOwned(username, q.Title, q.Area)
			if err != nil {
				return err
			}
			if clone == nil {
				clone = &Quest{
					ID:       uuid.New(),
					Title:    q.Title,
					Area:     q.Area,
					XPReward: q.XPReward,
					Cadence:  q.Cadence,
					Active:   true,
					Owner:    &username,
					MetaID:   q.MetaID,
				}
				if err := repo.Create(clone); err != nil {
					return err
				}
			}
			q = clone
		}

		q.Streak = NextStreak(q.Cadence, q.LastDone, q.Streak, today)
		q.LastDone = &today
		if err := repo.Update(q); err != nil {
			return err
		}

		_, err := s.events.Grant(ctx, tx, username, event.GrantInput{
			Date:   today,
			Area:   q.Area,
			XP:     q.XPReward,
			Note:   fmt.Sprintf("Quest: %s", q.Title),
			Type:   event.TypeQuest,
			MetaID: q.MetaID,
		})
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to complete quest")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"username": username, "quest": q.Title, "streak": q.Streak,
	}).Info("Quest completed")
	return q, nil
}

func (s *service) Disable(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	q, err := s.visibleQuest(claims, id, true)
	if err != nil {
		return err
	}

	q.Active = false
	if err := s.repo.Update(q); err != nil {
		log.WithError(err).Error("Failed to disable quest")
		return err
	}
	return nil
}

func (s *service) PenaltySweep(ctx context.Context) (*SweepReport, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	username := claims.Username

	report := &SweepReport{}
	if !s.cfg.GetBool(username, userconfig.KeyPenaltyActive, false) {
		return report, nil
	}

	today := util.DateOf(s.now())
	if last, ok := s.cfg.GetDate(username, userconfig.KeyLastQuestSweep); ok && !today.After(last) {
		return report, nil
	}

	quests, err := s.repo.ListOwnedByCadence(username, CadenceDaily)
	if err != nil {
		return nil, err
	}
	amount := s.cfg.GetInt(username, userconfig.KeyPenaltyAmount, userconfig.DefaultPenaltyAmount)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		audits := s.penalties.WithTx(tx)

		for i := range quests {
			q := &quests[i]
			if q.LastDone == nil {
				continue
			}
			gap := today.DaysSince(*q.LastDone)
			if gap <= 1 {
				continue
			}

			q.Streak = DecayedStreak(q.Streak, gap)
			if err := repo.Update(q); err != nil {
				return err
			}

			note := fmt.Sprintf("Penalty: missed %s", q.Title)
			if _, err := s.events.Grant(ctx, tx, username, event.GrantInput{
				Date: today,
				Area: q.Area,
				XP:   -amount,
				Note: note,
				Type: event.TypePenalty,
			}); err != nil {
				return err
			}
			if err := audits.RecordApplication(&penalty.Application{
				ID:        uuid.New(),
				Username:  username,
				RuleName:  q.Title,
				Area:      q.Area,
				Amount:    amount,
				Source:    penalty.SourceQuestSweep,
				Note:      note,
				AppliedAt: s.now(),
			}); err != nil {
				return err
			}

			report.MissedQuests = append(report.MissedQuests, q.Title)
			report.PenaltyXP += amount
		}

		return s.cfg.WithTx(tx).SetDate(username, userconfig.KeyLastQuestSweep, today)
	})
	if err != nil {
		log.WithError(err).Error("Quest penalty sweep failed")
		return nil, err
	}

	report.Ran = true
	if len(report.MissedQuests) > 0 {
		log.WithFields(map[string]interface{}{
			"username": username, "missed": len(report.MissedQuests), "penalty_xp": report.PenaltyXP,
		}).Info("Missed-quest penalties applied")
	}
	return report, nil
}
