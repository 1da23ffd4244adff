package penalty

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
	"lifehud/internal/scope"
	"lifehud/internal/userconfig"
	util "lifehud/internal/utils"
)

var (
	ErrRuleNotFound   = errors.New("penalty rule not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRule    = errors.New("rule needs a name, an area and a positive amount")
	ErrGlobalReserved = errors.New("only admins can manage global rules")
)

// CooldownDays is how long a rule rests between applications per user.
const CooldownDays = 1

// CooldownError refuses an application that would land inside the rule's
// cooldown window.
type CooldownError struct {
	RuleName     string
	NextEligible util.Date
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("penalty %q is on cooldown, next eligible %s", e.RuleName, e.NextEligible)
}

type Service interface {
	CreateRule(ctx context.Context, dto CreateRuleDTO) (*Rule, error)
	ListRules(ctx context.Context) ([]Rule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	// Apply deducts the rule's amount from the caller once per cooldown
	// window; a *CooldownError refusal names the next eligible date.
	Apply(ctx context.Context, id uuid.UUID) (*Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	cfg    userconfig.Repository
	events event.Service
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, cfg userconfig.Repository, events event.Service) Service {
	return &service{db: db, repo: repo, cfg: cfg, events: events, now: time.Now}
}

func claimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *service) CreateRule(ctx context.Context, dto CreateRuleDTO) (*Rule, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if dto.Name == "" || dto.Area == "" || dto.Amount <= 0 {
		return nil, ErrInvalidRule
	}

	sc := scope.Owned(claims.Username)
	if dto.Global {
		if claims.Role != "admin" {
			return nil, ErrGlobalReserved
		}
		sc = scope.Global()
	}

	rule := &Rule{
		ID:     uuid.New(),
		Name:   dto.Name,
		Area:   dto.Area,
		Amount: dto.Amount,
		Owner:  sc.OwnerColumn(),
	}
	if err := s.repo.CreateRule(rule); err != nil {
		log.WithError(err).Error("Failed to create penalty rule")
		return nil, err
	}
	return rule, nil
}

func (s *service) ListRules(ctx context.Context) ([]Rule, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRules(claims.Username)
}

func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	rule, err := s.repo.FindRuleByID(id)
	if err != nil {
		return err
	}
	if rule == nil || !rule.Scope().VisibleTo(claims.Username) {
		return ErrRuleNotFound
	}
	if rule.Scope().IsGlobal() && claims.Role != "admin" {
		return ErrGlobalReserved
	}
	return s.repo.DeleteRule(id)
}

func (s *service) Apply(ctx context.Context, id uuid.UUID) (*Application, error) {
	log := config.WithContext(ctx)
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	username := claims.Username

	rule, err := s.repo.FindRuleByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil || !rule.Scope().VisibleTo(username) {
		return nil, ErrRuleNotFound
	}

	today := util.DateOf(s.now())
	cooldownKey := userconfig.PenaltyCooldownKey(rule.ID.String())
	if last, ok := s.cfg.GetDate(username, cooldownKey); ok {
		if today.DaysSince(last) < CooldownDays {
			return nil, &CooldownError{
				RuleName:     rule.Name,
				NextEligible: last.AddDays(CooldownDays),
			}
		}
	}

	app := &Application{
		ID:        uuid.New(),
		Username:  username,
		RuleID:    &rule.ID,
		RuleName:  rule.Name,
		Area:      rule.Area,
		Amount:    rule.Amount,
		Source:    SourceManual,
		Note:      fmt.Sprintf("Penalty: %s", rule.Name),
		AppliedAt: s.now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.events.Grant(ctx, tx, username, event.GrantInput{
			Date: today,
			Area: rule.Area,
			XP:   -rule.Amount,
			Note: app.Note,
			Type: event.TypePenalty,
		}); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).RecordApplication(app); err != nil {
			return err
		}
		return s.cfg.WithTx(tx).SetDate(username, cooldownKey, today)
	})
	if err != nil {
		log.WithError(err).Error("Failed to apply penalty")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"username": username, "rule": rule.Name, "amount": rule.Amount,
	}).Info("Penalty applied")
	return app, nil
}

func (s *service) ListApplications(ctx context.Context) ([]Application, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListApplications(claims.Username)
}
