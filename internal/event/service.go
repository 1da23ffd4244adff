package event

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	util "lifehud/internal/utils"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidArea   = errors.New("area is required")
)

// MultiplierSource resolves the effective perk multiplier for an area. The
// perk service implements it.
type MultiplierSource interface {
	EffectiveMultiplier(ctx context.Context, username, area string) (float64, error)
}

// GrantInput is an internal XP grant: quest rewards, penalties, imports.
type GrantInput struct {
	Date   util.Date
	Area   string
	XP     int
	Note   string
	Type   Type
	MetaID *uuid.UUID
}

type Service interface {
	Record(ctx context.Context, dto RecordEventDTO) (*Event, error)
	// Grant writes an event on behalf of username. When tx is non-nil the
	// write joins that transaction.
	Grant(ctx context.Context, tx *gorm.DB, username string, in GrantInput) (*Event, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateEventDTO) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter) ([]Event, error)
	AggregateByArea(ctx context.Context, f Filter) ([]AreaXP, error)
	Series(ctx context.Context, freq string, f Filter) ([]TimeBucket, error)
	Badges(ctx context.Context) ([]Badge, error)

	Repo() Repository
}

type service struct {
	repo        Repository
	multipliers MultiplierSource
	now         func() time.Time
}

func NewService(repo Repository, multipliers MultiplierSource) Service {
	return &service{repo: repo, multipliers: multipliers, now: time.Now}
}

func (s *service) Repo() Repository { return s.repo }

func usernameFromContext(ctx context.Context) (string, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.Username, nil
}

// roundHalfUp rounds to the nearest integer, ties away from zero upward.
// 17.25 -> 17, 17.5 -> 18.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Record registers a manual activity for the authenticated user, applying
// the perk multiplier.
func (s *service) Record(ctx context.Context, dto RecordEventDTO) (*Event, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.Grant(ctx, nil, username, GrantInput{
		Date:   dto.Date,
		Area:   dto.Area,
		XP:     dto.XP,
		Note:   dto.Note,
		Type:   TypeManual,
		MetaID: dto.MetaID,
	})
}

func (s *service) Grant(ctx context.Context, tx *gorm.DB, username string, in GrantInput) (*Event, error) {
	log := config.WithContext(ctx)

	if in.Area == "" {
		return nil, ErrInvalidArea
	}
	if !in.Type.IsValid() {
		in.Type = TypeManual
	}
	if in.Date.IsZero() {
		in.Date = util.DateOf(s.now())
	}

	effective := in.XP
	note := in.Note
	// The multiplier only amplifies earned XP; deductions are persisted as
	// requested.
	if in.XP > 0 {
		mult, err := s.multipliers.EffectiveMultiplier(ctx, username, in.Area)
		if err != nil {
			log.WithError(err).Warn("Perk resolution failed, recording raw XP")
			mult = 1.0
		}
		if mult > 1.0 {
			effective = roundHalfUp(float64(in.XP) * mult)
			if effective != in.XP {
				note = appendAudit(note, in.XP, effective, mult)
			}
		}
	}

	e := &Event{
		ID:       uuid.New(),
		Username: username,
		Date:     in.Date,
		Area:     in.Area,
		XP:       effective,
		Note:     note,
		Type:     in.Type,
		MetaID:   in.MetaID,
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	if err := repo.Create(e); err != nil {
		log.WithError(err).Error("Failed to record event")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"username": username, "area": in.Area, "xp": effective, "type": in.Type,
	}).Info("Event recorded")
	return e, nil
}

func appendAudit(note string, raw, effective int, mult float64) string {
	audit := fmt.Sprintf("[perk x%.2f: %d -> %d XP]", mult, raw, effective)
	if note == "" {
		return audit
	}
	return note + " " + audit
}

// Update overwrites the mutable fields of an owned event. Edits are
// corrections, not new activity, so the perk multiplier is not re-applied.
func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateEventDTO) (*Event, error) {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.FindByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to load event")
		return nil, err
	}
	if e == nil || e.Username != username {
		return nil, ErrEventNotFound
	}

	if !dto.Date.IsZero() {
		e.Date = dto.Date
	}
	if dto.Area != "" {
		e.Area = dto.Area
	}
	e.XP = dto.XP
	e.Note = dto.Note

	if err := s.repo.Update(e); err != nil {
		log.WithError(err).Error("Failed to update event")
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)
	username, err := usernameFromContext(ctx)
	if err != nil {
		return err
	}

	e, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if e == nil || e.Username != username {
		return ErrEventNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete event")
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, f Filter) ([]Event, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(username, f)
}

func (s *service) AggregateByArea(ctx context.Context, f Filter) ([]AreaXP, error) {
	username, err := usernameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.SumByArea(username, f)
}

// Series buckets the user's XP by day, week or month. Bucketing happens in
// memory so both store dialects behave identically; the ledger is small
// enough that aggregates are always re-derived from ground truth.
func (s *service) Series(ctx context.Context, freq string, f Filter) ([]TimeBucket, error) {
	events, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return FillBuckets(BucketXP(events, freq), freq), nil
}

// FillBuckets inserts zero-XP buckets for the empty periods between the
// first and last bucket, so a trend series shows idle stretches instead of
// silently skipping them.
func FillBuckets(buckets []TimeBucket, freq string) []TimeBucket {
	if len(buckets) < 2 {
		return buckets
	}
	next := func(d util.Date) util.Date {
		switch freq {
		case "day":
			return d.AddDays(1)
		case "month":
			return util.DateOf(d.AddDate(0, 1, 0))
		default:
			return d.AddDays(7)
		}
	}

	filled := make([]TimeBucket, 0, len(buckets))
	filled = append(filled, buckets[0])
	for _, b := range buckets[1:] {
		for cur := next(filled[len(filled)-1].Date); cur.Before(b.Date); cur = next(cur) {
			filled = append(filled, TimeBucket{Date: cur})
		}
		filled = append(filled, b)
	}
	return filled
}

// BucketXP groups events into day/week/month buckets keyed by the bucket's
// first day. Unknown frequencies fall back to weekly.
func BucketXP(events []Event, freq string) []TimeBucket {
	bucketOf := func(d util.Date) util.Date {
		switch freq {
		case "day":
			return d
		case "month":
			return util.MonthStart(d)
		default:
			return util.WeekStart(d)
		}
	}

	sums := make(map[string]*TimeBucket)
	var order []string
	for _, e := range events {
		b := bucketOf(e.Date)
		key := b.String()
		if _, ok := sums[key]; !ok {
			sums[key] = &TimeBucket{Date: b}
			order = append(order, key)
		}
		sums[key].XP += e.XP
	}

	buckets := make([]TimeBucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, *sums[key])
	}
	// Events arrive date-ordered from the repository, so the insertion
	// order is already chronological.
	return buckets
}

func (s *service) Badges(ctx context.Context) ([]Badge, error) {
	events, err := s.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	return ComputeBadges(events, util.DateOf(s.now())), nil
}
