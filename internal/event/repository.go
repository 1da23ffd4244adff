package event

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	util "lifehud/internal/utils"
)

type Repository interface {
	Create(e *Event) error
	Update(e *Event) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*Event, error)
	ListByUser(username string, f Filter) ([]Event, error)
	SumByArea(username string, f Filter) ([]AreaXP, error)
	SumForMeta(username string, metaID uuid.UUID, from, to util.Date) (int, error)

	// TotalXP and XPByArea satisfy the perk resolver's XPSource.
	TotalXP(ctx context.Context, username string) (int, error)
	XPByArea(ctx context.Context, username string) (map[string]int, error)

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(e *Event) error {
	return r.db.Create(e).Error
}

func (r *repository) Update(e *Event) error {
	return r.db.Save(e).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Event{}, "id = ?", id).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Event, error) {
	var e Event
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.From != nil {
		q = q.Where("date >= ?", f.From.Time)
	}
	if f.To != nil {
		q = q.Where("date <= ?", f.To.Time)
	}
	if f.Area != "" {
		q = q.Where("area = ?", f.Area)
	}
	if f.MetaID != nil {
		q = q.Where("meta_id = ?", *f.MetaID)
	}
	return q
}

func (r *repository) ListByUser(username string, f Filter) ([]Event, error) {
	var events []Event
	q := applyFilter(r.db.Where("username = ?", username), f)
	if err := q.Order("date ASC, created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SumByArea(username string, f Filter) ([]AreaXP, error) {
	var rows []AreaXP
	q := applyFilter(r.db.Model(&Event{}).Where("username = ?", username), f)
	if err := q.
		Select("area, COALESCE(SUM(xp), 0) AS xp").
		Group("area").
		Order("area ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SumForMeta(username string, metaID uuid.UUID, from, to util.Date) (int, error) {
	var total int
	err := r.db.Model(&Event{}).
		Where("username = ? AND meta_id = ?", username, metaID).
		Where("date >= ? AND date <= ?", from.Time, to.Time).
		Select("COALESCE(SUM(xp), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) TotalXP(ctx context.Context, username string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&Event{}).
		Where("username = ?", username).
		Select("COALESCE(SUM(xp), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) XPByArea(ctx context.Context, username string) (map[string]int, error) {
	rows, err := r.WithTx(r.db.WithContext(ctx)).SumByArea(username, Filter{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Area] = row.XP
	}
	return out, nil
}
