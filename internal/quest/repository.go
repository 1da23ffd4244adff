package quest

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(q *Quest) error
	Update(q *Quest) error
	FindByID(id uuid.UUID) (*Quest, error)
	// ListVisible returns active global quests plus the user's own.
	ListVisible(username string) ([]Quest, error)
	// ListOwnedByCadence returns the user's active quests of one cadence.
	ListOwnedByCadence(username string, cadence Cadence) ([]Quest, error)
	// FindOwned looks up the user's active quest by title and area. Used to
	// locate the owned clone of a global quest.
	FindOwned(username, title, area string) (*Quest, error)
	FindByMeta(metaID uuid.UUID) (*Quest, error)
	DeleteByMeta(metaID uuid.UUID) error
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

func (r *repository) Create(q *Quest) error {
	return r.db.Create(q).Error
}

func (r *repository) Update(q *Quest) error {
	return r.db.Save(q).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Quest, error) {
	var q Quest
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) ListVisible(username string) ([]Quest, error) {
	var quests []Quest
	if err := r.db.
		Where("active = ? AND (owner = ? OR owner IS NULL)", true, username).
		Order("title ASC").
		Find(&quests).Error; err != nil {
		return nil, err
	}
	return quests, nil
}

func (r *repository) ListOwnedByCadence(username string, cadence Cadence) ([]Quest, error) {
	var quests []Quest
	if err := r.db.
		Where("active = ? AND owner = ? AND cadence = ?", true, username, cadence).
		Find(&quests).Error; err != nil {
		return nil, err
	}
	return quests, nil
}

func (r *repository) FindOwned(username, title, area string) (*Quest, error) {
	var q Quest
	err := r.db.
		Where("active = ? AND owner = ? AND title = ? AND area = ?", true, username, title, area).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindByMeta(metaID uuid.UUID) (*Quest, error) {
	var q Quest
	if err := r.db.First(&q, "meta_id = ?", metaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) DeleteByMeta(metaID uuid.UUID) error {
	return r.db.Delete(&Quest{}, "meta_id = ?", metaID).Error
}
