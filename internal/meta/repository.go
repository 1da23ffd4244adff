package meta

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(m *Meta) error
	Update(m *Meta) error
	FindByID(id uuid.UUID) (*Meta, error)
	ListOwned(username string) ([]Meta, error)
	Delete(id uuid.UUID) error
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

func (r *repository) Create(m *Meta) error {
	return r.db.Create(m).Error
}

func (r *repository) Update(m *Meta) error {
	return r.db.Save(m).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Meta, error) {
	var m Meta
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListOwned(username string) ([]Meta, error) {
	var metas []Meta
	if err := r.db.
		Where("active = ? AND owner = ?", true, username).
		Order("created_at DESC").
		Find(&metas).Error; err != nil {
		return nil, err
	}
	return metas, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Meta{}, "id = ?", id).Error
}
