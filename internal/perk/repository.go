package perk

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifehud/internal/scope"
)

type Repository interface {
	Create(p *Perk) error
	Update(p *Perk) error
	FindByID(id uuid.UUID) (*Perk, error)
	FindByNameAreaScope(name, area string, sc scope.Scope) (*Perk, error)
	// ListVisible returns global perks plus the user's own, unshadowed.
	// Shadowing is resolved in memory by VisibleTo.
	ListVisible(username string) ([]Perk, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(p *Perk) error {
	return r.db.Create(p).Error
}

func (r *repository) Update(p *Perk) error {
	return r.db.Save(p).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Perk, error) {
	var p Perk
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByNameAreaScope(name, area string, sc scope.Scope) (*Perk, error) {
	q := r.db.Where("name = ? AND area = ?", name, area)
	if owner, ok := sc.Owner(); ok {
		q = q.Where("owner = ?", owner)
	} else {
		q = q.Where("owner IS NULL")
	}

	var p Perk
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListVisible(username string) ([]Perk, error) {
	var perks []Perk
	if err := r.db.
		Where("owner = ? OR owner IS NULL", username).
		Order("name ASC").
		Find(&perks).Error; err != nil {
		return nil, err
	}
	return perks, nil
}
