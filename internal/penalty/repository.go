package penalty

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateRule(r *Rule) error
	DeleteRule(id uuid.UUID) error
	FindRuleByID(id uuid.UUID) (*Rule, error)
	// ListRules returns global rules plus the user's own.
	ListRules(username string) ([]Rule, error)

	RecordApplication(a *Application) error
	ListApplications(username string) ([]Application, error)

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

func (r *repository) CreateRule(rule *Rule) error {
	return r.db.Create(rule).Error
}

func (r *repository) DeleteRule(id uuid.UUID) error {
	return r.db.Delete(&Rule{}, "id = ?", id).Error
}

func (r *repository) FindRuleByID(id uuid.UUID) (*Rule, error) {
	var rule Rule
	if err := r.db.First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(username string) ([]Rule, error) {
	var rules []Rule
	if err := r.db.
		Where("owner = ? OR owner IS NULL", username).
		Order("name ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) RecordApplication(a *Application) error {
	return r.db.Create(a).Error
}

func (r *repository) ListApplications(username string) ([]Application, error) {
	var apps []Application
	if err := r.db.
		Where("username = ?", username).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
