package userconfig

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	util "lifehud/internal/utils"
)

// Repository reads and writes per-user settings. Getters never fail on a
// missing or malformed value; they return the documented default instead.
type Repository interface {
	Get(username, key string) (string, bool, error)
	GetString(username, key, fallback string) string
	GetInt(username, key string, fallback int) int
	GetBool(username, key string, fallback bool) bool
	GetDate(username, key string) (util.Date, bool)
	Set(username, key, value string) error
	SetInt(username, key string, value int) error
	SetBool(username, key string, value bool) error
	SetDate(username, key string, value util.Date) error
	DeleteAll(username string) error
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

func (r *repository) Get(username, key string) (string, bool, error) {
	var entry Entry
	err := r.db.Where("username = ? AND key = ?", username, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *repository) GetString(username, key, fallback string) string {
	v, ok, err := r.Get(username, key)
	if err != nil || !ok {
		return fallback
	}
	return v
}

func (r *repository) GetInt(username, key string, fallback int) int {
	v, ok, err := r.Get(username, key)
	if err != nil || !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func (r *repository) GetBool(username, key string, fallback bool) bool {
	v, ok, err := r.Get(username, key)
	if err != nil || !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func (r *repository) GetDate(username, key string) (util.Date, bool) {
	v, ok, err := r.Get(username, key)
	if err != nil || !ok {
		return util.Date{}, false
	}
	d, err := util.ParseDate(v)
	if err != nil {
		return util.Date{}, false
	}
	return d, true
}

func (r *repository) Set(username, key, value string) error {
	entry := Entry{Username: username, Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

func (r *repository) SetInt(username, key string, value int) error {
	return r.Set(username, key, strconv.Itoa(value))
}

func (r *repository) SetBool(username, key string, value bool) error {
	return r.Set(username, key, strconv.FormatBool(value))
}

func (r *repository) SetDate(username, key string, value util.Date) error {
	return r.Set(username, key, value.String())
}

func (r *repository) DeleteAll(username string) error {
	return r.db.Where("username = ?", username).Delete(&Entry{}).Error
}
