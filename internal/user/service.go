package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/event"
	"lifehud/internal/meta"
	"lifehud/internal/penalty"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

const sessionDuration = 24 * time.Hour

type Service interface {
	Login(ctx context.Context, username, password string) (string, *User, error)
	Me(ctx context.Context) (*User, error)
	WipeData(ctx context.Context) error
}

type service struct {
	db   *gorm.DB
	repo UserRepository
}

func NewService(db *gorm.DB, repo UserRepository) Service {
	return &service{db: db, repo: repo}
}

// HashPassword hashes a password the same way the stored seeds were hashed.
func HashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

func (s *service) Login(ctx context.Context, username, password string) (string, *User, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByUsername(username)
	if err != nil {
		log.WithError(err).Error("Failed to look up user")
		return "", nil, err
	}
	if u == nil || u.PasswordHash != HashPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.Username, u.Role, sessionDuration)
	if err != nil {
		log.WithError(err).Error("Failed to issue session token")
		return "", nil, err
	}

	log.WithField("username", u.Username).Info("User logged in")
	return token, u, nil
}

func (s *service) Me(ctx context.Context) (*User, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindByUsername(claims.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// WipeData removes every row the user owns: events, quests, user-owned perks,
// metas, penalty rules and applications, and settings. Global rows are left
// alone. The whole wipe is one transaction.
func (s *service) WipeData(ctx context.Context) error {
	log := config.WithContext(ctx)
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	username := claims.Username

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, del := range []error{
			tx.Where("username = ?", username).Delete(&event.Event{}).Error,
			tx.Where("owner = ?", username).Delete(&quest.Quest{}).Error,
			tx.Where("owner = ?", username).Delete(&perk.Perk{}).Error,
			tx.Where("owner = ?", username).Delete(&meta.Meta{}).Error,
			tx.Where("owner = ?", username).Delete(&penalty.Rule{}).Error,
			tx.Where("username = ?", username).Delete(&penalty.Application{}).Error,
			tx.Where("username = ?", username).Delete(&userconfig.Entry{}).Error,
		} {
			if del != nil {
				return del
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to wipe user data")
		return err
	}

	log.WithField("username", username).Info("User data wiped")
	return nil
}

// SeedDefaults inserts the default users when they are missing. Existing rows
// are never touched.
func SeedDefaults(db *gorm.DB, repo UserRepository) error {
	defaults := []User{
		{
			Username:    "marcel.pimenta",
			DisplayName: "Marcel Pimenta",
			Role:        "user",
			Profession:  "Geocientista, estudando Ciência de Dados",
		},
		{
			Username:    "larissa.souza",
			DisplayName: "Larissa Souza",
			Role:        "user",
			Profession:  "Veterinária, Mestra em Ciências Veterinárias",
		},
	}

	for _, d := range defaults {
		existing, err := repo.FindByUsername(d.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		d.ID = uuid.New()
		d.PasswordHash = HashPassword("changeme")
		if err := repo.Create(&d); err != nil {
			return err
		}
	}
	return nil
}
