package meta

import (
	"gorm.io/gorm"

	"lifehud/internal/event"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
)

type Container struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewContainer(db *gorm.DB, quests quest.Repository, events event.Repository, cfg userconfig.Repository) *Container {
	repo := NewRepository(db)
	service := NewService(db, repo, quests, events, cfg)
	handler := NewHandler(service)

	return &Container{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
