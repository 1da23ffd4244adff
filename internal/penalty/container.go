package penalty

import (
	"gorm.io/gorm"

	"lifehud/internal/event"
	"lifehud/internal/userconfig"
)

type Container struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewContainer(db *gorm.DB, cfg userconfig.Repository, events event.Service) *Container {
	repo := NewRepository(db)
	service := NewService(db, repo, cfg, events)
	handler := NewHandler(service)

	return &Container{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
