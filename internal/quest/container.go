package quest

import (
	"gorm.io/gorm"

	"lifehud/internal/event"
	"lifehud/internal/penalty"
	"lifehud/internal/userconfig"
)

type Container struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewContainer(db *gorm.DB, cfg userconfig.Repository, events event.Service, penalties penalty.Repository) *Container {
	repo := NewRepository(db)
	service := NewService(db, repo, cfg, events, penalties)
	handler := NewHandler(service)

	return &Container{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
