package goal

import (
	"gorm.io/gorm"

	"lifehud/internal/event"
	"lifehud/internal/penalty"
	"lifehud/internal/userconfig"
)

type Container struct {
	Service Service
	Handler *Handler
}

func NewContainer(db *gorm.DB, events event.Repository, cfg userconfig.Repository, grants event.Service, penalties penalty.Repository) *Container {
	service := NewService(db, events, cfg, grants, penalties)
	handler := NewHandler(service)

	return &Container{
		Service: service,
		Handler: handler,
	}
}
