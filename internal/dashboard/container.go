package dashboard

import (
	"lifehud/internal/event"
	"lifehud/internal/goal"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
)

type Container struct {
	Service Service
	Handler *Handler
}

func NewContainer(events event.Service, ledger event.Repository, quests quest.Service, perks perk.Service, goals goal.Service, cfg userconfig.Repository) *Container {
	service := NewService(events, ledger, quests, perks, goals, cfg)
	handler := NewHandler(service)

	return &Container{
		Service: service,
		Handler: handler,
	}
}
