package main

import (
	"net/http"

	"lifehud/internal/config"
	"lifehud/internal/container"
	"lifehud/internal/router"
)

func main() {
	c := container.New()

	r := router.New(router.RouterConfig{
		UserHandler:      c.UserContainer.Handler,
		EventHandler:     c.EventContainer.Handler,
		QuestHandler:     c.QuestContainer.Handler,
		PerkHandler:      c.PerkContainer.Handler,
		MetaHandler:      c.MetaContainer.Handler,
		GoalHandler:      c.GoalContainer.Handler,
		PenaltyHandler:   c.PenaltyContainer.Handler,
		DashboardHandler: c.DashboardContainer.Handler,
	})

	log := config.Logger()
	log.WithField("addr", c.Config.Addr).Info("Starting server")
	if err := http.ListenAndServe(c.Config.Addr, r); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
