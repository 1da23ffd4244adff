package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lifehud/internal/auth"
	"lifehud/internal/dashboard"
	"lifehud/internal/event"
	"lifehud/internal/goal"
	"lifehud/internal/meta"
	"lifehud/internal/middlewares"
	"lifehud/internal/penalty"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/user"
)

type RouterConfig struct {
	UserHandler      *user.Handler
	EventHandler     *event.Handler
	QuestHandler     *quest.Handler
	PerkHandler      *perk.Handler
	MetaHandler      *meta.Handler
	GoalHandler      *goal.Handler
	PenaltyHandler   *penalty.Handler
	DashboardHandler *dashboard.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/events", event.Routes(cfg.EventHandler))
		r.Mount("/quests", quest.Routes(cfg.QuestHandler))
		r.Mount("/perks", perk.Routes(cfg.PerkHandler))
		r.Mount("/metas", meta.Routes(cfg.MetaHandler))
		r.Mount("/goals", goal.Routes(cfg.GoalHandler))
		r.Mount("/penalties", penalty.Routes(cfg.PenaltyHandler))
		r.Mount("/dashboard", dashboard.Routes(cfg.DashboardHandler))
	})

	return r
}
