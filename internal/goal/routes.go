package goal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/progress", h.Progress)
	r.Put("/targets", h.SetTargets)
	r.Post("/sweep", h.Sweep)

	return r
}
