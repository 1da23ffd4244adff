package quest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/complete", h.Complete)
	r.Post("/{id}/disable", h.Disable)

	return r
}
