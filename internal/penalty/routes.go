package penalty

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateRule)
	r.Get("/", h.ListRules)
	r.Delete("/{id}", h.DeleteRule)
	r.Post("/{id}/apply", h.Apply)
	r.Get("/applications", h.ListApplications)

	return r
}
