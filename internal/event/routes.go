package event

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Record)
	r.Get("/", h.List)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Get("/aggregate/areas", h.AggregateByArea)
	r.Get("/aggregate/series", h.Series)
	r.Get("/badges", h.Badges)
	r.Get("/export.csv", h.Export)
	r.Post("/import", h.Import)

	return r
}
