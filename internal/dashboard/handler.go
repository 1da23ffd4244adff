package dashboard

import (
	"errors"
	"net/http"

	"lifehud/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.WithError(err).Error("Failed to build dashboard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, snap)
}
