package goal

import (
	"encoding/json"
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

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidTarget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	progress, err := h.service.Progress(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to compute goal progress")
		writeServiceError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, progress)
}

func (h *Handler) SetTargets(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var targets []TargetDTO
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetTargets(r.Context(), targets); err != nil {
		log.WithError(err).Error("Failed to set goal targets")
		writeServiceError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, config.Message{Message: "targets updated"})
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	report, err := h.service.ComplianceSweep(r.Context())
	if err != nil {
		log.WithError(err).Error("Compliance sweep failed")
		writeServiceError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, report)
}
