package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lifehud/internal/config"
	util "lifehud/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, "event not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidArea):
		http.Error(w, "area is required", http.StatusBadRequest)
	default:
		return false
	}
	return true
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto RecordEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	e, err := h.service.Record(r.Context(), dto)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to record event")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusCreated, e)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	f, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := h.service.List(r.Context(), f)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to list events")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, events)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto UpdateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	e, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to update event")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to delete event")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AggregateByArea(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	f, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.service.AggregateByArea(r.Context(), f)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to aggregate by area")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, rows)
}

func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	freq := r.URL.Query().Get("freq")
	if freq == "" {
		freq = "week"
	}
	f, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	buckets, err := h.service.Series(r.Context(), freq, f)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to build series")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, buckets)
}

func (h *Handler) Badges(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	badges, err := h.service.Badges(r.Context())
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to compute badges")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, badges)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	events, err := h.service.List(r.Context(), Filter{})
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("Failed to load events for export")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="events_export.csv"`)
	if err := ExportCSV(w, events); err != nil {
		log.WithError(err).Error("Failed to write CSV export")
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	report, err := ImportCSV(r.Context(), h.service, r.Body)
	if err != nil {
		if !writeServiceError(w, err) {
			log.WithError(err).Error("CSV import failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, report)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var f Filter
	if from := r.URL.Query().Get("from"); from != "" {
		d, err := util.ParseDate(from)
		if err != nil {
			return f, fmt.Errorf("invalid from date")
		}
		f.From = &d
	}
	if to := r.URL.Query().Get("to"); to != "" {
		d, err := util.ParseDate(to)
		if err != nil {
			return f, fmt.Errorf("invalid to date")
		}
		f.To = &d
	}
	f.Area = r.URL.Query().Get("area")
	if metaID := r.URL.Query().Get("meta_id"); metaID != "" {
		id, err := uuid.Parse(metaID)
		if err != nil {
			return f, fmt.Errorf("invalid meta_id")
		}
		f.MetaID = &id
	}
	return f, nil
}
