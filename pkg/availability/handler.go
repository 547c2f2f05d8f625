package availability

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type AvailabilityDTO struct {
	Timeslots       []string `json:"timeslots"`
	DurationMinutes int      `json:"durationMinutes"`
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	result, err := h.service.Availability(r.Context())
	if err != nil {
		log.Errorf("failed to compute availability: %v", err)
		http.Error(w, "failed to compute availability", http.StatusBadGateway)
		return
	}

	dto := AvailabilityDTO{
		Timeslots:       make([]string, 0, len(result.Timeslots)),
		DurationMinutes: result.DurationMinutes,
	}
	for _, slot := range result.Timeslots {
		dto.Timeslots = append(dto.Timeslots, slot.UTC().Format(time.RFC3339))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
