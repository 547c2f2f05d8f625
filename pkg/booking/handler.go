package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slotbook/slotbook/internal/rest"
)

type Handler struct {
	service Service
}

type RequestDTO struct {
	Timeslot string `json:"timeslot"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Note     string `json:"note"`
}

type ConfirmationDTO struct {
	Message string `json:"message"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	confirmation, err := h.service.Book(r.Context(), Request{
		Timeslot: dto.Timeslot,
		Name:     dto.Name,
		Email:    dto.Email,
		Phone:    dto.Phone,
		Note:     dto.Note,
	})
	if err != nil {
		var providerErr *ProviderError
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, ErrSlotUnavailable):
			writeError(w, http.StatusConflict, err.Error(), "please pick another time")
		case errors.As(err, &providerErr):
			log.Errorf("booking failed: %v", err)
			writeError(w, http.StatusBadGateway, "calendar provider error", providerErr.Error())
		default:
			log.Errorf("booking failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to book timeslot", "")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ConfirmationDTO{
		Message: "Timeslot booked successfully",
		Start:   confirmation.Start.UTC().Format(time.RFC3339),
		End:     confirmation.End.UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
