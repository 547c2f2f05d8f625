package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceStub struct {
	confirmation *Confirmation
	err          error
	received     *Request
}

func (s *serviceStub) Book(_ context.Context, request Request) (*Confirmation, error) {
	s.received = &request
	if s.err != nil {
		return nil, s.err
	}
	return s.confirmation, nil
}

func postBooking(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/booking", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)
	return w
}

func TestCreateBooking_Success(t *testing.T) {
	stub := &serviceStub{confirmation: &Confirmation{
		EventId: "evt-1",
		Start:   slotStart,
		End:     slotStart.Add(slotDuration),
	}}
	handler := NewHandler(stub)

	w := postBooking(t, handler, RequestDTO{
		Timeslot: slotStart.Format(time.RFC3339),
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "555-0100",
		Note:     "first consultation",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var dto ConfirmationDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "Timeslot booked successfully", dto.Message)
	assert.Equal(t, "2026-03-02T10:00:00Z", dto.Start)
	assert.Equal(t, "2026-03-02T10:30:00Z", dto.End)

	require.NotNil(t, stub.received)
	assert.Equal(t, "Alice", stub.received.Name)
	assert.Equal(t, "first consultation", stub.received.Note)
}

func TestCreateBooking_MalformedBody(t *testing.T) {
	handler := NewHandler(&serviceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/booking", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input maps to 400", ErrInvalidInput, http.StatusBadRequest},
		{"slot unavailable maps to 409", ErrSlotUnavailable, http.StatusConflict},
		{"provider failure maps to 502", &ProviderError{Op: "busy lookup", Err: errors.New("boom")}, http.StatusBadGateway},
		{"unexpected failure maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler(&serviceStub{err: tc.err})

			w := postBooking(t, handler, RequestDTO{Timeslot: slotStart.Format(time.RFC3339), Name: "Alice", Email: "a@b.c"})
			assert.Equal(t, tc.wantStatus, w.Code)

			var response struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestCreateBooking_SlotUnavailableSuggestsRetry(t *testing.T) {
	handler := NewHandler(&serviceStub{err: ErrSlotUnavailable})

	w := postBooking(t, handler, RequestDTO{Timeslot: slotStart.Format(time.RFC3339), Name: "Alice", Email: "a@b.c"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "please pick another time")
}
