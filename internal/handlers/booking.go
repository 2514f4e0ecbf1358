package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

type BookingHandler struct {
	bookingService      services.BookingService
	confirmationService services.ConfirmationService
	logger              *zap.Logger
}

func NewBookingHandler(bookingService services.BookingService, confirmationService services.ConfirmationService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		confirmationService: confirmationService,
		logger:              logger,
	}
}

// HandleCreate handles POST /api/bookings
// @Summary Create a booking
// @Description Create a booking in draft or pending for the calling instructor
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Instructor-ID header string true "Instructor id"
// @Param booking body models.BookingFields true "Booking fields"
// @Success 201 {object} models.Booking
// @Failure 400 {object} ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	instructorID, err := requireHeader(r, HeaderInstructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var fields models.BookingFields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, h.logger, err)
		return
	}
	b, err := h.bookingService.Create(r.Context(), instructorID, &fields, models.ActorHuman, instructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// HandleGet handles GET /api/bookings/{id}
// @Summary Get a booking
// @Description Get a booking owned by the calling instructor; stale pending bookings are declined first
// @Tags bookings
// @Produce json
// @Param id path string true "Booking id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} models.Booking
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// TransitionRequest is the body of a booking state change
type TransitionRequest struct {
	State  models.BookingState `json:"state"`
	Reason *string             `json:"reason,omitempty"`
}

// HandleTransition handles POST /api/bookings/{id}/transition
// @Summary Change booking state
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Param transition body TransitionRequest true "Requested state"
// @Success 200 {object} models.Booking
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /bookings/{id}/transition [post]
func (h *BookingHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	b, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req TransitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	actorID := optionalHeader(r, HeaderActorID)
	if actorID == nil {
		actorID = &b.InstructorID
	}
	updated, err := h.bookingService.Transition(r.Context(), b.ID, models.BookingState(strings.ToLower(string(req.State))), models.ActorHuman, actorID, req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleLifecycle handles GET /api/bookings/{id}/lifecycle
// @Summary Booking lifecycle
// @Description Ordered history of a booking: creation, transitions and manual overrides
// @Tags bookings
// @Produce json
// @Param id path string true "Booking id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {array} models.LifecycleEvent
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{id}/lifecycle [get]
func (h *BookingHandler) HandleLifecycle(w http.ResponseWriter, r *http.Request) {
	b, ok := h.owned(w, r)
	if !ok {
		return
	}
	events, err := h.bookingService.Lifecycle(r.Context(), b.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ConfirmRequest is a human-confirmed booking suggestion
type ConfirmRequest struct {
	RequestID string               `json:"request_id"`
	Booking   models.BookingFields `json:"booking"`
}

// HandleConfirm handles POST /api/bookings/confirmations
// @Summary Confirm a suggested booking
// @Description Creates the booking once per request_id; retries return the same booking id
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Instructor-ID header string true "Instructor id"
// @Param confirmation body ConfirmRequest true "Confirmation"
// @Success 201 {object} services.Confirmation "Created"
// @Success 200 {object} services.Confirmation "Replayed"
// @Failure 400 {object} ErrorResponse
// @Router /bookings/confirmations [post]
func (h *BookingHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	instructorID, err := requireHeader(r, HeaderInstructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	c, err := h.confirmationService.Confirm(r.Context(), instructorID, req.RequestID, &req.Booking)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	status := http.StatusCreated
	if c.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, c)
}

// owned loads the path booking through expiry and checks it belongs to the caller.
func (h *BookingHandler) owned(w http.ResponseWriter, r *http.Request) (*models.Booking, bool) {
	instructorID, err := requireHeader(r, HeaderInstructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return nil, false
	}
	b, err := h.bookingService.GetOwned(r.Context(), mux.Vars(r)["id"], instructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return nil, false
	}
	return b, true
}
