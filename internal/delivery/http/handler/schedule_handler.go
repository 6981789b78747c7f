package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// AddSlots accepts a single {date, time} object or an array of them.
// Only newly inserted slots are returned.
func (h *ScheduleHandler) AddSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.AddSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.scheduleUsecase.AddSlots(r.Context(), actor, doctorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Slots added successfully", slots)
}

func (h *ScheduleHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	req := dto.ListSlotsRequest{
		DoctorID: doctorID,
		Date:     r.URL.Query().Get("date"),
	}
	if available := r.URL.Query().Get("available"); available != "" {
		onlyUnbooked, err := strconv.ParseBool(available)
		if err != nil {
			response.BadRequest(w, "available must be true or false")
			return
		}
		req.OnlyUnbooked = onlyUnbooked
	}

	slots, err := h.scheduleUsecase.ListSlots(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}
