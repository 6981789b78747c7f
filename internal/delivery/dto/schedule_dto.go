package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SlotInput struct {
	Date string `json:"date" validate:"required,slot_date"` // Format: YYYY-MM-DD
	Time string `json:"time" validate:"required,slot_time"` // Format: HH:MM
}

// AddSlotsRequest is the body of POST /doctors/{id}/schedule. The body may be
// a single slot object or an array of them.
type AddSlotsRequest struct {
	Slots []SlotInput `validate:"required,min=1,dive"`
}

func (r *AddSlotsRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Slots)
	}

	var single SlotInput
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	r.Slots = []SlotInput{single}
	return nil
}

type ListSlotsRequest struct {
	DoctorID     uuid.UUID
	Date         string // optional, YYYY-MM-DD
	OnlyUnbooked bool
}

// Response DTOs

type SlotResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
