package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctorId" validate:"required"`
	SlotID   int       `json:"slotId" validate:"required,min=1"`
	Notes    string    `json:"notes" validate:"omitempty,max=2000"`
}

// UnmarshalJSON also accepts doctor_id and slot_id. The camelCase keys win
// when both are sent.
func (r *CreateAppointmentRequest) UnmarshalJSON(data []byte) error {
	type plain CreateAppointmentRequest
	var body struct {
		plain
		SnakeDoctorID *uuid.UUID `json:"doctor_id"`
		SnakeSlotID   *int       `json:"slot_id"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	*r = CreateAppointmentRequest(body.plain)
	if r.DoctorID == uuid.Nil && body.SnakeDoctorID != nil {
		r.DoctorID = *body.SnakeDoctorID
	}
	if r.SlotID == 0 && body.SnakeSlotID != nil {
		r.SlotID = *body.SnakeSlotID
	}
	return nil
}

// UpdateAppointmentRequest applies only the fields that are present. An
// empty status counts as absent; empty notes clear the notes.
type UpdateAppointmentRequest struct {
	Status *string `json:"status" validate:"omitempty,appointment_status"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	SlotID      int       `json:"slot_id"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	SlotDate    string    `json:"slot_date,omitempty"`
	SlotTime    string    `json:"slot_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
