package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpsertMedicalRecordRequest struct {
	AppointmentID uuid.UUID `json:"appointmentId" validate:"required"`
	Diagnosis     string    `json:"diagnosis" validate:"omitempty,max=10000"`
	Prescription  string    `json:"prescription" validate:"omitempty,max=10000"`
	Attachments   string    `json:"attachments" validate:"omitempty,max=10000"`
}

// UnmarshalJSON also accepts appointment_id.
func (r *UpsertMedicalRecordRequest) UnmarshalJSON(data []byte) error {
	type plain UpsertMedicalRecordRequest
	var body struct {
		plain
		SnakeAppointmentID *uuid.UUID `json:"appointment_id"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	*r = UpsertMedicalRecordRequest(body.plain)
	if r.AppointmentID == uuid.Nil && body.SnakeAppointmentID != nil {
		r.AppointmentID = *body.SnakeAppointmentID
	}
	return nil
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	Diagnosis     string    `json:"diagnosis"`
	Prescription  string    `json:"prescription"`
	Attachments   string    `json:"attachments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}
