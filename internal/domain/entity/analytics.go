package entity

import "github.com/google/uuid"

// DoctorAppointmentCount is one row of the per-doctor appointment rollup
type DoctorAppointmentCount struct {
	DoctorID         uuid.UUID `json:"doctor_id"`
	DoctorName       string    `json:"doctor_name"`
	AppointmentCount int64     `json:"appointment_count"`
}
