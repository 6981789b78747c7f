package dto

import "github.com/google/uuid"

type DoctorAppointmentCountResponse struct {
	DoctorID         uuid.UUID `json:"doctor_id"`
	DoctorName       string    `json:"doctor_name"`
	AppointmentCount int64     `json:"appointment_count"`
}

type AnalyticsResponse struct {
	AppointmentsByDoctor []DoctorAppointmentCountResponse `json:"appointments_by_doctor"`
	PatientCount         int64                            `json:"patient_count"`
}
