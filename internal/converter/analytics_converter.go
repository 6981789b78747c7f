package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

func AnalyticsToResponse(counts []entity.DoctorAppointmentCount, patientCount int64) *dto.AnalyticsResponse {
	byDoctor := make([]dto.DoctorAppointmentCountResponse, len(counts))
	for i, c := range counts {
		byDoctor[i] = dto.DoctorAppointmentCountResponse{
			DoctorID:         c.DoctorID,
			DoctorName:       c.DoctorName,
			AppointmentCount: c.AppointmentCount,
		}
	}

	return &dto.AnalyticsResponse{
		AppointmentsByDoctor: byDoctor,
		PatientCount:         patientCount,
	}
}
