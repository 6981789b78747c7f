package repository

import (
	"hospital-appointment/internal/domain/entity"

	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	AppointmentCountsByDoctor(db *gorm.DB) ([]entity.DoctorAppointmentCount, error)
	CountUsersByRole(db *gorm.DB, role entity.Role) (int64, error)
}
