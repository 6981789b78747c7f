package repository

import (
	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"gorm.io/gorm"
)

type analyticsRepository struct{}

func NewAnalyticsRepository() domainRepo.AnalyticsRepository {
	return &analyticsRepository{}
}

// AppointmentCountsByDoctor left-joins appointments so doctors without any
// appointment are reported with a zero count.
func (r *analyticsRepository) AppointmentCountsByDoctor(db *gorm.DB) ([]entity.DoctorAppointmentCount, error) {
	var rows []entity.DoctorAppointmentCount
	err := db.Table("doctor_profiles").
		Select("doctor_profiles.id AS doctor_id, users.name AS doctor_name, COUNT(appointments.id) AS appointment_count").
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Joins("LEFT JOIN appointments ON appointments.doctor_id = doctor_profiles.id").
		Group("doctor_profiles.id, users.name").
		Order("appointment_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) CountUsersByRole(db *gorm.DB, role entity.Role) (int64, error) {
	var count int64
	err := db.Model(&entity.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
