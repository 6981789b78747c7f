package repository

import (
	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository interface {
	// Upsert inserts record, or overwrites diagnosis, prescription and
	// attachments of the row already linked to record.AppointmentID.
	Upsert(db *gorm.DB, record *entity.MedicalRecord) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.MedicalRecord, error)
	FindAll(db *gorm.DB, filter entity.RecordFilter) ([]entity.MedicalRecord, error)
}
