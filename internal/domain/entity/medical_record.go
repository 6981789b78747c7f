package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is the clinical note attached to at most one appointment
type MedicalRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Diagnosis     string    `gorm:"type:text" json:"diagnosis"`
	Prescription  string    `gorm:"type:text" json:"prescription"`
	Attachments   string    `gorm:"type:text" json:"attachments"`
	CreatedAt     time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
