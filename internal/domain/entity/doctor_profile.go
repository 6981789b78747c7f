package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorProfile extends a doctor User with directory data
type DoctorProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialty      string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Location       string    `gorm:"type:varchar(255);not null" json:"location"`
	Bio            string    `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture string    `gorm:"type:text" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User  User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slots []ScheduleSlot `gorm:"foreignKey:DoctorID" json:"slots,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
