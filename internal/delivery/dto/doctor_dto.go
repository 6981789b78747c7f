package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Specialty      string `json:"specialty" validate:"required,max=100"`
	Location       string `json:"location" validate:"required,max=255"`
	Bio            string `json:"bio" validate:"omitempty"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty"`
}

// UpdateDoctorRequest changes only the fields that are present. Specialty
// and location are ignored when empty.
type UpdateDoctorRequest struct {
	Specialty      *string `json:"specialty" validate:"omitempty,max=100"`
	Location       *string `json:"location" validate:"omitempty,max=255"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

type SearchDoctorsRequest struct {
	Specialty string
	Location  string
	Date      string // optional, YYYY-MM-DD
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Specialty      string         `json:"specialty"`
	Location       string         `json:"location"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	AvailableSlots []SlotResponse `json:"available_slots,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
