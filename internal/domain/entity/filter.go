package entity

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Domain-level filters used by the repository layer to avoid coupling with
// delivery DTOs. Nil fields are not applied.

type SlotFilter struct {
	Date         *datatypes.Date // exact date
	FromDate     *datatypes.Date // date >= FromDate
	OnlyUnbooked bool
}

type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

type RecordFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

type DoctorFilter struct {
	Specialty string // ILIKE substring
	Location  string // ILIKE substring
}
