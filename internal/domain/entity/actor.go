package entity

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidActor = errors.New("invalid actor identity")

// Actor is the authenticated caller. It is sealed: the only implementations
// are PatientActor, DoctorActor and AdminActor.
type Actor interface {
	ID() uuid.UUID
	Role() Role
	sealed()
}

type PatientActor struct {
	UserID uuid.UUID
}

func (a PatientActor) ID() uuid.UUID { return a.UserID }
func (a PatientActor) Role() Role    { return RolePatient }
func (PatientActor) sealed()         {}

// DoctorActor carries the doctor profile id next to the user id; schedules,
// appointments and records reference the profile id.
type DoctorActor struct {
	UserID   uuid.UUID
	DoctorID uuid.UUID
}

func (a DoctorActor) ID() uuid.UUID { return a.UserID }
func (a DoctorActor) Role() Role    { return RoleDoctor }
func (DoctorActor) sealed()         {}

type AdminActor struct {
	UserID uuid.UUID
}

func (a AdminActor) ID() uuid.UUID { return a.UserID }
func (a AdminActor) Role() Role    { return RoleAdmin }
func (AdminActor) sealed()         {}

// NewActor builds the variant matching role. A doctor without a profile id
// is rejected.
func NewActor(userID uuid.UUID, role Role, doctorID *uuid.UUID) (Actor, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidActor
	}
	switch role {
	case RolePatient:
		return PatientActor{UserID: userID}, nil
	case RoleDoctor:
		if doctorID == nil || *doctorID == uuid.Nil {
			return nil, ErrInvalidActor
		}
		return DoctorActor{UserID: userID, DoctorID: *doctorID}, nil
	case RoleAdmin:
		return AdminActor{UserID: userID}, nil
	}
	return nil, ErrInvalidActor
}
