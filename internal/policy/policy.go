// Package policy decides what an authenticated actor may do. Every function
// switches exhaustively over the actor variants and denies anything it does
// not recognise.
package policy

import (
	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

type Action int

const (
	ActionBookAppointment Action = iota + 1
	ActionViewAppointments
	ActionUpdateAppointment
	ActionWriteRecord
	ActionViewRecords
	ActionManageSchedule
	ActionManageDoctors
	ActionViewAnalytics
	ActionViewAuditLog
)

// Can reports whether the actor's role may attempt the action at all.
// Ownership checks happen in the resource-specific functions below.
func Can(actor entity.Actor, action Action) bool {
	switch actor.(type) {
	case entity.PatientActor:
		switch action {
		case ActionBookAppointment, ActionViewAppointments, ActionViewRecords:
			return true
		}
	case entity.DoctorActor:
		switch action {
		case ActionViewAppointments, ActionUpdateAppointment, ActionWriteRecord, ActionViewRecords, ActionManageSchedule:
			return true
		}
	case entity.AdminActor:
		switch action {
		case ActionViewAppointments, ActionUpdateAppointment, ActionViewRecords, ActionManageSchedule,
			ActionManageDoctors, ActionViewAnalytics, ActionViewAuditLog:
			return true
		}
	}
	return false
}

// AppointmentScope returns the filter limiting appointment listings to what
// the actor may see. ok is false for unknown actors.
func AppointmentScope(actor entity.Actor) (filter entity.AppointmentFilter, ok bool) {
	switch a := actor.(type) {
	case entity.PatientActor:
		id := a.UserID
		return entity.AppointmentFilter{PatientID: &id}, true
	case entity.DoctorActor:
		id := a.DoctorID
		return entity.AppointmentFilter{DoctorID: &id}, true
	case entity.AdminActor:
		return entity.AppointmentFilter{}, true
	}
	return entity.AppointmentFilter{}, false
}

// RecordScope returns the filter for medical record listings. A patient
// always sees only their own records and the patient filter is ignored.
func RecordScope(actor entity.Actor, patientID *uuid.UUID) (filter entity.RecordFilter, ok bool) {
	switch a := actor.(type) {
	case entity.PatientActor:
		id := a.UserID
		return entity.RecordFilter{PatientID: &id}, true
	case entity.DoctorActor:
		id := a.DoctorID
		return entity.RecordFilter{DoctorID: &id, PatientID: patientID}, true
	case entity.AdminActor:
		return entity.RecordFilter{PatientID: patientID}, true
	}
	return entity.RecordFilter{}, false
}

func CanViewAppointment(actor entity.Actor, appointment *entity.Appointment) bool {
	switch a := actor.(type) {
	case entity.PatientActor:
		return appointment.PatientID == a.UserID
	case entity.DoctorActor:
		return appointment.DoctorID == a.DoctorID
	case entity.AdminActor:
		return true
	}
	return false
}

// CanModifyAppointment covers status and notes changes. Patients never may.
func CanModifyAppointment(actor entity.Actor, appointment *entity.Appointment) bool {
	switch a := actor.(type) {
	case entity.DoctorActor:
		return appointment.DoctorID == a.DoctorID
	case entity.AdminActor:
		return true
	}
	return false
}

func CanManageSchedule(actor entity.Actor, doctorID uuid.UUID) bool {
	switch a := actor.(type) {
	case entity.DoctorActor:
		return a.DoctorID == doctorID
	case entity.AdminActor:
		return true
	}
	return false
}

// CanWriteRecord allows only the doctor the appointment was booked with.
func CanWriteRecord(actor entity.Actor, appointment *entity.Appointment) bool {
	if a, ok := actor.(entity.DoctorActor); ok {
		return appointment.DoctorID == a.DoctorID
	}
	return false
}
