package usecase

import (
	"context"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/policy"
	"hospital-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotRepo        repository.ScheduleSlotRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotRepo repository.ScheduleSlotRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		transactor:      transactor,
		log:             log,
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		auditService:    auditService,
	}
}

// CreateAppointment books a slot for the calling patient.
//
// Flow:
// 1. Load the slot and check it belongs to the requested doctor and is free
// 2. In one transaction: claim the slot with a conditional update, insert the
//    appointment, write the audit entry
// 3. Reload the appointment with patient, doctor and slot for the response
//
// The pre-checks give precise errors for the common case; the conditional
// update and the unique slot_id index decide races between concurrent
// bookers.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !policy.Can(actor, policy.ActionBookAppointment) {
		return nil, ErrForbidden
	}

	db := u.transactor.Conn(ctx)
	slot, err := u.slotRepo.FindByID(db, req.SlotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %d: %+v", req.SlotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.DoctorID != req.DoctorID {
		return nil, ErrSlotDoctorMismatch
	}
	if slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}

	appointment := &entity.Appointment{
		PatientID: actor.ID(),
		DoctorID:  slot.DoctorID,
		SlotID:    slot.ID,
		Status:    entity.AppointmentStatusPending,
		Notes:     req.Notes,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		claimed, err := u.slotRepo.MarkBooked(tx, slot.ID)
		if err != nil {
			return err
		}
		if claimed == 0 {
			return ErrSlotAlreadyBooked
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			if isDuplicateKeyError(err, "slot_id") {
				return ErrSlotAlreadyBooked
			}
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor.ID(), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
			"doctor_id": appointment.DoctorID,
			"slot_id":   appointment.SlotID,
			"status":    appointment.Status,
		})
	})
	if err != nil {
		if !isAppError(err) {
			u.log.Warnf("Failed to book slot %d: %+v", slot.ID, err)
		}
		return nil, err
	}

	u.log.Infof("Slot %d booked by patient %s as appointment %s", slot.ID, actor.ID(), appointment.ID)

	return u.reload(ctx, appointment.ID)
}

// UpdateAppointment overwrites status and/or notes. Any allowed status may
// replace any other. An empty status is treated as absent.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	hasStatus := req.Status != nil && *req.Status != ""
	if hasStatus && !entity.AppointmentStatus(*req.Status).IsValid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !policy.CanModifyAppointment(actor, appointment) {
		return nil, ErrForbidden
	}

	if !hasStatus && req.Notes == nil {
		return nil, ErrNoFieldsToUpdate
	}

	oldValue := map[string]interface{}{"status": appointment.Status, "notes": appointment.Notes}
	if hasStatus {
		appointment.Status = entity.AppointmentStatus(*req.Status)
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	newValue := map[string]interface{}{"status": appointment.Status, "notes": appointment.Notes}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Update(tx, appointment); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actor.ID(), entity.AuditActionAppointmentUpdate, "appointment", appointment.ID.String(), oldValue, newValue)
	})
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.log.Infof("Appointment %s updated by %s %s", appointmentID, actor.Role(), actor.ID())

	return u.reload(ctx, appointmentID)
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	filter, ok := policy.AppointmentScope(actor)
	if !ok {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s %s: %+v", actor.Role(), actor.ID(), err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAppointment returns NotFound both for missing appointments and for
// appointments the actor may not see.
func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil || !policy.CanViewAppointment(actor, appointment) {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) reload(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}
