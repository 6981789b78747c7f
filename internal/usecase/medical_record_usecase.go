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

type MedicalRecordUsecase interface {
	UpsertRecord(ctx context.Context, actor entity.Actor, req *dto.UpsertMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	ListRecords(ctx context.Context, actor entity.Actor, patientID *uuid.UUID) (*dto.MedicalRecordListResponse, error)
}

type medicalRecordUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	recordRepo      repository.MedicalRecordRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewMedicalRecordUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		transactor:      transactor,
		log:             log,
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// UpsertRecord creates the record of an appointment or overwrites its
// diagnosis, prescription and attachments. There is at most one record per
// appointment; patient and doctor are taken from the appointment.
func (u *medicalRecordUsecase) UpsertRecord(ctx context.Context, actor entity.Actor, req *dto.UpsertMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	if !policy.Can(actor, policy.ActionWriteRecord) {
		return nil, ErrForbidden
	}

	db := u.transactor.Conn(ctx)
	appointment, err := u.appointmentRepo.FindByID(db, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !policy.CanWriteRecord(actor, appointment) {
		return nil, ErrForbidden
	}

	record := &entity.MedicalRecord{
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		AppointmentID: appointment.ID,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Attachments:   req.Attachments,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.recordRepo.Upsert(tx, record); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor.ID(), entity.AuditActionRecordUpsert, "medical_record", appointment.ID.String(), map[string]interface{}{
			"patient_id": record.PatientID,
			"doctor_id":  record.DoctorID,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to upsert medical record for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	stored, err := u.recordRepo.FindByAppointmentID(db, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to reload medical record for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrAppointmentNotFound
	}

	u.log.Infof("Medical record for appointment %s saved by doctor %s", appointment.ID, actor.ID())

	return converter.MedicalRecordToResponse(stored), nil
}

func (u *medicalRecordUsecase) ListRecords(ctx context.Context, actor entity.Actor, patientID *uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	filter, ok := policy.RecordScope(actor, patientID)
	if !ok {
		return nil, ErrForbidden
	}

	records, err := u.recordRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}
