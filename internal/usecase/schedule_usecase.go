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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScheduleUsecase interface {
	AddSlots(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.AddSlotsRequest) (*dto.SlotListResponse, error)
	ListSlots(ctx context.Context, actor entity.Actor, req *dto.ListSlotsRequest) (*dto.SlotListResponse, error)
	GetSlot(ctx context.Context, slotID int) (*dto.SlotResponse, error)
}

type scheduleUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	slotRepo     repository.ScheduleSlotRepository
	doctorRepo   repository.DoctorProfileRepository
	auditService service.AuditService
}

func NewScheduleUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	slotRepo repository.ScheduleSlotRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) ScheduleUsecase {
	return &scheduleUsecase{
		transactor:   transactor,
		log:          log,
		slotRepo:     slotRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

type slotKey struct {
	date datatypes.Date
	time datatypes.Time
}

// AddSlots inserts the requested slots for a doctor. Pairs that already exist
// are skipped, so only newly created slots are returned. All pairs are parsed
// before anything is written.
func (u *scheduleUsecase) AddSlots(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.AddSlotsRequest) (*dto.SlotListResponse, error) {
	if !policy.CanManageSchedule(actor, doctorID) {
		return nil, ErrForbidden
	}
	if req == nil || len(req.Slots) == 0 {
		return nil, ErrNoSlots
	}

	keys := make([]slotKey, 0, len(req.Slots))
	for _, in := range req.Slots {
		if in.Date == "" || in.Time == "" {
			return nil, ErrNoSlots
		}
		date, err := entity.ParseSlotDate(in.Date)
		if err != nil {
			return nil, ErrInvalidSlotDate
		}
		slotTime, err := entity.ParseSlotTime(in.Time)
		if err != nil {
			return nil, ErrInvalidSlotTime
		}
		keys = append(keys, slotKey{date: date, time: slotTime})
	}

	doctor, err := u.doctorRepo.FindByID(u.transactor.Conn(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	inserted := make([]entity.ScheduleSlot, 0, len(keys))
	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		for _, k := range keys {
			slot := &entity.ScheduleSlot{
				DoctorID: doctorID,
				SlotDate: k.date,
				SlotTime: k.time,
			}
			created, err := u.slotRepo.CreateIfAbsent(tx, slot)
			if err != nil {
				if isForeignKeyError(err, "doctor") {
					return ErrDoctorNotFound
				}
				return err
			}
			if created {
				inserted = append(inserted, *slot)
			}
		}

		if len(inserted) == 0 {
			return nil
		}
		ids := make([]int, len(inserted))
		for i, s := range inserted {
			ids[i] = s.ID
		}
		return u.auditService.LogCreate(ctx, tx, actor.ID(), entity.AuditActionScheduleCreate, "schedule_slot", doctorID.String(), map[string]interface{}{
			"slot_ids": ids,
		})
	})
	if err != nil {
		if !isAppError(err) {
			u.log.Warnf("Failed to add slots for doctor %s: %+v", doctorID, err)
		}
		return nil, err
	}

	u.log.Infof("Added %d of %d requested slots for doctor %s", len(inserted), len(keys), doctorID)

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(inserted),
		Total: len(inserted),
	}, nil
}

func (u *scheduleUsecase) ListSlots(ctx context.Context, actor entity.Actor, req *dto.ListSlotsRequest) (*dto.SlotListResponse, error) {
	if !policy.CanManageSchedule(actor, req.DoctorID) {
		return nil, ErrForbidden
	}

	filter := entity.SlotFilter{OnlyUnbooked: req.OnlyUnbooked}
	if req.Date != "" {
		date, err := entity.ParseSlotDate(req.Date)
		if err != nil {
			return nil, ErrInvalidSlotDate
		}
		filter.Date = &date
	}

	db := u.transactor.Conn(ctx)
	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.slotRepo.FindByDoctorID(db, req.DoctorID, filter)
	if err != nil {
		u.log.Warnf("Failed to find slots for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

func (u *scheduleUsecase) GetSlot(ctx context.Context, slotID int) (*dto.SlotResponse, error) {
	slot, err := u.slotRepo.FindByID(u.transactor.Conn(ctx), slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %d: %+v", slotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	return converter.SlotToResponse(slot), nil
}
