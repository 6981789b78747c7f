package usecase

import (
	"context"
	"time"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/policy"
	"hospital-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DoctorProfileUsecase interface {
	SearchDoctors(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	transactor        repository.Transactor
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	slotRepo          repository.ScheduleSlotRepository
	auditService      service.AuditService
	tokenStore        service.TokenStore
	now               func() time.Time
}

func NewDoctorProfileUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	slotRepo repository.ScheduleSlotRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		transactor:        transactor,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		slotRepo:          slotRepo,
		auditService:      auditService,
		tokenStore:        tokenStore,
		now:               time.Now,
	}
}

// SearchDoctors filters by specialty and location substrings. With a date,
// every doctor carries that day's unbooked slots.
func (u *doctorProfileUsecase) SearchDoctors(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorListResponse, error) {
	var slotFilter *entity.SlotFilter
	if req.Date != "" {
		date, err := entity.ParseSlotDate(req.Date)
		if err != nil {
			return nil, ErrInvalidSlotDate
		}
		slotFilter = &entity.SlotFilter{Date: &date, OnlyUnbooked: true}
	}

	db := u.transactor.Conn(ctx)
	doctors, err := u.doctorProfileRepo.FindAll(db, entity.DoctorFilter{
		Specialty: req.Specialty,
		Location:  req.Location,
	})
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, err
	}

	if slotFilter != nil && len(doctors) > 0 {
		ids := make([]uuid.UUID, len(doctors))
		for i, d := range doctors {
			ids[i] = d.ID
		}

		slots, err := u.slotRepo.FindByDoctorIDs(db, ids, *slotFilter)
		if err != nil {
			u.log.Warnf("Failed to find available slots: %+v", err)
			return nil, err
		}

		byDoctor := make(map[uuid.UUID][]entity.ScheduleSlot, len(doctors))
		for _, s := range slots {
			byDoctor[s.DoctorID] = append(byDoctor[s.DoctorID], s)
		}
		for i := range doctors {
			doctors[i].Slots = byDoctor[doctors[i].ID]
		}
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// GetDoctor returns the public profile with unbooked slots from today on.
func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	db := u.transactor.Conn(ctx)
	doctor, err := u.doctorProfileRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	today := datatypes.Date(u.now())
	slots, err := u.slotRepo.FindByDoctorID(db, doctorID, entity.SlotFilter{FromDate: &today, OnlyUnbooked: true})
	if err != nil {
		u.log.Warnf("Failed to find slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	doctor.Slots = slots

	return converter.DoctorProfileToResponse(doctor), nil
}

// CreateDoctor creates the doctor's user account and profile atomically.
func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !policy.Can(actor, policy.ActionManageDoctors) {
		return nil, ErrForbidden
	}

	existing, err := u.userRepo.FindByEmail(u.transactor.Conn(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleDoctor,
	}
	profile := &entity.DoctorProfile{
		Specialty:      req.Specialty,
		Location:       req.Location,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			return err
		}

		profile.UserID = user.ID
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor.ID(), entity.AuditActionDoctorCreate, "doctor_profile", profile.ID.String(), map[string]interface{}{
			"user_id":   user.ID,
			"email":     user.Email,
			"specialty": profile.Specialty,
		})
	})
	if err != nil {
		if !isAppError(err) {
			u.log.Warnf("Failed to create doctor: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Doctor %s created for user %s", profile.ID, user.ID)

	profile.User = *user
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !policy.Can(actor, policy.ActionManageDoctors) {
		return nil, ErrForbidden
	}

	hasSpecialty := req.Specialty != nil && *req.Specialty != ""
	hasLocation := req.Location != nil && *req.Location != ""
	if !hasSpecialty && !hasLocation && req.Bio == nil && req.ProfilePicture == nil {
		return nil, ErrNoFieldsToUpdate
	}

	profile, err := u.doctorProfileRepo.FindByID(u.transactor.Conn(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorProfileToResponse(profile)
	if hasSpecialty {
		profile.Specialty = *req.Specialty
	}
	if hasLocation {
		profile.Location = *req.Location
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		profile.ProfilePicture = *req.ProfilePicture
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actor.ID(), entity.AuditActionDoctorUpdate, "doctor_profile", profile.ID.String(), oldValue, converter.DoctorProfileToResponse(profile))
	})
	if err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

// DeleteDoctor removes the profile and its user account, then revokes the
// doctor's outstanding tokens.
func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID) error {
	if !policy.Can(actor, policy.ActionManageDoctors) {
		return ErrForbidden
	}

	profile, err := u.doctorProfileRepo.FindByID(u.transactor.Conn(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.doctorProfileRepo.Delete(tx, profile.ID); err != nil {
			return err
		}
		if err := u.userRepo.Delete(tx, profile.UserID); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, actor.ID(), entity.AuditActionDoctorDelete, "doctor_profile", profile.ID.String(), converter.DoctorProfileToResponse(profile))
	})
	if err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, profile.UserID); err != nil {
		u.log.Warnf("Failed to revoke tokens of deleted doctor %s: %+v", profile.UserID, err)
	}

	u.log.Infof("Doctor %s deleted", doctorID)
	return nil
}
