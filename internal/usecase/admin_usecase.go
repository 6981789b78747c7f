package usecase

import (
	"context"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUsecase provisions administrator accounts from the command line. It
// needs only the database, so it works without Redis or JWT settings.
type AdminUsecase interface {
	CreateAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, error)
}

type adminUsecase struct {
	*accountCreator
}

func NewAdminUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		accountCreator: newAccountCreator(transactor, log, userRepo, auditService),
	}
}

func (u *adminUsecase) CreateAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, error) {
	user, err := u.createUser(ctx, name, email, password, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Administrator %s created", user.ID)

	return converter.UserToResponse(user), nil
}

// accountCreator inserts users with a hashed password and an audit entry. It
// is shared by self-registration and admin provisioning.
type accountCreator struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	userRepo     repository.UserRepository
	auditService service.AuditService
}

func newAccountCreator(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) *accountCreator {
	return &accountCreator{
		transactor:   transactor,
		log:          log,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

func (c *accountCreator) createUser(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, error) {
	existing, err := c.userRepo.FindByEmail(c.transactor.Conn(ctx), email)
	if err != nil {
		c.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	err = c.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := c.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			return err
		}

		return c.auditService.LogCreate(ctx, tx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		if !isAppError(err) {
			c.log.Warnf("Failed to create user: %+v", err)
		}
		return nil, err
	}

	return user, nil
}
