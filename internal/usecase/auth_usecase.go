package usecase

import (
	"context"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/service"
	"hospital-appointment/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, actor entity.Actor, accessTokenID string, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	*accountCreator
	doctorProfileRepo repository.DoctorProfileRepository
	jwtService        *jwt.JWTService
	tokenStore        service.TokenStore
}

func NewAuthUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		accountCreator:    newAccountCreator(transactor, log, userRepo, auditService),
		doctorProfileRepo: doctorProfileRepo,
		jwtService:        jwtService,
		tokenStore:        tokenStore,
	}
}

// Register creates a patient account and signs it in. Doctors and admins
// cannot self-register.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Role != "" && entity.Role(req.Role) != entity.RolePatient {
		return nil, ErrSelfRegistrationRefused
	}

	user, err := u.createUser(ctx, req.Name, req.Email, req.Password, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Patient %s registered", user.ID)

	return u.signIn(ctx, user, nil)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	db := u.transactor.Conn(ctx)
	user, err := u.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	var doctorID *uuid.UUID
	if user.Role == entity.RoleDoctor {
		profile, err := u.doctorProfileRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile of user %s: %+v", user.ID, err)
			return nil, err
		}
		if profile == nil {
			// A doctor account without a profile cannot act as a doctor.
			return nil, ErrInvalidCredentials
		}
		doctorID = &profile.ID
	}

	return u.signIn(ctx, user, doctorID)
}

// Logout revokes the access token used for the request and, when given, the
// caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, actor entity.Actor, accessTokenID string, req *dto.LogoutRequest) error {
	if err := u.tokenStore.Revoke(ctx, actor.ID(), jwt.AccessToken, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != actor.ID() {
		return ErrInvalidToken
	}
	if err := u.tokenStore.Revoke(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

// RefreshToken rotates a refresh token. Role and doctor id are re-read from
// the database so a deleted account cannot refresh.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Revoke(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.transactor.Conn(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	var doctorID *uuid.UUID
	if user.DoctorProfile != nil {
		doctorID = &user.DoctorProfile.ID
	}

	return u.issueTokens(ctx, user, doctorID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.transactor.Conn(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) signIn(ctx context.Context, user *entity.User, doctorID *uuid.UUID) (*dto.AuthResponse, error) {
	tokens, err := u.issueTokens(ctx, user, doctorID)
	if err != nil {
		return nil, err
	}

	userResponse := converter.UserToResponse(user)
	userResponse.DoctorID = doctorID

	return &dto.AuthResponse{
		TokenResponse: *tokens,
		User:          *userResponse,
	}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User, doctorID *uuid.UUID) (*dto.TokenResponse, error) {
	subject := jwt.Subject{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		DoctorID: doctorID,
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(subject)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(subject)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, user.ID, jwt.AccessToken, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, user.ID, jwt.RefreshToken, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
