package usecase

import (
	"context"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/policy"

	"github.com/sirupsen/logrus"
)

const (
	defaultAuditLogLimit = 100
	maxAuditLogLimit     = 500
)

type AuditLogUsecase interface {
	GetAuditLogs(ctx context.Context, actor entity.Actor, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		transactor:   transactor,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAuditLogs returns the newest entries first. limit is clamped to
// [1, 500]; zero or negative means the default of 100.
func (u *auditLogUsecase) GetAuditLogs(ctx context.Context, actor entity.Actor, limit int) (*dto.AuditLogListResponse, error) {
	if !policy.Can(actor, policy.ActionViewAuditLog) {
		return nil, ErrForbidden
	}

	if limit <= 0 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindAll(u.transactor.Conn(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
