package usecase

import (
	"context"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/policy"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AnalyticsUsecase interface {
	GetAnalytics(ctx context.Context, actor entity.Actor) (*dto.AnalyticsResponse, error)
}

type analyticsUsecase struct {
	transactor    repository.Transactor
	log           *logrus.Logger
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	analyticsRepo repository.AnalyticsRepository,
) AnalyticsUsecase {
	return &analyticsUsecase{
		transactor:    transactor,
		log:           log,
		analyticsRepo: analyticsRepo,
	}
}

// GetAnalytics returns appointment counts per doctor, busiest first and
// including doctors without appointments, plus the number of patients. The
// two aggregates are computed concurrently and are not cached.
func (u *analyticsUsecase) GetAnalytics(ctx context.Context, actor entity.Actor) (*dto.AnalyticsResponse, error) {
	if !policy.Can(actor, policy.ActionViewAnalytics) {
		return nil, ErrForbidden
	}

	var (
		counts       []entity.DoctorAppointmentCount
		patientCount int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = u.analyticsRepo.AppointmentCountsByDoctor(u.transactor.Conn(gctx))
		return err
	})
	g.Go(func() error {
		var err error
		patientCount, err = u.analyticsRepo.CountUsersByRole(u.transactor.Conn(gctx), entity.RolePatient)
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute analytics: %+v", err)
		return nil, err
	}

	return converter.AnalyticsToResponse(counts, patientCount), nil
}
