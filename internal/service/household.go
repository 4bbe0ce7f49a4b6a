package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
)

type HouseholdSummary struct {
	Household      model.Household
	Members        []model.User
	RecordCount    int
	LastRecordedAt *time.Time
}

type HouseholdService struct {
	householdRepo repository.HouseholdRepository
	userRepo      repository.UserRepository
	recordRepo    repository.RecordRepository
}

func NewHouseholdService(
	householdRepo repository.HouseholdRepository,
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
) *HouseholdService {
	return &HouseholdService{
		householdRepo: householdRepo,
		userRepo:      userRepo,
		recordRepo:    recordRepo,
	}
}

// Summary gathers the household, its members and record statistics concurrently
func (s *HouseholdService) Summary(ctx context.Context, user *model.User) (*HouseholdSummary, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("User is not registered")
	}

	var (
		summary   HouseholdSummary
		household *model.Household
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.householdRepo.FindByID(gctx, user.HouseholdID)
		household = h
		return err
	})
	g.Go(func() error {
		members, err := s.userRepo.ListByHousehold(gctx, user.HouseholdID)
		summary.Members = members
		return err
	})
	g.Go(func() error {
		count, err := s.recordRepo.CountByHousehold(gctx, user.HouseholdID)
		summary.RecordCount = count
		return err
	})
	g.Go(func() error {
		last, err := s.recordRepo.LastRecordedAt(gctx, user.HouseholdID)
		summary.LastRecordedAt = last
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Database(err)
	}
	if household == nil {
		return nil, apperrors.NotFound("Household")
	}

	summary.Household = *household
	return &summary, nil
}
