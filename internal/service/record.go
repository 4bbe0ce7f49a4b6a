package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
	"github.com/lacasita/telegram-bot-go/internal/validator"
)

type RecordService struct {
	subcategoryRepo repository.SubcategoryRepository
	recordRepo      repository.RecordRepository
	now             func() time.Time
}

func NewRecordService(
	subcategoryRepo repository.SubcategoryRepository,
	recordRepo repository.RecordRepository,
) *RecordService {
	return &RecordService{
		subcategoryRepo: subcategoryRepo,
		recordRepo:      recordRepo,
		now:             time.Now,
	}
}

// Create validates the candidate record against the subcategory's current
// field definitions and inserts it. Nothing is written unless every field passes;
// violations come back as ErrCodeValidation with validator.Errors as details.
func (s *RecordService) Create(ctx context.Context, user *model.User, slug string, record map[string]any) (*model.Record, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("User is not registered")
	}

	sub, err := s.subcategoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if sub == nil {
		return nil, apperrors.NotFound("Subcategory")
	}

	fields, err := s.subcategoryRepo.ListFields(ctx, sub.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	clean, verrs := validator.Validate(fields, record)
	if len(verrs) > 0 {
		audit.Log(ctx, audit.Event{
			Type:        audit.EventRecordRejected,
			UserID:      user.ID,
			HouseholdID: user.HouseholdID,
			Details:     map[string]interface{}{"slug": slug, "violations": len(verrs)},
		})
		return nil, apperrors.ValidationError("Record failed validation").WithDetails(verrs)
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode record").WithCause(err)
	}

	created, err := s.recordRepo.Create(ctx, model.CreateRecordParams{
		HouseholdID:   user.HouseholdID,
		UserID:        user.ID,
		SubcategoryID: sub.ID,
		Data:          data,
		RecordedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	zerolog.Ctx(ctx).Info().Str("recordId", created.ID).Str("slug", slug).Msg("Record saved")
	audit.Log(ctx, audit.Event{
		Type:        audit.EventRecordSave,
		UserID:      user.ID,
		HouseholdID: user.HouseholdID,
		Details:     map[string]interface{}{"slug": slug, "recordId": created.ID},
	})
	return created, nil
}

// Latest lists the most recent records of the user's household
func (s *RecordService) Latest(ctx context.Context, user *model.User, limit int) ([]model.RecordSummary, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("User is not registered")
	}
	records, err := s.recordRepo.ListLatest(ctx, user.HouseholdID, limit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return records, nil
}
