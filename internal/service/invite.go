package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	"github.com/lacasita/telegram-bot-go/internal/config"
	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
	"github.com/lacasita/telegram-bot-go/internal/util"
)

const maxCodeAttempts = 5

type InviteService struct {
	inviteRepo repository.InviteRepository
	ttl        time.Duration
	now        func() time.Time
	generate   func(n int) (string, error)
}

func NewInviteService(inviteRepo repository.InviteRepository, ttl time.Duration) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		ttl:        ttl,
		now:        time.Now,
		generate:   util.GenerateCode,
	}
}

// Create issues a single-use invitation code for the admin's household
func (s *InviteService) Create(ctx context.Context, user *model.User) (*model.HouseholdInvite, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("User is not registered")
	}
	if !user.IsAdmin() {
		audit.Log(ctx, audit.Event{
			Type:        audit.EventInviteDenied,
			UserID:      user.ID,
			HouseholdID: user.HouseholdID,
		})
		return nil, apperrors.Forbidden("Only household admins can create invites")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generate(config.InviteCodeLength)
		if err != nil {
			return nil, apperrors.Internal("Failed to generate invite code").WithCause(err)
		}

		invite, err := s.inviteRepo.Create(ctx, model.CreateInviteParams{
			HouseholdID: user.HouseholdID,
			InviteCode:  code,
			CreatedBy:   user.ID,
			ExpiresAt:   s.now().Add(s.ttl).UTC(),
		})
		if repository.IsUniqueViolation(err) {
			zerolog.Ctx(ctx).Debug().Int("attempt", attempt+1).Msg("Invite code collision, retrying")
			continue
		}
		if err != nil {
			return nil, apperrors.Database(err)
		}

		audit.Log(ctx, audit.Event{
			Type:        audit.EventInviteCreate,
			UserID:      user.ID,
			HouseholdID: user.HouseholdID,
			Details:     map[string]interface{}{"code": util.MaskCode(code), "expiresAt": invite.ExpiresAt},
		})
		return invite, nil
	}

	return nil, apperrors.Wrap(apperrors.ErrCodeConflict,
		"Could not allocate a unique invite code", fmt.Errorf("%d collisions", maxCodeAttempts))
}
