package service

import (
	"context"
	"strconv"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Resolve maps a Telegram user id to a registered user. Unknown users resolve
// to nil without error.
func (s *UserService) Resolve(ctx context.Context, telegramID int64) (*model.User, error) {
	if telegramID == 0 {
		return nil, nil
	}
	user, err := s.userRepo.FindByTelegramID(ctx, strconv.FormatInt(telegramID, 10))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return user, nil
}
