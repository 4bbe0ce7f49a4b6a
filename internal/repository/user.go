package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID string) (*model.User, error)
	ListByHousehold(ctx context.Context, householdID string) ([]model.User, error)
}

type userRepo struct {
	db sqlxDB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT u.id, u.telegram_id, u.telegram_username, u.first_name, u.last_name,
			u.role, u.household_id, h.name AS household_name, u.created_at
		FROM users u
		JOIN households h ON h.id = u.household_id
		WHERE u.telegram_id = $1
	`, telegramID)
	return HandleNotFound(&user, err)
}

func (r *userRepo) ListByHousehold(ctx context.Context, householdID string) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.id, u.telegram_id, u.telegram_username, u.first_name, u.last_name,
			u.role, u.household_id, h.name AS household_name, u.created_at
		FROM users u
		JOIN households h ON h.id = u.household_id
		WHERE u.household_id = $1
		ORDER BY (u.role = 'admin') DESC, u.created_at ASC
	`, householdID)
	if err != nil {
		return nil, err
	}
	return users, nil
}
