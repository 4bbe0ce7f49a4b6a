package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type HouseholdRepository interface {
	FindByID(ctx context.Context, id string) (*model.Household, error)
}

type householdRepo struct {
	db sqlxDB
}

func NewHouseholdRepository(db *sqlx.DB) HouseholdRepository {
	return &householdRepo{db: db}
}

func (r *householdRepo) FindByID(ctx context.Context, id string) (*model.Household, error) {
	var household model.Household
	err := r.db.GetContext(ctx, &household, `
		SELECT id, name, created_at FROM households WHERE id = $1
	`, id)
	return HandleNotFound(&household, err)
}
