package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type InviteRepository interface {
	Create(ctx context.Context, params model.CreateInviteParams) (*model.HouseholdInvite, error)
	// DeleteExpired removes expired invites that were never used
	DeleteExpired(ctx context.Context) (int64, error)
}

type inviteRepo struct {
	db sqlxDB
}

func NewInviteRepository(db *sqlx.DB) InviteRepository {
	return &inviteRepo{db: db}
}

func (r *inviteRepo) Create(ctx context.Context, params model.CreateInviteParams) (*model.HouseholdInvite, error) {
	var invite model.HouseholdInvite
	err := r.db.GetContext(ctx, &invite, `
		INSERT INTO household_invites (household_id, invite_code, created_by, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, household_id, invite_code, created_by, used_by, used_at, expires_at, created_at
	`, params.HouseholdID, params.InviteCode, params.CreatedBy, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM household_invites
		WHERE used_by IS NULL AND expires_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
