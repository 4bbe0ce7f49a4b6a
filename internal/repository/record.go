package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type RecordRepository interface {
	Create(ctx context.Context, params model.CreateRecordParams) (*model.Record, error)
	ListLatest(ctx context.Context, householdID string, limit int) ([]model.RecordSummary, error)
	CountByHousehold(ctx context.Context, householdID string) (int, error)
	// LastRecordedAt returns nil when the household has no records
	LastRecordedAt(ctx context.Context, householdID string) (*time.Time, error)
}

type recordRepo struct {
	db sqlxDB
}

func NewRecordRepository(db *sqlx.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, params model.CreateRecordParams) (*model.Record, error) {
	var record model.Record
	err := r.db.GetContext(ctx, &record, `
		INSERT INTO records (household_id, user_id, subcategory_id, data, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, household_id, user_id, subcategory_id, data, recorded_at, notes, created_at
	`, params.HouseholdID, params.UserID, params.SubcategoryID, []byte(params.Data), params.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) ListLatest(ctx context.Context, householdID string, limit int) ([]model.RecordSummary, error) {
	var records []model.RecordSummary
	err := r.db.SelectContext(ctx, &records, `
		SELECT r.recorded_at, r.data,
			s.name AS subcategory_name, s.slug AS subcategory_slug, s.icon AS subcategory_icon,
			u.first_name AS author_first_name
		FROM records r
		JOIN subcategories s ON s.id = r.subcategory_id
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.household_id = $1
		ORDER BY r.recorded_at DESC
		LIMIT $2
	`, householdID, limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepo) CountByHousehold(ctx context.Context, householdID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM records WHERE household_id = $1
	`, householdID)
	return count, err
}

func (r *recordRepo) LastRecordedAt(ctx context.Context, householdID string) (*time.Time, error) {
	var last sql.NullTime
	err := r.db.GetContext(ctx, &last, `
		SELECT MAX(recorded_at) FROM records WHERE household_id = $1
	`, householdID)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}
