package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type SubcategoryRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.Subcategory, error)
	// ListFields returns the field definitions ordered by display_order
	ListFields(ctx context.Context, subcategoryID string) ([]model.FieldDefinition, error)
}

type subcategoryRepo struct {
	db sqlxDB
}

func NewSubcategoryRepository(db *sqlx.DB) SubcategoryRepository {
	return &subcategoryRepo{db: db}
}

func (r *subcategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Subcategory, error) {
	var sub model.Subcategory
	err := r.db.GetContext(ctx, &sub, `
		SELECT id, name, slug, icon, ownership_type, is_active
		FROM subcategories
		WHERE slug = $1 AND is_active
	`, slug)
	return HandleNotFound(&sub, err)
}

func (r *subcategoryRepo) ListFields(ctx context.Context, subcategoryID string) ([]model.FieldDefinition, error) {
	var fields []model.FieldDefinition
	err := r.db.SelectContext(ctx, &fields, `
		SELECT id, subcategory_id, field_name, field_type, is_required,
			validation_rules, unit, default_value, display_order
		FROM subcategory_fields
		WHERE subcategory_id = $1
		ORDER BY display_order ASC
	`, subcategoryID)
	if err != nil {
		return nil, err
	}
	return fields, nil
}
