package model

import (
	"encoding/json"
	"time"
)

type Record struct {
	ID            string          `db:"id" json:"id"`
	HouseholdID   string          `db:"household_id" json:"householdId"`
	UserID        string          `db:"user_id" json:"userId"`
	SubcategoryID string          `db:"subcategory_id" json:"subcategoryId"`
	Data          json.RawMessage `db:"data" json:"data"`
	RecordedAt    time.Time       `db:"recorded_at" json:"recordedAt"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

type CreateRecordParams struct {
	HouseholdID   string
	UserID        string
	SubcategoryID string
	Data          json.RawMessage
	RecordedAt    time.Time
}

// RecordSummary is a record joined with its subcategory and author, as listed by /ultimos.
type RecordSummary struct {
	RecordedAt      time.Time       `db:"recorded_at"`
	Data            json.RawMessage `db:"data"`
	SubcategoryName string          `db:"subcategory_name"`
	SubcategorySlug string          `db:"subcategory_slug"`
	SubcategoryIcon *string         `db:"subcategory_icon"`
	AuthorFirstName *string         `db:"author_first_name"`
}
