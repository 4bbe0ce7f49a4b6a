package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Subcategory struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Slug          string        `db:"slug" json:"slug"`
	Icon          *string       `db:"icon" json:"icon,omitempty"`
	OwnershipType OwnershipType `db:"ownership_type" json:"ownershipType"`
	IsActive      bool          `db:"is_active" json:"isActive"`
}

// ValidationRules is stored as a jsonb column next to the field definition.
type ValidationRules struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Regex   string   `json:"regex,omitempty"`
	Options []string `json:"options,omitempty"`
}

func (v ValidationRules) Value() (driver.Value, error) {
	return json.Marshal(v)
}

func (v *ValidationRules) Scan(src any) error {
	switch data := src.(type) {
	case nil:
		*v = ValidationRules{}
		return nil
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("validation rules: unsupported scan type %T", src)
	}
}

type FieldDefinition struct {
	ID              string           `db:"id" json:"id"`
	SubcategoryID   string           `db:"subcategory_id" json:"subcategoryId"`
	FieldName       string           `db:"field_name" json:"fieldName"`
	FieldType       FieldType        `db:"field_type" json:"fieldType"`
	IsRequired      bool             `db:"is_required" json:"isRequired"`
	ValidationRules *ValidationRules `db:"validation_rules" json:"validationRules,omitempty"`
	Unit            *string          `db:"unit" json:"unit,omitempty"`
	DefaultValue    *string          `db:"default_value" json:"defaultValue,omitempty"`
	DisplayOrder    int              `db:"display_order" json:"displayOrder"`
}

func (f FieldDefinition) Rules() ValidationRules {
	if f.ValidationRules == nil {
		return ValidationRules{}
	}
	return *f.ValidationRules
}
