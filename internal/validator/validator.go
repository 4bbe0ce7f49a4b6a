// Package validator checks candidate records against field definitions fetched
// from the database. Each field type maps to a checker factory; a Validator is
// built fresh from the definitions on every commit.
package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

const dateLayout = "2006-01-02"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Strings(), "; ")
}

// Strings formats each violation as "field: message".
func (e Errors) Strings() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return out
}

// checkFunc returns an empty string when the value is acceptable.
type checkFunc func(value any) string

type checkerFactory func(rules model.ValidationRules) checkFunc

var checkers = map[model.FieldType]checkerFactory{
	model.FieldTypeNumber:   numberChecker,
	model.FieldTypeText:     textChecker,
	model.FieldTypeSelect:   selectChecker,
	model.FieldTypeBoolean:  booleanChecker,
	model.FieldTypeDate:     dateChecker,
	model.FieldTypeDatetime: datetimeChecker,
}

type field struct {
	name     string
	required bool
	check    checkFunc
}

type Validator struct {
	fields []field
}

func Build(defs []model.FieldDefinition) *Validator {
	v := &Validator{fields: make([]field, 0, len(defs))}
	for _, def := range defs {
		factory, ok := checkers[def.FieldType]
		if !ok {
			factory = anyChecker
		}
		v.fields = append(v.fields, field{
			name:     def.FieldName,
			required: def.IsRequired,
			check:    factory(def.Rules()),
		})
	}
	return v
}

// Validate evaluates every declared field and returns all violations at once.
// On success the returned record holds only the declared fields that were present.
func (v *Validator) Validate(record map[string]any) (map[string]any, Errors) {
	clean := make(map[string]any, len(v.fields))
	var errs Errors

	for _, f := range v.fields {
		value, present := record[f.name]
		if !present || value == nil {
			if f.required {
				errs = append(errs, FieldError{Field: f.name, Message: "es obligatorio"})
			}
			continue
		}

		if msg := f.check(value); msg != "" {
			errs = append(errs, FieldError{Field: f.name, Message: msg})
			continue
		}
		clean[f.name] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return clean, nil
}

func Validate(defs []model.FieldDefinition, record map[string]any) (map[string]any, Errors) {
	return Build(defs).Validate(record)
}

func anyChecker(model.ValidationRules) checkFunc {
	return func(any) string { return "" }
}

func numberChecker(rules model.ValidationRules) checkFunc {
	return func(value any) string {
		n, ok := toFloat(value)
		if !ok {
			return "debe ser un número"
		}
		if rules.Min != nil && n < *rules.Min {
			return fmt.Sprintf("debe ser mayor o igual a %s", formatNumber(*rules.Min))
		}
		if rules.Max != nil && n > *rules.Max {
			return fmt.Sprintf("debe ser menor o igual a %s", formatNumber(*rules.Max))
		}
		return ""
	}
}

func textChecker(rules model.ValidationRules) checkFunc {
	var re *regexp.Regexp
	var reErr error
	if rules.Regex != "" {
		re, reErr = regexp.Compile(rules.Regex)
	}

	return func(value any) string {
		s, ok := value.(string)
		if !ok {
			return "debe ser texto"
		}
		if reErr != nil {
			return "regla de formato inválida"
		}
		if re != nil && !re.MatchString(s) {
			return "formato inválido"
		}
		return ""
	}
}

func selectChecker(rules model.ValidationRules) checkFunc {
	options := slices.Clone(rules.Options)

	return func(value any) string {
		s, ok := value.(string)
		if !ok {
			return "debe ser texto"
		}
		if len(options) > 0 && !slices.Contains(options, s) {
			return fmt.Sprintf("debe ser uno de: %s", strings.Join(options, ", "))
		}
		return ""
	}
}

func booleanChecker(model.ValidationRules) checkFunc {
	return func(value any) string {
		if _, ok := value.(bool); !ok {
			return "debe ser verdadero o falso"
		}
		return ""
	}
}

func dateChecker(model.ValidationRules) checkFunc {
	return func(value any) string {
		switch v := value.(type) {
		case time.Time:
			return ""
		case string:
			if _, err := time.Parse(dateLayout, v); err == nil {
				return ""
			}
			if _, err := time.Parse(time.RFC3339, v); err == nil {
				return ""
			}
		}
		return "debe ser una fecha válida"
	}
}

func datetimeChecker(model.ValidationRules) checkFunc {
	return func(value any) string {
		switch v := value.(type) {
		case time.Time:
			return ""
		case string:
			if _, err := time.Parse(time.RFC3339, v); err == nil {
				return ""
			}
		}
		return "debe ser una fecha y hora válida"
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
