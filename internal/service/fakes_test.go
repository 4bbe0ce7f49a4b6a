package service

import (
	"context"
	"time"

	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
)

var (
	_ repository.SubcategoryRepository = (*mockSubcategoryRepo)(nil)
	_ repository.RecordRepository      = (*mockRecordRepo)(nil)
	_ repository.HouseholdRepository   = (*mockHouseholdRepo)(nil)
	_ repository.UserRepository        = (*mockUserRepo)(nil)
	_ repository.InviteRepository      = (*mockInviteRepo)(nil)
)

type mockSubcategoryRepo struct {
	sub       *model.Subcategory
	fields    []model.FieldDefinition
	findErr   error
	fieldsErr error
}

func (m *mockSubcategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Subcategory, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.sub == nil || m.sub.Slug != slug {
		return nil, nil
	}
	return m.sub, nil
}

func (m *mockSubcategoryRepo) ListFields(ctx context.Context, subcategoryID string) ([]model.FieldDefinition, error) {
	return m.fields, m.fieldsErr
}

type mockRecordRepo struct {
	created   []model.CreateRecordParams
	createErr error
	latest    []model.RecordSummary
	count     int
	last      *time.Time
	statsErr  error
}

func (m *mockRecordRepo) Create(ctx context.Context, params model.CreateRecordParams) (*model.Record, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, params)
	return &model.Record{ID: "rec-1", HouseholdID: params.HouseholdID, Data: params.Data}, nil
}

func (m *mockRecordRepo) ListLatest(ctx context.Context, householdID string, limit int) ([]model.RecordSummary, error) {
	if len(m.latest) > limit {
		return m.latest[:limit], nil
	}
	return m.latest, nil
}

func (m *mockRecordRepo) CountByHousehold(ctx context.Context, householdID string) (int, error) {
	return m.count, m.statsErr
}

func (m *mockRecordRepo) LastRecordedAt(ctx context.Context, householdID string) (*time.Time, error) {
	return m.last, nil
}

type mockHouseholdRepo struct {
	household *model.Household
}

func (m *mockHouseholdRepo) FindByID(ctx context.Context, id string) (*model.Household, error) {
	if m.household == nil || m.household.ID != id {
		return nil, nil
	}
	return m.household, nil
}

type mockUserRepo struct {
	users map[string]*model.User
	err   error
}

func (m *mockUserRepo) FindByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[telegramID], nil
}

func (m *mockUserRepo) ListByHousehold(ctx context.Context, householdID string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if u.HouseholdID == householdID {
			out = append(out, *u)
		}
	}
	return out, m.err
}

type mockInviteRepo struct {
	created []model.CreateInviteParams
	errs    []error
}

func (m *mockInviteRepo) Create(ctx context.Context, params model.CreateInviteParams) (*model.HouseholdInvite, error) {
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	m.created = append(m.created, params)
	return &model.HouseholdInvite{
		ID:          "inv-1",
		HouseholdID: params.HouseholdID,
		InviteCode:  params.InviteCode,
		CreatedBy:   params.CreatedBy,
		ExpiresAt:   params.ExpiresAt,
	}, nil
}

func (m *mockInviteRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func ptr[T any](v T) *T { return &v }

func adminUser() *model.User {
	return &model.User{ID: "u-admin", TelegramID: "1001", FirstName: "Ana", Role: model.RoleAdmin, HouseholdID: "h-1", HouseholdName: "Casa"}
}

func memberUser() *model.User {
	return &model.User{ID: "u-member", TelegramID: "1002", FirstName: "Beto", Role: model.RoleMember, HouseholdID: "h-1", HouseholdName: "Casa"}
}

func presionFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{FieldName: "sistolica", FieldType: model.FieldTypeNumber, IsRequired: true,
			ValidationRules: &model.ValidationRules{Min: ptr(60.0), Max: ptr(300.0)}, DisplayOrder: 1},
		{FieldName: "diastolica", FieldType: model.FieldTypeNumber, IsRequired: true,
			ValidationRules: &model.ValidationRules{Min: ptr(30.0), Max: ptr(200.0)}, DisplayOrder: 2},
		{FieldName: "pulso", FieldType: model.FieldTypeNumber,
			ValidationRules: &model.ValidationRules{Min: ptr(30.0), Max: ptr(250.0)}, DisplayOrder: 3},
		{FieldName: "en_ayunas", FieldType: model.FieldTypeBoolean, DisplayOrder: 4},
		{FieldName: "brazo", FieldType: model.FieldTypeSelect,
			ValidationRules: &model.ValidationRules{Options: []string{"izquierdo", "derecho"}}, DisplayOrder: 5},
	}
}
