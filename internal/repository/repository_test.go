package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacasita/telegram-bot-go/internal/database"
	"github.com/lacasita/telegram-bot-go/internal/model"
)

// setupTestDB connects to TEST_DATABASE_URL and applies the schema.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() {
		_, _ = db.Exec(`TRUNCATE sessions, records, household_invites, users, subcategory_fields, subcategories, households CASCADE`)
		db.Close()
	})
	return db
}

type fixture struct {
	householdID   string
	adminID       string
	subcategoryID string
}

func seed(t *testing.T, db *database.DB) fixture {
	t.Helper()
	var f fixture
	require.NoError(t, db.Get(&f.householdID, `INSERT INTO households (name) VALUES ('Casa Test') RETURNING id`))
	require.NoError(t, db.Get(&f.adminID, `
		INSERT INTO users (household_id, telegram_id, first_name, role)
		VALUES ($1, '1001', 'Ana', 'admin') RETURNING id`, f.householdID))
	_, err := db.Exec(`
		INSERT INTO users (household_id, telegram_id, first_name, role)
		VALUES ($1, '1002', 'Beto', 'member')`, f.householdID)
	require.NoError(t, err)
	// the catalogue comes from Migrate
	require.NoError(t, db.Get(&f.subcategoryID, `SELECT id FROM subcategories WHERE slug = 'presion-arterial'`))
	return f
}

func TestSessionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db.DB)
	ctx := context.Background()

	payload := json.RawMessage(`{"flow":"wizard","wizard":{"sceneId":"PRESION_FLOW","cursor":"quick"}}`)

	t.Run("upsert then find", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, "42:42", payload, time.Now().Add(time.Hour)))

		stored, err := repo.FindActive(ctx, "42:42")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.JSONEq(t, string(payload), string(stored.Session))
	})

	t.Run("expired rows read as absent and are swept", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, "7:7", payload, time.Now().Add(-time.Minute)))

		stored, err := repo.FindActive(ctx, "7:7")
		require.NoError(t, err)
		assert.Nil(t, stored)

		n, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "42:42"))
		require.NoError(t, repo.Delete(ctx, "42:42"))
	})
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	t.Run("finds user with household name", func(t *testing.T) {
		user, err := repo.FindByTelegramID(ctx, "1001")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Casa Test", user.HouseholdName)
		assert.True(t, user.IsAdmin())
	})

	t.Run("returns nil for unknown user", func(t *testing.T) {
		user, err := repo.FindByTelegramID(ctx, "9999")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("lists admins first", func(t *testing.T) {
		users, err := repo.ListByHousehold(ctx, f.householdID)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, model.RoleAdmin, users[0].Role)
	})
}

func TestSubcategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewSubcategoryRepository(db.DB)
	ctx := context.Background()

	sub, err := repo.FindBySlug(ctx, "presion-arterial")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, f.subcategoryID, sub.ID)

	fields, err := repo.ListFields(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, fields, 5)
	assert.Equal(t, "sistolica", fields[0].FieldName)
	assert.Equal(t, "diastolica", fields[1].FieldName)
	assert.Equal(t, model.FieldTypeBoolean, fields[3].FieldType)
	assert.Nil(t, fields[3].ValidationRules)
	assert.Equal(t, []string{"izquierdo", "derecho"}, fields[4].Rules().Options)

	missing, err := repo.FindBySlug(ctx, "glucosa")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewRecordRepository(db.DB)
	ctx := context.Background()

	last, err := repo.LastRecordedAt(ctx, f.householdID)
	require.NoError(t, err)
	assert.Nil(t, last)

	at := time.Now().UTC().Truncate(time.Second)
	_, err = repo.Create(ctx, model.CreateRecordParams{
		HouseholdID:   f.householdID,
		UserID:        f.adminID,
		SubcategoryID: f.subcategoryID,
		Data:          json.RawMessage(`{"sistolica":120,"diastolica":80}`),
		RecordedAt:    at,
	})
	require.NoError(t, err)

	count, err := repo.CountByHousehold(ctx, f.householdID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	last, err = repo.LastRecordedAt(ctx, f.householdID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, at.Equal(*last))

	latest, err := repo.ListLatest(ctx, f.householdID, 10)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "presion-arterial", latest[0].SubcategorySlug)
	require.NotNil(t, latest[0].AuthorFirstName)
	assert.Equal(t, "Ana", *latest[0].AuthorFirstName)
}

func TestInviteRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewInviteRepository(db.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.CreateInviteParams{
		HouseholdID: f.householdID, InviteCode: "ABC123", CreatedBy: f.adminID,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.CreateInviteParams{
		HouseholdID: f.householdID, InviteCode: "ABC123", CreatedBy: f.adminID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.True(t, IsUniqueViolation(err))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
