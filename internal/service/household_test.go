package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
)

func TestHouseholdService_Summary(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2026, 4, 30, 22, 15, 0, 0, time.UTC)

	newService := func() (*HouseholdService, *mockRecordRepo) {
		records := &mockRecordRepo{count: 7, last: &last}
		users := &mockUserRepo{users: map[string]*model.User{"1001": adminUser(), "1002": memberUser()}}
		households := &mockHouseholdRepo{household: &model.Household{ID: "h-1", Name: "Casa"}}
		return NewHouseholdService(households, users, records), records
	}

	t.Run("collects household stats", func(t *testing.T) {
		svc, _ := newService()

		summary, err := svc.Summary(ctx, adminUser())
		require.NoError(t, err)
		assert.Equal(t, "Casa", summary.Household.Name)
		assert.Len(t, summary.Members, 2)
		assert.Equal(t, 7, summary.RecordCount)
		assert.Equal(t, &last, summary.LastRecordedAt)
	})

	t.Run("any failing query fails the summary", func(t *testing.T) {
		svc, records := newService()
		records.statsErr = errors.New("boom")

		_, err := svc.Summary(ctx, adminUser())
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})

	t.Run("missing household", func(t *testing.T) {
		svc, _ := newService()
		u := adminUser()
		u.HouseholdID = "h-gone"

		_, err := svc.Summary(ctx, u)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}
