package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
)

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepo{users: map[string]*model.User{"1001": adminUser()}}
	svc := NewUserService(repo)

	t.Run("known user", func(t *testing.T) {
		user, err := svc.Resolve(ctx, 1001)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "u-admin", user.ID)
	})

	t.Run("unknown user is nil", func(t *testing.T) {
		user, err := svc.Resolve(ctx, 5555)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("zero id is nil", func(t *testing.T) {
		user, err := svc.Resolve(ctx, 0)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("lookup failure", func(t *testing.T) {
		svc := NewUserService(&mockUserRepo{err: errors.New("down")})
		_, err := svc.Resolve(ctx, 1001)
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})
}
