package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

type SessionRepository interface {
	// FindActive returns nil when the row is absent or already expired
	FindActive(ctx context.Context, key string) (*model.StoredSession, error)
	Upsert(ctx context.Context, key string, session json.RawMessage, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db sqlxDB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindActive(ctx context.Context, key string) (*model.StoredSession, error) {
	var stored model.StoredSession
	err := r.db.GetContext(ctx, &stored, `
		SELECT key, session, expires_at FROM sessions
		WHERE key = $1 AND expires_at > NOW()
	`, key)
	return HandleNotFound(&stored, err)
}

func (r *sessionRepo) Upsert(ctx context.Context, key string, session json.RawMessage, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (key, session, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			session = EXCLUDED.session,
			expires_at = EXCLUDED.expires_at
	`, key, []byte(session), expiresAt)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = $1`, key)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at <= NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
