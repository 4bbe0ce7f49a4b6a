package session

import (
	"context"
	"time"

	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/repository"
)

// PostgresStore keeps sessions in the sessions table
type PostgresStore struct {
	repo repository.SessionRepository
	ttl  time.Duration
	now  Clock
}

func NewPostgresStore(repo repository.SessionRepository, ttl time.Duration) *PostgresStore {
	return &PostgresStore{repo: repo, ttl: ttl, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*model.Session, error) {
	stored, err := s.repo.FindActive(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	return decode(stored.Session)
}

func (s *PostgresStore) Set(ctx context.Context, key string, sess *model.Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, key, raw, s.now().Add(s.ttl))
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
