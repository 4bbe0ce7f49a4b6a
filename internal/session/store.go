// Package session persists per-conversation state between turns.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/lacasita/telegram-bot-go/internal/model"
)

// Store loads and saves conversation sessions. An expired session reads as absent.
type Store interface {
	// Get returns nil without error when no live session exists
	Get(ctx context.Context, key string) (*model.Session, error)
	// Set upserts the session and pushes its expiry to now+TTL
	Set(ctx context.Context, key string, s *model.Session) error
	// Delete is idempotent
	Delete(ctx context.Context, key string) error
}

// Sweeper removes expired sessions
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Key builds the session key for a chat participant
func Key(chatID, userID int64) string {
	return strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
}

func encode(s *model.Session) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Clock returns the current time
type Clock func() time.Time
