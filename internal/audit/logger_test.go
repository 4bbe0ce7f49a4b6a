package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("turnId", "t-1").Logger()
	return logger.WithContext(context.Background()), &buf
}

func TestLog(t *testing.T) {
	ctx, buf := captureCtx()

	Log(ctx, Event{
		Type:        EventRecordSave,
		UserID:      "u-1",
		HouseholdID: "h-1",
		Details:     map[string]interface{}{"slug": "presion-arterial", "fields": 3},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record_save", entry["event_type"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "h-1", entry["household_id"])
	assert.Equal(t, "presion-arterial", entry["slug"])
	assert.Equal(t, float64(3), entry["fields"])
	assert.Equal(t, "t-1", entry["turnId"])
	assert.NotContains(t, entry, "telegram_id")
}

func TestLogFromRequest(t *testing.T) {
	ctx, buf := captureCtx()
	r := httptest.NewRequest("POST", "/telegram/webhook", nil).WithContext(ctx)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.Header.Set("User-Agent", "probe")

	LogFromRequest(r, Event{Type: EventWebhookAuthFail})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "webhook_auth_failure", entry["event_type"])
	assert.Equal(t, "203.0.113.9", entry["ip"])
	assert.Equal(t, "probe", entry["user_agent"])
}
