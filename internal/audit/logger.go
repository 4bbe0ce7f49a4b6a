package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventInviteCreate     EventType = "invite_create"
	EventInviteDenied     EventType = "invite_denied"
	EventRecordSave       EventType = "record_save"
	EventRecordRejected   EventType = "record_rejected"
	EventFlowInterrupted  EventType = "flow_interrupted"
	EventFlowCancelled    EventType = "flow_cancelled"
	EventAccessDenied     EventType = "access_denied"
	EventWebhookAuthFail  EventType = "webhook_auth_failure"
	EventWebhookMalformed EventType = "webhook_malformed"
)

type Event struct {
	Type        EventType
	UserID      string
	TelegramID  string
	HouseholdID string
	IP          string
	UserAgent   string
	Details     map[string]interface{}
}

// Log writes an audit event. The context logger is used when one is attached
// so turn fields stay on the entry.
func Log(ctx context.Context, event Event) {
	base := log.Logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		base = *l
	}
	logger := base.With().
		Str("audit", "bot").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.UserID != "" {
		logger = logger.With().Str("user_id", event.UserID).Logger()
	}
	if event.TelegramID != "" {
		logger = logger.With().Str("telegram_id", event.TelegramID).Logger()
	}
	if event.HouseholdID != "" {
		logger = logger.With().Str("household_id", event.HouseholdID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
