package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	"github.com/lacasita/telegram-bot-go/internal/util"
)

// SecretTokenHeader carries the secret_token registered with setWebhook
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type TelegramSecretMiddleware struct {
	secret string
}

func NewTelegramSecretMiddleware(secret string) *TelegramSecretMiddleware {
	return &TelegramSecretMiddleware{secret: secret}
}

func (m *TelegramSecretMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(SecretTokenHeader)
		if token == "" {
			log.Warn().Msg("telegram secret middleware: missing secret token header")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventWebhookAuthFail,
				Details: map[string]interface{}{"reason": "missing"},
			})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing secret token",
			})
			return
		}

		if !util.ConstantTimeEqual(token, m.secret) {
			log.Warn().Msg("telegram secret middleware: invalid secret token")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventWebhookAuthFail,
				Details: map[string]interface{}{"reason": "mismatch"},
			})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid secret token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
