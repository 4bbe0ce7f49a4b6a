package handler

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/httputil"
	"github.com/lacasita/telegram-bot-go/internal/telegram"
)

type TelegramHandler struct {
	bot telegram.EventHandler
}

func NewTelegramHandler(bot telegram.EventHandler) *TelegramHandler {
	return &TelegramHandler{bot: bot}
}

// Webhook processes one update synchronously. Once the body decodes the
// response is always 200 so Telegram does not redeliver a handled update.
func (h *TelegramHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("invalid telegram webhook request")
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventWebhookMalformed,
			Details: map[string]interface{}{"error": truncate(err.Error(), 120)},
		})
		httputil.WriteError(w, apperrors.InvalidInput("body", "not a Telegram update"))
		return
	}

	ev, ok := telegram.ToEvent(update)
	if !ok {
		log.Debug().Int("updateId", update.UpdateID).Msg("ignoring telegram update")
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	log.Debug().
		Int("updateId", update.UpdateID).
		Int64("chatId", ev.ChatID).
		Str("text", truncate(ev.Text, 50)).
		Bool("callback", ev.IsCallback()).
		Msg("received telegram webhook")

	if err := h.bot.HandleEvent(r.Context(), ev); err != nil {
		log.Debug().Err(err).Int("updateId", update.UpdateID).Msg("turn ended with error")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
