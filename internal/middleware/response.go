package middleware

import (
	"net/http"

	"github.com/lacasita/telegram-bot-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
