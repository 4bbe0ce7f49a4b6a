package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

const msgOnboardingByAdmin = "ℹ️ Por ahora los hogares se configuran con un administrador.\n" +
	"Pide a un administrador de tu hogar que te registre, luego usa /start."

// AdHocHandler consumes the free text of an ad-hoc scene. It owns the scene
// from then on and clears it when done; answers needed on a later turn go in
// t.Session.AdHoc via Remember.
type AdHocHandler func(ctx context.Context, t *Turn, text string) error

// routeText hands plain text to the handler registered for the session's
// ad-hoc kind. Without one the scene is dropped and the user told why.
func (b *Bot) routeText(ctx context.Context, t *Turn) error {
	text := strings.TrimSpace(t.Event.Text)
	if text == "" {
		return nil
	}

	kind := t.Session.AdHoc.Kind
	logger := zerolog.Ctx(ctx).With().Str("scene", string(kind)).Logger()

	h, ok := b.adhoc[kind]
	if !ok {
		logger.Warn().Msg("No handler for ad-hoc scene")
		t.Session.Clear()
		t.Reply.Send(msgOnboardingByAdmin)
		return nil
	}

	logger.Info().Msg("Handling text input for scene")
	return h(ctx, t, text)
}
