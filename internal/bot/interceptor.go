package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
)

// Decision is the outcome of the command interceptor
type Decision int

const (
	// Pass leaves the turn untouched
	Pass Decision = iota
	// Stop ends the turn; the interceptor already replied
	Stop
	// Continue means the wizard was dropped and the command should still run
	Continue
)

func (d Decision) String() string {
	switch d {
	case Stop:
		return "stop"
	case Continue:
		return "continue"
	default:
		return "pass"
	}
}

const msgInterrupted = "⚠️ Operación anterior cancelada por nuevo comando."

// exempt commands run without disturbing an active wizard
var exempt = map[string]bool{
	cmdCancel: true,
	cmdAyuda:  true,
	cmdHelp:   true,
}

// intercept applies the command policy to a turn whose session may hold an
// active wizard. It runs once per event before any dispatch.
func intercept(ctx context.Context, t *Turn, canceller bloodpressure.Canceller) Decision {
	if t.Event.Text == "" || !t.Session.HasWizard() {
		return Pass
	}
	name := commandName(t.Event.Text)
	if name == "" {
		return Pass
	}

	scene := t.Session.Wizard.SceneID
	logger := zerolog.Ctx(ctx)

	if name == cmdCancel {
		logger.Info().Str("scene", scene).Msg("Command intercepted in scene")
		t.Session.Clear()
		canceller.ShowCancelled(ctx, t.User, t.Reply)
		audit.Log(ctx, audit.Event{
			Type:       audit.EventFlowCancelled,
			TelegramID: telegramID(t),
			Details:    map[string]interface{}{"scene": scene, "via": name},
		})
		return Stop
	}

	if exempt[name] {
		return Pass
	}

	logger.Info().Str("scene", scene).Msg("Command intercepted in scene")
	t.Session.Clear()
	t.Reply.Send(msgInterrupted)
	audit.Log(ctx, audit.Event{
		Type:       audit.EventFlowInterrupted,
		TelegramID: telegramID(t),
		Details:    map[string]interface{}{"scene": scene, "intercepted": name},
	})
	return Continue
}
