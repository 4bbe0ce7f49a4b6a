package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	"github.com/lacasita/telegram-bot-go/internal/config"
	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/reply"
)

const (
	msgHouseholdFailed = "❌ Ocurrió un error al obtener la información de tu hogar."
	msgNoRecords       = "📭 No hay registros aún."
	msgLatestFailed    = "❌ Error al obtener registros."
	msgAdminOnly       = "⛔ Solo los administradores pueden generar invitaciones."
	msgInviteFailed    = "❌ Error al generar la invitación."
)

type handlerFunc func(ctx context.Context, t *Turn) error

type route struct {
	handle handlerFunc
	// public routes are available to users without a household
	public bool
}

func (b *Bot) commandRoutes() map[string]route {
	return map[string]route{
		cmdStart:     {handle: b.start, public: true},
		cmdHelp:      {handle: b.help, public: true},
		cmdAyuda:     {handle: b.help, public: true},
		cmdCancel:    {handle: b.cancel, public: true},
		cmdHousehold: {handle: b.household},
		cmdRegister:  {handle: b.register},
		cmdLatest:    {handle: b.latest},
		cmdInvite:    {handle: b.invite},
	}
}

// dispatch runs a route, refusing private routes to unregistered users
func (b *Bot) dispatch(ctx context.Context, t *Turn, name string, r route) error {
	if !r.public && t.User == nil {
		audit.Log(ctx, audit.Event{
			Type:       audit.EventAccessDenied,
			TelegramID: telegramID(t),
			Details:    map[string]interface{}{"route": name},
		})
		t.Reply.Send(msgNotRegistered)
		return nil
	}
	return r.handle(ctx, t)
}

func (b *Bot) start(_ context.Context, t *Turn) error {
	if t.User == nil {
		b.menus.Welcome(t.Reply)
		return nil
	}
	b.menus.Main(t.User, t.Reply)
	return nil
}

func (b *Bot) help(_ context.Context, t *Turn) error {
	b.menus.Help(t.Reply)
	return nil
}

func (b *Bot) cancel(ctx context.Context, t *Turn) error {
	if !t.Session.IsEmpty() {
		zerolog.Ctx(ctx).Info().Str("flow", string(t.Session.Flow)).Msg("User cancelled scene")
	}
	t.Session.Clear()
	b.menus.ShowCancelled(ctx, t.User, t.Reply)
	return nil
}

func (b *Bot) mainMenu(_ context.Context, t *Turn) error {
	b.menus.Main(t.User, t.Reply)
	return nil
}

func (b *Bot) household(ctx context.Context, t *Turn) error {
	summary, err := b.services.Households.Summary(ctx, t.User)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("householdId", t.User.HouseholdID).Msg("Failed to load household summary")
		t.Reply.Send(msgHouseholdFailed)
		return nil
	}

	t.Reply.Send(formatHousehold(summary, b.dates), reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("📩 Invitar", actionMenuInvite)),
		reply.Row(reply.Data("📊 Ver registros", actionMenuLatest)),
		reply.Row(reply.Data("🔙 Volver", actionMenuMain)),
	)))
	return nil
}

func (b *Bot) register(_ context.Context, t *Turn) error {
	b.menus.Register(t.Reply)
	return nil
}

func (b *Bot) latest(ctx context.Context, t *Turn) error {
	records, err := b.services.Records.Latest(ctx, t.User, config.LatestRecordsLimit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to fetch latest records")
		t.Reply.Send(msgLatestFailed)
		return nil
	}

	if len(records) == 0 {
		t.Reply.Send(msgNoRecords, reply.WithKeyboard(reply.Rows(
			reply.Row(reply.Data("📝 Registrar ahora", actionMenuRegister)),
		)))
		return nil
	}

	t.Reply.Send(formatLatest(records, b.dates), reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("📝 Registrar nuevo", actionMenuRegister)),
		reply.Row(reply.Data("🔙 Volver", actionMenuMain)),
	)))
	return nil
}

func (b *Bot) invite(ctx context.Context, t *Turn) error {
	invite, err := b.services.Invites.Create(ctx, t.User)
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeForbidden):
		t.Reply.Send(msgAdminOnly)
		return nil
	case err != nil:
		zerolog.Ctx(ctx).Error().Err(err).Msg("Error generating invite")
		t.Reply.Send(msgInviteFailed)
		return nil
	}

	t.Reply.Send(formatInvite(invite, b.dates), reply.Markdown())
	return nil
}
