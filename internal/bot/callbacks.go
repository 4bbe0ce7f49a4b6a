package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
	"github.com/lacasita/telegram-bot-go/internal/model"
)

const (
	msgAskHouseholdName = "Por favor, ingresa el nombre para tu nuevo hogar:"
	msgAskInviteCode    = "Por favor, ingresa el código de invitación (6 caracteres):"
)

func (b *Bot) callbackRoutes() map[string]route {
	return map[string]route{
		actionCreateHousehold: {handle: b.enterAdHoc(model.AdHocCreateHousehold, msgAskHouseholdName), public: true},
		actionJoinHousehold:   {handle: b.enterAdHoc(model.AdHocJoinHousehold, msgAskInviteCode), public: true},
		actionMenuHelp:        {handle: b.help, public: true},
		actionMenuRegister:    {handle: b.register},
		actionMenuLatest:      {handle: b.latest},
		actionMenuHousehold:   {handle: b.household},
		actionMenuMain:        {handle: b.mainMenu},
		actionMenuInvite:      {handle: b.invite},
		actionRegisterPresion: {handle: b.enterWizard(bloodpressure.SceneID)},
		actionCancelRegister:  {handle: b.cancelRegister, public: true},
		actionNoop:            {handle: b.noop, public: true},
	}
}

func (b *Bot) enterAdHoc(kind model.AdHocKind, prompt string) handlerFunc {
	return func(_ context.Context, t *Turn) error {
		t.Reply.Send(prompt)
		t.Session.EnterAdHoc(kind)
		return nil
	}
}

func (b *Bot) enterWizard(sceneID string) handlerFunc {
	return func(ctx context.Context, t *Turn) error {
		runner, err := b.scenes.Lookup(sceneID)
		if err != nil {
			return err
		}
		res, err := runner.Enter(ctx, t.wizardInput())
		if err != nil {
			return err
		}
		if res.Done() {
			t.Session.Clear()
			return nil
		}
		zerolog.Ctx(ctx).Info().Str("scene", sceneID).Msg("Scene entered")
		t.Session.EnterWizard(res.State.SceneID, res.State.Cursor, res.State.Data)
		return nil
	}
}

// cancelRegister removes the subcategory menu the button belongs to
func (b *Bot) cancelRegister(_ context.Context, t *Turn) error {
	t.Reply.Delete(t.Event.MessageID)
	return nil
}

func (b *Bot) noop(_ context.Context, t *Turn) error {
	t.Reply.Answer(msgComingSoon)
	return nil
}
