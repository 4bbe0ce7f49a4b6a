// Package bot runs the per-event pipeline: session load, identity, command
// interception, command and callback dispatch, wizard dispatch, the ad-hoc
// text router, session persistence and reply delivery.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/audit"
	"github.com/lacasita/telegram-bot-go/internal/config"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
	"github.com/lacasita/telegram-bot-go/internal/service"
	"github.com/lacasita/telegram-bot-go/internal/session"
	"github.com/lacasita/telegram-bot-go/internal/timeutil"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

const msgPersistFailed = "😔 No pudimos guardar tu progreso. Por favor intenta nuevamente."

type UserResolver interface {
	Resolve(ctx context.Context, telegramID int64) (*model.User, error)
}

type RecordLister interface {
	Latest(ctx context.Context, user *model.User, limit int) ([]model.RecordSummary, error)
}

type HouseholdSummarizer interface {
	Summary(ctx context.Context, user *model.User) (*service.HouseholdSummary, error)
}

type InviteCreator interface {
	Create(ctx context.Context, user *model.User) (*model.HouseholdInvite, error)
}

// Services are the backend collaborators the commands use
type Services struct {
	Users      UserResolver
	Records    RecordLister
	Households HouseholdSummarizer
	Invites    InviteCreator
}

type Bot struct {
	sessions  session.Store
	sender    reply.Sender
	scenes    *wizard.Registry
	services  Services
	dates     *timeutil.Formatter
	menus     Menus
	adhoc     map[model.AdHocKind]AdHocHandler
	locks     *chatLocks
	commands  map[string]route
	callbacks map[string]route
	timeout   time.Duration
}

type Option func(*Bot)

// WithAdHocHandler registers the text handler for an ad-hoc scene kind
func WithAdHocHandler(kind model.AdHocKind, h AdHocHandler) Option {
	return func(b *Bot) { b.adhoc[kind] = h }
}

// WithTurnTimeout bounds how long a single turn may take
func WithTurnTimeout(d time.Duration) Option {
	return func(b *Bot) { b.timeout = d }
}

func New(
	sessions session.Store,
	sender reply.Sender,
	scenes *wizard.Registry,
	services Services,
	dates *timeutil.Formatter,
	opts ...Option,
) *Bot {
	b := &Bot{
		sessions: sessions,
		sender:   sender,
		scenes:   scenes,
		services: services,
		dates:    dates,
		adhoc:    make(map[model.AdHocKind]AdHocHandler),
		locks:    newChatLocks(),
		timeout:  config.TurnTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.commands = b.commandRoutes()
	b.callbacks = b.callbackRoutes()
	return b
}

// HandleEvent runs one inbound event through the pipeline. Turns of the same
// chat are serialised. Replies are delivered only after the session has been
// written; when the turn fails the stored session is left as it was.
func (b *Bot) HandleEvent(ctx context.Context, ev Event) error {
	unlock := b.locks.Lock(ev.ChatID)
	defer unlock()

	start := time.Now()
	logger := log.With().
		Str("turnId", uuid.NewString()).
		Int64("telegramId", ev.UserID).
		Str("username", ev.Username).
		Int64("chatId", ev.ChatID).
		Str("command", commandName(ev.Text)).
		Logger()
	ctx = logger.WithContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	switch {
	case ev.Text != "":
		logger.Info().Str("messageText", ev.Text).Bool("edited", ev.Edited).Msg("Incoming message")
	case ev.IsCallback():
		logger.Info().Str("callback", ev.Callback).Msg("Incoming callback")
	default:
		logger.Info().Msg("Incoming update")
	}

	key := session.Key(ev.ChatID, ev.UserID)
	out := reply.New(ev.ChatID, ev.CallbackID)

	stored, err := b.sessions.Get(ctx, key)
	if err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Request failed")
		out.Send(msgUnexpected)
		return b.deliver(ctx, out, err)
	}
	if stored == nil {
		stored = model.NewSession()
	}

	t := &Turn{Event: ev, Session: stored.Clone(), Reply: out}

	if err := b.run(ctx, t); err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Request failed")
		out.Reset()
		out.Send(msgUnexpected)
		return b.deliver(ctx, out, err)
	}

	if err := b.persist(ctx, key, stored, t.Session); err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Failed to persist session")
		out.Reset()
		out.Send(msgPersistFailed)
		return b.deliver(ctx, out, err)
	}

	logger.Info().Dur("duration", time.Since(start)).Msg("Request completed")
	return b.deliver(ctx, out, nil)
}

// run executes the pipeline stages on the turn. A panic anywhere below is
// converted into an error so the caller discards the turn.
func (b *Bot) run(ctx context.Context, t *Turn) (err error) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().Str("stack", string(debug.Stack())).Msg("Recovered from panic in turn")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	user, err := b.services.Users.Resolve(ctx, t.Event.UserID)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	t.User = user
	if user == nil {
		zerolog.Ctx(ctx).Debug().Msg("User not found in database")
	}

	if intercept(ctx, t, b.menus) == Stop {
		return nil
	}

	if cmd := parseCommand(t.Event.Text); cmd != nil {
		if t.Event.Edited {
			return nil
		}
		r, ok := b.commands[cmd.Name]
		if !ok {
			zerolog.Ctx(ctx).Debug().Msg("Unknown command ignored")
			return nil
		}
		return b.dispatch(ctx, t, cmd.Name, r)
	}

	if t.Session.HasWizard() {
		// an edit of an earlier message is not an answer to the current step
		if t.Event.Edited {
			zerolog.Ctx(ctx).Debug().Str("scene", t.Session.Wizard.SceneID).Msg("Edited message ignored in scene")
			return nil
		}
		return b.stepWizard(ctx, t)
	}

	if t.Event.IsCallback() {
		r, ok := b.callbacks[t.Event.Callback]
		if !ok {
			zerolog.Ctx(ctx).Warn().Str("callback", t.Event.Callback).Msg("Unknown callback")
			return nil
		}
		return b.dispatch(ctx, t, t.Event.Callback, r)
	}

	if t.Session.HasAdHoc() && !t.Event.Edited {
		return b.routeText(ctx, t)
	}

	return nil
}

func (b *Bot) stepWizard(ctx context.Context, t *Turn) error {
	st := *t.Session.Wizard
	runner, err := b.scenes.Lookup(st.SceneID)
	if err != nil {
		return err
	}

	res, err := runner.Handle(ctx, st, t.wizardInput())
	if err != nil {
		return err
	}

	if len(res.Satisfied) > 0 {
		zerolog.Ctx(ctx).Debug().Interface("satisfied", res.Satisfied).Msg("Skipped satisfied steps")
	}

	if res.Done() {
		if res.Cancelled {
			audit.Log(ctx, audit.Event{
				Type:       audit.EventFlowCancelled,
				TelegramID: telegramID(t),
				Details:    map[string]interface{}{"scene": st.SceneID, "via": "wizard"},
			})
		}
		t.Session.Clear()
		return nil
	}

	t.Session.EnterWizard(res.State.SceneID, res.State.Cursor, res.State.Data)
	return nil
}

func (b *Bot) persist(ctx context.Context, key string, before, after *model.Session) error {
	if after.IsEmpty() {
		if before.IsEmpty() {
			return nil
		}
		return b.sessions.Delete(ctx, key)
	}
	return b.sessions.Set(ctx, key, after)
}

// deliver flushes the outbox and returns cause, or the delivery error when
// the turn itself succeeded.
func (b *Bot) deliver(ctx context.Context, out *reply.Outbox, cause error) error {
	if err := out.Flush(ctx, b.sender); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to deliver replies")
		if cause == nil {
			return err
		}
	}
	return cause
}

func telegramID(t *Turn) string {
	return strconv.FormatInt(t.Event.UserID, 10)
}
