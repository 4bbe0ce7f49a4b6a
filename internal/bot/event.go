package bot

import (
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

// Event is the transport-neutral view of one inbound update
type Event struct {
	ChatID     int64
	UserID     int64
	Username   string
	FirstName  string
	LastName   string
	Text       string
	Callback   string
	CallbackID string
	// MessageID is the message the callback button belongs to, or the text message itself.
	MessageID int
	Edited    bool
}

func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

// Turn carries the state of one event through the pipeline. Session is read
// once at turn start and written once at the end.
type Turn struct {
	Event   Event
	User    *model.User
	Session *model.Session
	Reply   *reply.Outbox
}

func (t *Turn) wizardInput() wizard.Input {
	return wizard.Input{
		Event: wizard.Event{
			Text:     t.Event.Text,
			Callback: t.Event.Callback,
			Edited:   t.Event.Edited,
		},
		User:  t.User,
		Reply: t.Reply,
	}
}
