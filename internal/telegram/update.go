package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lacasita/telegram-bot-go/internal/bot"
)

// ToEvent maps an update to a bot event. Updates the bot does not act on
// (channel posts, inline queries, messages without a sender) report false.
func ToEvent(u tgbotapi.Update) (bot.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return bot.Event{}, false
		}
		ev := fromUser(cq.From)
		ev.ChatID = cq.Message.Chat.ID
		ev.Callback = cq.Data
		ev.CallbackID = cq.ID
		ev.MessageID = cq.Message.MessageID
		return ev, true

	case u.Message != nil:
		return fromMessage(u.Message, false)

	case u.EditedMessage != nil:
		return fromMessage(u.EditedMessage, true)
	}
	return bot.Event{}, false
}

func fromMessage(m *tgbotapi.Message, edited bool) (bot.Event, bool) {
	if m.From == nil || m.Chat == nil {
		return bot.Event{}, false
	}
	ev := fromUser(m.From)
	ev.ChatID = m.Chat.ID
	ev.Text = m.Text
	ev.MessageID = m.MessageID
	ev.Edited = edited
	return ev, true
}

func fromUser(u *tgbotapi.User) bot.Event {
	return bot.Event{
		UserID:    u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
