// Package telegram adapts go-telegram-bot-api to the bot pipeline: it maps
// updates to bot events, delivers outbox messages and runs long polling.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/reply"
)

// API is the subset of *tgbotapi.BotAPI the sender needs
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Sender delivers replies through the Bot API
type Sender struct {
	api API
}

var _ reply.Sender = (*Sender)(nil)

func NewSender(api API) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendMessage(_ context.Context, chatID int64, msg reply.Message) error {
	cfg := tgbotapi.NewMessage(chatID, msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbotapi.ModeMarkdown
	}
	if len(msg.Keyboard) > 0 {
		cfg.ReplyMarkup = inlineKeyboard(msg.Keyboard)
	}

	if _, err := s.api.Send(cfg); err != nil {
		return apperrors.External("telegram", fmt.Errorf("send message: %w", err))
	}
	return nil
}

func (s *Sender) AnswerCallback(_ context.Context, callbackID, text string) error {
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return apperrors.External("telegram", fmt.Errorf("answer callback: %w", err))
	}
	return nil
}

func (s *Sender) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := s.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return apperrors.External("telegram", fmt.Errorf("delete message: %w", err))
	}
	return nil
}

func inlineKeyboard(kb reply.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
