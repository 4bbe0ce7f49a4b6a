// Package reply buffers the outbound side of a conversation turn so nothing
// reaches the chat before the turn's session has been persisted.
package reply

import (
	"context"
	"errors"
	"fmt"
)

// Button is an inline keyboard button carrying a callback payload
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard laid out in rows
type Keyboard [][]Button

// Data builds a callback button
func Data(text, data string) Button {
	return Button{Text: text, Data: data}
}

// Row groups buttons into a single keyboard row
func Row(buttons ...Button) []Button {
	return buttons
}

// Rows builds a keyboard from rows
func Rows(rows ...[]Button) Keyboard {
	return Keyboard(rows)
}

// Kind identifies an outbound action
type Kind int

const (
	KindText Kind = iota
	KindAnswer
	KindDelete
)

// Message is one buffered outbound action
type Message struct {
	Kind      Kind
	Text      string
	Markdown  bool
	Keyboard  Keyboard
	MessageID int
}

// Option customises a text message
type Option func(*Message)

// Markdown renders the message with Telegram Markdown
func Markdown() Option {
	return func(m *Message) { m.Markdown = true }
}

// WithKeyboard attaches an inline keyboard
func WithKeyboard(kb Keyboard) Option {
	return func(m *Message) { m.Keyboard = kb }
}

// Sender delivers outbound actions to the chat platform
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, msg Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Outbox collects the replies of one turn
type Outbox struct {
	chatID     int64
	callbackID string
	answer     *string
	messages   []Message
}

// New creates an outbox for a chat. callbackID is empty for plain messages.
func New(chatID int64, callbackID string) *Outbox {
	return &Outbox{chatID: chatID, callbackID: callbackID}
}

// Send queues a text message
func (o *Outbox) Send(text string, opts ...Option) {
	msg := Message{Kind: KindText, Text: text}
	for _, opt := range opts {
		opt(&msg)
	}
	o.messages = append(o.messages, msg)
}

// Answer sets the callback acknowledgement text. Ignored for non-callback turns.
func (o *Outbox) Answer(text string) {
	if o.callbackID == "" {
		return
	}
	o.answer = &text
}

// Delete queues deletion of a previously sent message
func (o *Outbox) Delete(messageID int) {
	if messageID == 0 {
		return
	}
	o.messages = append(o.messages, Message{Kind: KindDelete, MessageID: messageID})
}

// Messages returns the queued actions in order
func (o *Outbox) Messages() []Message {
	out := make([]Message, len(o.messages))
	copy(out, o.messages)
	return out
}

// Texts returns the text of every queued message
func (o *Outbox) Texts() []string {
	var texts []string
	for _, m := range o.messages {
		if m.Kind == KindText {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// Len returns the number of queued actions
func (o *Outbox) Len() int {
	return len(o.messages)
}

// Reset drops everything queued so far
func (o *Outbox) Reset() {
	o.messages = nil
	o.answer = nil
}

// Flush delivers the queued actions. A callback is always acknowledged, first,
// so the client stops its loading indicator. Delivery continues past failures
// and the joined error is returned.
func (o *Outbox) Flush(ctx context.Context, s Sender) error {
	var errs []error
	if o.callbackID != "" {
		text := ""
		if o.answer != nil {
			text = *o.answer
		}
		if err := s.AnswerCallback(ctx, o.callbackID, text); err != nil {
			errs = append(errs, fmt.Errorf("answer callback: %w", err))
		}
	}
	for _, m := range o.messages {
		var err error
		switch m.Kind {
		case KindText:
			err = s.SendMessage(ctx, o.chatID, m)
		case KindDelete:
			err = s.DeleteMessage(ctx, o.chatID, m.MessageID)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	o.messages = nil
	return errors.Join(errs...)
}
