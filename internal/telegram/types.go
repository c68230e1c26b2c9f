// Package telegram is the chat transport adapter for the Telegram Bot API.
// It defines the inbound update shapes the webhook receives and a thin
// outbound client. No business logic lives here.
package telegram

import "strconv"

// Update is one inbound Telegram webhook delivery.
type Update struct {
	UpdateID      *int64         `json:"update_id"`
	Message       *Message       `json:"message"`
	EditedMessage *Message       `json:"edited_message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// CallbackQuery is an inline-button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// User identifies the sender on the external platform.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Chat identifies the conversation.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// EffectiveMessage returns the message or edited message, whichever is set.
func (u *Update) EffectiveMessage() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.EditedMessage
}

// ChatID returns the chat identifier the update belongs to, as a string.
// Callback queries carry the chat on their originating message.
func (u *Update) ChatID() string {
	if u.CallbackQuery != nil && u.CallbackQuery.Message != nil {
		return strconv.FormatInt(u.CallbackQuery.Message.Chat.ID, 10)
	}
	if msg := u.EffectiveMessage(); msg != nil {
		return strconv.FormatInt(msg.Chat.ID, 10)
	}
	return ""
}

// Sender returns the acting user, from the callback query or the message.
func (u *Update) Sender() *User {
	if u.CallbackQuery != nil {
		return u.CallbackQuery.From
	}
	if msg := u.EffectiveMessage(); msg != nil {
		return msg.From
	}
	return nil
}

// IsPrivate reports whether the update originates from a private chat.
func (u *Update) IsPrivate() bool {
	if u.CallbackQuery != nil && u.CallbackQuery.Message != nil {
		return u.CallbackQuery.Message.Chat.Type == "private"
	}
	if msg := u.EffectiveMessage(); msg != nil {
		return msg.Chat.Type == "private"
	}
	return false
}
