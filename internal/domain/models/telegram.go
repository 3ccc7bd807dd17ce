package models

// TelegramUpdate mirrors the subset of the Telegram Bot API update payload
// the webhook cares about. Updates without a message are acknowledged and
// dropped.
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message,omitempty"`
}

// TelegramMessage is an inbound chat message.
type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      TelegramChat  `json:"chat"`
	Date      int64         `json:"date"`
	Text      string        `json:"text"`
}

// TelegramUser identifies the sender of a message.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// TelegramChat identifies the conversation a message belongs to; replies
// are addressed to this id.
type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NotificationRequest pushes free text to the configured store chat.
type NotificationRequest struct {
	Text string `json:"text" binding:"required"`
}
