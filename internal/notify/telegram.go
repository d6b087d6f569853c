package notify

import (
	"context"
	"errors"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskvision/internal/repository"
)

// TelegramNotifier delivers reminders to the owner's linked Telegram
// chat.
type TelegramNotifier struct {
	api   *tgbotapi.BotAPI
	users *repository.UserRepository
}

func NewTelegramNotifier(token string, users *repository.UserRepository) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramNotifier{api: api, users: users}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, ownerID, title, body, tag string) error {
	user, err := n.users.GetByID(ctx, ownerID)
	if err != nil {
		return &NotificationError{Tag: tag, Err: err}
	}
	if user.TelegramChatID == 0 {
		return &NotificationError{Tag: tag, Err: errors.New("owner has no telegram chat linked")}
	}

	text := fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body))
	msg := tgbotapi.NewMessage(user.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return &NotificationError{Tag: tag, Err: err}
	}
	return nil
}
