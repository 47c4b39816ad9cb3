package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram posts account-action alerts to a moderation operations chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, ev Event) error {
	var b strings.Builder
	switch ev.Action {
	case "suspension":
		b.WriteString("🚫 Account suspended\n")
	case "restriction":
		b.WriteString("⚠️ Account restricted\n")
	default:
		b.WriteString("ℹ️ Account action: " + ev.Action + "\n")
	}
	fmt.Fprintf(&b, "User: %s\n", ev.UserID)
	fmt.Fprintf(&b, "Total strikes: %.1f\n", ev.TotalStrikes)
	if len(ev.Violations) > 0 {
		b.WriteString("Violations:\n")
		for _, v := range ev.Violations {
			b.WriteString("  - " + v + "\n")
		}
	}

	msg := tgbotapi.NewMessage(t.chatID, b.String())
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram alert: %w", err)
	}
	return nil
}
