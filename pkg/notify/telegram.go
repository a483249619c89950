package notify

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
)

// TelegramNotifier pings online volunteers who linked a Telegram chat.
type TelegramNotifier struct {
	bot *tele.Bot
	log logger.ILogger
}

func NewTelegramNotifier(token string, log logger.ILogger) (*TelegramNotifier, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, log: log}, nil
}

func (n *TelegramNotifier) NotifyNewRequests(ctx context.Context, volunteers []*models.Volunteer, alert Alert) error {
	text := fmt.Sprintf("🍱 %d new delivery request(s) nearby. %d waiting for a volunteer.",
		alert.NewRequests, alert.TotalPending)

	for _, v := range volunteers {
		if v.ChatID == 0 {
			continue
		}
		if _, err := n.bot.Send(&tele.Chat{ID: v.ChatID}, text); err != nil {
			// A failed send must not block the other volunteers.
			n.log.Warning("failed to notify volunteer",
				logger.String("volunteer", v.ID), logger.Error(err))
		}
	}
	return nil
}
