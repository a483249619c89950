// Package notify delivers transient "new request" alerts to online
// volunteers. The alert is a signal to open the app, not persisted state.
package notify

import (
	"context"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
)

// Alert describes a batch of newly arrived pending requests. One alert is
// raised per observation regardless of how many requests arrived.
type Alert struct {
	NewRequests  int
	TotalPending int
}

type Notifier interface {
	NotifyNewRequests(ctx context.Context, volunteers []*models.Volunteer, alert Alert) error
}

// LogNotifier is the fallback used when no Telegram bot token is
// configured.
type LogNotifier struct {
	Log logger.ILogger
}

func (n *LogNotifier) NotifyNewRequests(ctx context.Context, volunteers []*models.Volunteer, alert Alert) error {
	n.Log.Info("new delivery requests available",
		logger.Int("new", alert.NewRequests),
		logger.Int("pending", alert.TotalPending),
		logger.Int("volunteers", len(volunteers)),
	)
	return nil
}
