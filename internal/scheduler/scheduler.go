// Package scheduler runs the notification retention sweep in the background.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kushal-np/SocialMedia/internal/metrics"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/robfig/cron/v3"
)

// retentionCron fires the sweep once a day at 03:00.
const retentionCron = "0 3 * * *"

// RunRetention starts a cron scheduler that deletes notifications older than
// retentionDays. It returns the started cron so callers can Stop it on
// shutdown. retentionDays <= 0 disables the sweep.
func RunRetention(notifs *repo.NotificationRepo, retentionDays int) *cron.Cron {
	c := cron.New()
	if retentionDays <= 0 {
		slog.Info("notification retention disabled")
		return c
	}

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		n, err := notifs.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			slog.Error("notification retention sweep failed", "error", err)
			return
		}
		if n > 0 {
			metrics.NotificationsSwept.Add(float64(n))
		}
		slog.Info("notification retention sweep", "deleted", n, "cutoff", cutoff)
	}

	if _, err := c.AddFunc(retentionCron, sweep); err != nil {
		slog.Error("scheduler: add retention job", "error", err)
		return c
	}
	c.Start()
	slog.Info("notification retention scheduled", "cron", retentionCron, "days", retentionDays)
	return c
}
