package commands

import (
	"context"
	"log/slog"
	"strings"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

// notify sends one message and only logs failures; callers have already
// committed their write.
func notify(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, kind string, agendaID string, target string, message string) {
	if notifier == nil {
		return
	}
	if strings.TrimSpace(target) == "" {
		logger.Info("notification skipped, recipient has no phone number",
			"event", "agenda_notification_skipped",
			"module", "agenda-scheduling/agenda-service",
			"layer", "application",
			"kind", kind,
			"agenda_id", agendaID,
		)
		return
	}
	if err := notifier.Send(ctx, target, message); err != nil {
		logger.Warn("notification send failed",
			"event", "agenda_notification_failed",
			"module", "agenda-scheduling/agenda-service",
			"layer", "application",
			"kind", kind,
			"agenda_id", agendaID,
			"error", err.Error(),
		)
		return
	}
	logger.Info("notification sent",
		"event", "agenda_notification_sent",
		"module", "agenda-scheduling/agenda-service",
		"layer", "application",
		"kind", kind,
		"agenda_id", agendaID,
	)
}
