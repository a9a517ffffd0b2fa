package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type DeleteAgendaCommand struct {
	Actor    entities.Actor
	AgendaID string
}

type DeleteAgendaUseCase struct {
	Repository ports.AgendaRepository
	Storage    ports.AttachmentStorage
	Logger     *slog.Logger
}

func (u DeleteAgendaUseCase) Execute(ctx context.Context, cmd DeleteAgendaCommand) error {
	logger := application.ResolveLogger(u.Logger)

	agendaID := strings.TrimSpace(cmd.AgendaID)
	if agendaID == "" {
		return domainerrors.ErrInvalidAgendaID
	}
	if !cmd.Actor.IsSectionHead() {
		return domainerrors.ErrForbidden
	}

	agenda, err := u.Repository.GetAgenda(ctx, agendaID)
	if err != nil {
		return err
	}
	if err := agenda.EnsureEditableBy(cmd.Actor); err != nil {
		return err
	}
	if err := u.Repository.DeleteAgenda(ctx, agendaID); err != nil {
		return err
	}

	if agenda.AttachmentURL != "" && u.Storage != nil {
		if err := u.Storage.Delete(ctx, agenda.AttachmentURL); err != nil {
			logger.Warn("attachment removal failed",
				"event", "agenda_attachment_delete_failed",
				"module", "agenda-scheduling/agenda-service",
				"layer", "application",
				"agenda_id", agendaID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("agenda deleted",
		"event", "agenda_deleted",
		"module", "agenda-scheduling/agenda-service",
		"layer", "application",
		"agenda_id", agendaID,
		"user_id", cmd.Actor.UserID,
	)
	return nil
}
