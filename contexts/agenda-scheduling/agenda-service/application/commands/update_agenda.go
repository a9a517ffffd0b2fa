package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type UpdateAgendaCommand struct {
	Actor       entities.Actor
	AgendaID    string
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
}

type UpdateAgendaUseCase struct {
	Repository ports.AgendaRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u UpdateAgendaUseCase) Execute(ctx context.Context, cmd UpdateAgendaCommand) (entities.Agenda, error) {
	logger := application.ResolveLogger(u.Logger)

	agendaID := strings.TrimSpace(cmd.AgendaID)
	if agendaID == "" {
		return entities.Agenda{}, domainerrors.ErrInvalidAgendaID
	}
	if !cmd.Actor.IsSectionHead() {
		return entities.Agenda{}, domainerrors.ErrForbidden
	}

	agenda, err := u.Repository.GetAgenda(ctx, agendaID)
	if err != nil {
		return entities.Agenda{}, err
	}
	if err := agenda.EnsureEditableBy(cmd.Actor); err != nil {
		logger.Info("agenda update rejected",
			"event", "agenda_update_rejected",
			"module", "agenda-scheduling/agenda-service",
			"layer", "application",
			"agenda_id", agendaID,
			"user_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return entities.Agenda{}, err
	}

	details, err := entities.NewDetails(cmd.Title, cmd.Description, cmd.Location, cmd.StartAt, cmd.EndAt)
	if err != nil {
		return entities.Agenda{}, err
	}
	agenda.Apply(details, u.now())

	if err := u.Repository.UpdateAgenda(ctx, agenda); err != nil {
		return entities.Agenda{}, err
	}

	logger.Info("agenda updated",
		"event", "agenda_updated",
		"module", "agenda-scheduling/agenda-service",
		"layer", "application",
		"agenda_id", agendaID,
		"user_id", cmd.Actor.UserID,
	)
	return agenda, nil
}

func (u UpdateAgendaUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
