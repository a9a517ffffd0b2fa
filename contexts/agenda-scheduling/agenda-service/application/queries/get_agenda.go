package queries

import (
	"context"
	"log/slog"
	"strings"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type GetAgendaUseCase struct {
	Repository ports.AgendaRepository
	Logger     *slog.Logger
}

func (u GetAgendaUseCase) Execute(ctx context.Context, actor entities.Actor, agendaID string) (entities.Agenda, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return entities.Agenda{}, domainerrors.ErrForbidden
	}
	agendaID = strings.TrimSpace(agendaID)
	if agendaID == "" {
		return entities.Agenda{}, domainerrors.ErrInvalidAgendaID
	}
	return u.Repository.GetAgenda(ctx, agendaID)
}
