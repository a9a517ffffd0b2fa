package queries

import (
	"context"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/services"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type ListAgendasUseCase struct {
	Repository ports.AgendaRepository
	Logger     *slog.Logger
}

func (u ListAgendasUseCase) Execute(ctx context.Context, actor entities.Actor) (services.Partition, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(actor.UserID) == "" {
		return services.Partition{}, domainerrors.ErrForbidden
	}
	agendas, err := u.Repository.ListAgendas(ctx)
	if err != nil {
		logger.Error("list agendas failed",
			"event", "agenda_list_failed",
			"module", "agenda-scheduling/agenda-service",
			"layer", "application",
			"user_id", actor.UserID,
			"error", err.Error(),
		)
		return services.Partition{}, err
	}
	return services.PartitionAgendas(actor, agendas), nil
}
