package queries

import (
	"context"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"

	"golang.org/x/sync/errgroup"
)

type AgendaCounts struct {
	Total     int
	Pending   int
	Responded int
}

type ResponseCounts struct {
	Total    int
	Attend   int
	Decline  int
	Delegate int
}

type Statistics struct {
	Agendas   AgendaCounts
	Responses ResponseCounts
}

type StatisticsUseCase struct {
	Repository ports.AgendaRepository
	Logger     *slog.Logger
}

func (u StatisticsUseCase) Execute(ctx context.Context, actor entities.Actor) (Statistics, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(actor.UserID) == "" {
		return Statistics{}, domainerrors.ErrForbidden
	}

	var stats Statistics
	group, groupCtx := errgroup.WithContext(ctx)
	countAgendas := func(status entities.Status, dst *int) {
		group.Go(func() error {
			count, err := u.Repository.CountAgendas(groupCtx, status)
			*dst = count
			return err
		})
	}
	countResponses := func(decision entities.Decision, dst *int) {
		group.Go(func() error {
			count, err := u.Repository.CountResponses(groupCtx, decision)
			*dst = count
			return err
		})
	}

	countAgendas("", &stats.Agendas.Total)
	countAgendas(entities.StatusPending, &stats.Agendas.Pending)
	countAgendas(entities.StatusResponded, &stats.Agendas.Responded)
	countResponses("", &stats.Responses.Total)
	countResponses(entities.DecisionAttend, &stats.Responses.Attend)
	countResponses(entities.DecisionDecline, &stats.Responses.Decline)
	countResponses(entities.DecisionDelegate, &stats.Responses.Delegate)

	if err := group.Wait(); err != nil {
		logger.Error("statistics query failed",
			"event", "agenda_statistics_failed",
			"module", "agenda-scheduling/agenda-service",
			"layer", "application",
			"error", err.Error(),
		)
		return Statistics{}, err
	}
	return stats, nil
}
