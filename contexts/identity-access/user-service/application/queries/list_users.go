package queries

import (
	"context"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/identity-access/user-service/application"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

type ListUsersUseCase struct {
	Repository ports.UserRepository
	Logger     *slog.Logger
}

func (u ListUsersUseCase) Execute(ctx context.Context, actor entities.Actor) ([]entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	if err := requireFacilityHead(actor); err != nil {
		logger.Warn("list users denied",
			"event", "user_list_forbidden",
			"module", "identity-access/user-service",
			"layer", "application",
			"actor_id", actor.UserID,
			"role", string(actor.Role),
		)
		return nil, err
	}
	return u.Repository.ListUsers(ctx)
}

func requireFacilityHead(actor entities.Actor) error {
	if strings.TrimSpace(actor.UserID) == "" || !actor.IsFacilityHead() {
		return domainerrors.ErrForbidden
	}
	return nil
}
