package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/identity-access/user-service/application"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

type DeleteUserCommand struct {
	Actor  entities.Actor
	UserID string
}

type DeleteUserUseCase struct {
	Repository ports.UserRepository
	Logger     *slog.Logger
}

func (u DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	logger := application.ResolveLogger(u.Logger)

	if err := requireFacilityHead(cmd.Actor); err != nil {
		return err
	}
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return domainerrors.ErrInvalidUserID
	}
	if userID == cmd.Actor.UserID {
		return domainerrors.ErrCannotDeleteSelf
	}

	target, err := u.Repository.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	// Count-then-delete; two concurrent deletes of the last two facility
	// heads are not serialized here.
	if target.Role == entities.RoleFacilityHead {
		count, err := u.Repository.CountUsersByRole(ctx, entities.RoleFacilityHead)
		if err != nil {
			return err
		}
		if count <= 1 {
			return domainerrors.ErrLastFacilityHead
		}
	}

	if err := u.Repository.DeleteUser(ctx, userID); err != nil {
		logger.Warn("delete user failed",
			"event", "user_delete_failed",
			"module", "identity-access/user-service",
			"layer", "application",
			"actor_id", cmd.Actor.UserID,
			"user_id", userID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("user deleted",
		"event", "user_deleted",
		"module", "identity-access/user-service",
		"layer", "application",
		"actor_id", cmd.Actor.UserID,
		"user_id", userID,
	)
	return nil
}
