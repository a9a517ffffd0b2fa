package queries

import (
	"context"
	"log/slog"
	"strings"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

type GetUserUseCase struct {
	Repository ports.UserRepository
	Logger     *slog.Logger
}

func (u GetUserUseCase) Execute(ctx context.Context, actor entities.Actor, userID string) (entities.User, error) {
	if err := requireFacilityHead(actor); err != nil {
		return entities.User{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.User{}, domainerrors.ErrInvalidUserID
	}
	return u.Repository.GetUser(ctx, userID)
}
