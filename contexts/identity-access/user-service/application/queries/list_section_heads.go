package queries

import (
	"context"
	"log/slog"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

// ListSectionHeadsUseCase feeds the delegation picker on the response form.
type ListSectionHeadsUseCase struct {
	Repository ports.UserRepository
	Logger     *slog.Logger
}

func (u ListSectionHeadsUseCase) Execute(ctx context.Context, actor entities.Actor) ([]entities.User, error) {
	if err := requireFacilityHead(actor); err != nil {
		return nil, err
	}
	return u.Repository.ListUsersByRole(ctx, entities.RoleSectionHead)
}
