package commands

import (
	"strings"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
)

func requireFacilityHead(actor entities.Actor) error {
	if strings.TrimSpace(actor.UserID) == "" || !actor.IsFacilityHead() {
		return domainerrors.ErrForbidden
	}
	return nil
}
