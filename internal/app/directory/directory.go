// Package directory adapts identity accounts into the contact view the
// agenda context uses for ownership, delegation and notifications.
package directory

import (
	"context"
	"errors"
	"strings"

	agendaentities "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	agendaerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	userentities "rutanagenda/contexts/identity-access/user-service/domain/entities"
	usererrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	userports "rutanagenda/contexts/identity-access/user-service/ports"
)

type UserDirectory struct {
	Users userports.UserRepository
}

func New(users userports.UserRepository) UserDirectory {
	return UserDirectory{Users: users}
}

// FacilityHead picks the first kepala_rutan by name that has a phone number.
func (d UserDirectory) FacilityHead(ctx context.Context) (agendaentities.Contact, error) {
	heads, err := d.Users.ListUsersByRole(ctx, userentities.RoleFacilityHead)
	if err != nil {
		return agendaentities.Contact{}, err
	}
	for _, head := range heads {
		if strings.TrimSpace(head.PhoneNumber) != "" {
			return toContact(head), nil
		}
	}
	return agendaentities.Contact{}, agendaerrors.ErrContactNotFound
}

func (d UserDirectory) FindByID(ctx context.Context, userID string) (agendaentities.Contact, error) {
	user, err := d.Users.GetUser(ctx, userID)
	if err != nil {
		return agendaentities.Contact{}, mapLookupError(err)
	}
	return toContact(user), nil
}

func (d UserDirectory) FindByEmail(ctx context.Context, email string) (agendaentities.Contact, error) {
	user, err := d.Users.GetUserByEmail(ctx, userentities.NormalizeEmail(email))
	if err != nil {
		return agendaentities.Contact{}, mapLookupError(err)
	}
	return toContact(user), nil
}

// ActorFor converts an identity actor into the agenda context's view.
func ActorFor(actor userentities.Actor) agendaentities.Actor {
	return agendaentities.Actor{
		UserID:    actor.UserID,
		Email:     actor.Email,
		Name:      actor.Name,
		Role:      agendaentities.Role(actor.Role),
		SeksiName: actor.SeksiName,
	}
}

func toContact(user userentities.User) agendaentities.Contact {
	return agendaentities.Contact{
		UserID:      user.UserID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        agendaentities.Role(user.Role),
		SeksiName:   user.SeksiName,
		PhoneNumber: user.PhoneNumber,
	}
}

func mapLookupError(err error) error {
	if errors.Is(err, usererrors.ErrUserNotFound) || errors.Is(err, usererrors.ErrInvalidUserID) {
		return agendaerrors.ErrContactNotFound
	}
	return err
}
