package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "rutanagenda/contexts/identity-access/user-service/application"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

type SeedFacilityHeadCommand struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

type SeedFacilityHeadResult struct {
	User    entities.User
	Created bool
}

// SeedFacilityHeadUseCase bootstraps the first kepala_rutan account. It is a
// no-op once any facility head exists.
type SeedFacilityHeadUseCase struct {
	Repository  ports.UserRepository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u SeedFacilityHeadUseCase) Execute(ctx context.Context, cmd SeedFacilityHeadCommand) (SeedFacilityHeadResult, error) {
	logger := application.ResolveLogger(u.Logger)

	count, err := u.Repository.CountUsersByRole(ctx, entities.RoleFacilityHead)
	if err != nil {
		return SeedFacilityHeadResult{}, err
	}
	if count > 0 {
		return SeedFacilityHeadResult{}, nil
	}

	if strings.TrimSpace(cmd.Password) == "" {
		return SeedFacilityHeadResult{}, fmt.Errorf("%w: seed password is empty", domainerrors.ErrInvalidUser)
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = "Kepala Rutan"
	}
	profile, err := entities.NewProfile(name, cmd.Email, string(entities.RoleFacilityHead), "", cmd.PhoneNumber)
	if err != nil {
		return SeedFacilityHeadResult{}, err
	}
	if err := entities.ValidatePassword(cmd.Password); err != nil {
		return SeedFacilityHeadResult{}, err
	}

	user, err := buildUser(ctx, u.Hasher, u.IDGenerator, profile, cmd.Password, u.now())
	if err != nil {
		return SeedFacilityHeadResult{}, err
	}
	if err := u.Repository.CreateUser(ctx, user); err != nil {
		return SeedFacilityHeadResult{}, err
	}

	logger.Info("facility head seeded",
		"event", "user_seeded",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return SeedFacilityHeadResult{User: user, Created: true}, nil
}

func (u SeedFacilityHeadUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
