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

type UpdateUserCommand struct {
	Actor     entities.Actor
	UserID    string
	Name      string
	Email     string
	Role      string
	SeksiName string
	// PhoneNumber nil keeps the stored number; an empty one is rejected.
	PhoneNumber *string
	// Password empty keeps the stored hash.
	Password string
}

type UpdateUserUseCase struct {
	Repository ports.UserRepository
	Hasher     ports.PasswordHasher
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := requireFacilityHead(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return entities.User{}, domainerrors.ErrInvalidUserID
	}

	current, err := u.Repository.GetUser(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}

	phone := current.PhoneNumber
	if cmd.PhoneNumber != nil {
		phone = strings.TrimSpace(*cmd.PhoneNumber)
		if phone == "" {
			return entities.User{}, fmt.Errorf("%w: nomor WhatsApp harus diisi", domainerrors.ErrInvalidUser)
		}
	}
	profile, err := entities.NewProfile(cmd.Name, cmd.Email, cmd.Role, cmd.SeksiName, phone)
	if err != nil {
		return entities.User{}, err
	}

	if current.Role == entities.RoleFacilityHead && profile.Role != entities.RoleFacilityHead {
		count, err := u.Repository.CountUsersByRole(ctx, entities.RoleFacilityHead)
		if err != nil {
			return entities.User{}, err
		}
		if count <= 1 {
			return entities.User{}, domainerrors.ErrLastFacilityHead
		}
	}

	updated := current
	updated.Apply(profile, u.now())
	if cmd.Password != "" {
		if err := entities.ValidatePassword(cmd.Password); err != nil {
			return entities.User{}, err
		}
		hash, err := u.Hasher.Hash(cmd.Password)
		if err != nil {
			return entities.User{}, err
		}
		updated.PasswordHash = hash
	}

	if err := u.Repository.UpdateUser(ctx, updated); err != nil {
		logger.Error("update user failed",
			"event", "user_update_failed",
			"module", "identity-access/user-service",
			"layer", "application",
			"actor_id", cmd.Actor.UserID,
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user updated",
		"event", "user_updated",
		"module", "identity-access/user-service",
		"layer", "application",
		"actor_id", cmd.Actor.UserID,
		"user_id", userID,
		"password_changed", cmd.Password != "",
	)
	return updated, nil
}

func (u UpdateUserUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
