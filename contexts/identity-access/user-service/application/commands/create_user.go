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

type CreateUserCommand struct {
	Actor       entities.Actor
	Name        string
	Email       string
	Password    string
	Role        string
	SeksiName   string
	PhoneNumber string
}

type CreateUserUseCase struct {
	Repository  ports.UserRepository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := requireFacilityHead(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	if strings.TrimSpace(cmd.Password) == "" || strings.TrimSpace(cmd.PhoneNumber) == "" {
		return entities.User{}, fmt.Errorf("%w: semua field wajib diisi", domainerrors.ErrInvalidUser)
	}
	profile, err := entities.NewProfile(cmd.Name, cmd.Email, cmd.Role, cmd.SeksiName, cmd.PhoneNumber)
	if err != nil {
		return entities.User{}, err
	}
	if err := entities.ValidatePassword(cmd.Password); err != nil {
		return entities.User{}, err
	}

	user, err := buildUser(ctx, u.Hasher, u.IDGenerator, profile, cmd.Password, u.now())
	if err != nil {
		return entities.User{}, err
	}
	if err := u.Repository.CreateUser(ctx, user); err != nil {
		logger.Error("create user failed",
			"event", "user_create_failed",
			"module", "identity-access/user-service",
			"layer", "application",
			"actor_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user created",
		"event", "user_created",
		"module", "identity-access/user-service",
		"layer", "application",
		"actor_id", cmd.Actor.UserID,
		"user_id", user.UserID,
		"role", string(user.Role),
	)
	return user, nil
}

func (u CreateUserUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func buildUser(
	ctx context.Context,
	hasher ports.PasswordHasher,
	ids ports.IDGenerator,
	profile entities.Profile,
	password string,
	now time.Time,
) (entities.User, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return entities.User{}, err
	}
	userID, err := ids.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}
	user := entities.User{
		UserID:       userID,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	user.Apply(profile, now)
	return user, nil
}
