package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "rutanagenda/contexts/identity-access/user-service/application"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

type AuthenticateCommand struct {
	Email    string
	Password string
}

type AuthenticateUseCase struct {
	Repository ports.UserRepository
	Hasher     ports.PasswordHasher
	Logger     *slog.Logger
}

// Execute verifies credentials. Unknown accounts and wrong passwords share
// one error so callers cannot tell which emails exist.
func (u AuthenticateUseCase) Execute(ctx context.Context, cmd AuthenticateCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	email := entities.NormalizeEmail(cmd.Email)
	if email == "" || strings.TrimSpace(cmd.Password) == "" {
		return entities.User{}, domainerrors.ErrInvalidCredentialsInput
	}

	user, err := u.Repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			logger.Info("login rejected for unknown email",
				"event", "user_login_unknown_email",
				"module", "identity-access/user-service",
				"layer", "application",
			)
			return entities.User{}, domainerrors.ErrInvalidCredentials
		}
		return entities.User{}, err
	}
	if err := u.Hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		logger.Info("login rejected for wrong password",
			"event", "user_login_wrong_password",
			"module", "identity-access/user-service",
			"layer", "application",
			"user_id", user.UserID,
		)
		return entities.User{}, domainerrors.ErrInvalidCredentials
	}

	logger.Info("user authenticated",
		"event", "user_login_succeeded",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
		"role", string(user.Role),
	)
	return user, nil
}
