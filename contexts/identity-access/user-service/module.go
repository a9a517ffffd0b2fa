package userservice

import (
	"log/slog"

	httpadapter "rutanagenda/contexts/identity-access/user-service/adapters/http"
	"rutanagenda/contexts/identity-access/user-service/adapters/memory"
	"rutanagenda/contexts/identity-access/user-service/adapters/security"
	"rutanagenda/contexts/identity-access/user-service/application/commands"
	"rutanagenda/contexts/identity-access/user-service/application/queries"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	"rutanagenda/contexts/identity-access/user-service/ports"
)

// Module is the user-service composition root exposed to runtime wiring.
type Module struct {
	Handler    httpadapter.Handler
	Seed       commands.SeedFacilityHeadUseCase
	Repository ports.UserRepository
	Store      *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository  ports.UserRepository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = security.BcryptHasher{Cost: security.DefaultCost}
	}

	handler := httpadapter.Handler{
		Authenticate: commands.AuthenticateUseCase{
			Repository: deps.Repository,
			Hasher:     hasher,
			Logger:     deps.Logger,
		},
		CreateUser: commands.CreateUserUseCase{
			Repository:  deps.Repository,
			Hasher:      hasher,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		UpdateUser: commands.UpdateUserUseCase{
			Repository: deps.Repository,
			Hasher:     hasher,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		DeleteUser: commands.DeleteUserUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		ListUsers: queries.ListUsersUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		GetUser: queries.GetUserUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		ListSectionHeads: queries.ListSectionHeadsUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{
		Handler: handler,
		Seed: commands.SeedFacilityHeadUseCase{
			Repository:  deps.Repository,
			Hasher:      hasher,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Repository: deps.Repository,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. A low bcrypt cost keeps tests fast.
func NewInMemoryModule(seed []entities.User, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:  store,
		Hasher:      security.BcryptHasher{Cost: 4},
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
