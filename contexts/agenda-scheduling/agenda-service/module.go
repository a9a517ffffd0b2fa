package agendaservice

import (
	"log/slog"
	"time"

	httpadapter "rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/http"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/memory"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/application/commands"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/application/queries"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

// Module is the agenda-service composition root exposed to runtime wiring.
type Module struct {
	Handler    httpadapter.Handler
	Repository ports.AgendaRepository
	Store      *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
// Location drives both message formatting and parsing of zone-less
// request times; it defaults to UTC.
type Dependencies struct {
	Repository         ports.AgendaRepository
	Directory          ports.UserDirectory
	Notifier           ports.Notifier
	Storage            ports.AttachmentStorage
	Clock              ports.Clock
	IDGenerator        ports.IDGenerator
	Location           *time.Location
	MaxAttachmentBytes int64
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	location := deps.Location
	if location == nil {
		location = time.UTC
	}

	handler := httpadapter.Handler{
		CreateAgenda: commands.CreateAgendaUseCase{
			Repository:         deps.Repository,
			Directory:          deps.Directory,
			Notifier:           deps.Notifier,
			Storage:            deps.Storage,
			Clock:              deps.Clock,
			IDGenerator:        deps.IDGenerator,
			Location:           location,
			MaxAttachmentBytes: deps.MaxAttachmentBytes,
			Logger:             deps.Logger,
		},
		UpdateAgenda: commands.UpdateAgendaUseCase{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		DeleteAgenda: commands.DeleteAgendaUseCase{
			Repository: deps.Repository,
			Storage:    deps.Storage,
			Logger:     deps.Logger,
		},
		RespondAgenda: commands.RespondAgendaUseCase{
			Repository:  deps.Repository,
			Directory:   deps.Directory,
			Notifier:    deps.Notifier,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Location:    location,
			Logger:      deps.Logger,
		},
		ListAgendas: queries.ListAgendasUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		GetAgenda: queries.GetAgendaUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		Statistics: queries.StatisticsUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		Location: location,
		Logger:   deps.Logger,
	}

	return Module{
		Handler:    handler,
		Repository: deps.Repository,
	}
}

// NewInMemoryModule builds a development/testing module where one memory
// store plays repository, directory, notifier and attachment storage.
func NewInMemoryModule(contacts []entities.Contact, logger *slog.Logger) Module {
	store := memory.NewStore(contacts)
	module := NewModule(Dependencies{
		Repository:  store,
		Directory:   store,
		Notifier:    store,
		Storage:     store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
