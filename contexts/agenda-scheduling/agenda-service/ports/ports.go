package ports

import (
	"context"
	"io"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for agendas and responses.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AgendaRepository persists agendas together with their single response.
// Reads return the creator and the response populated.
type AgendaRepository interface {
	// ListAgendas returns every agenda ordered by StartAt descending.
	ListAgendas(ctx context.Context) ([]entities.Agenda, error)
	GetAgenda(ctx context.Context, agendaID string) (entities.Agenda, error)
	CreateAgenda(ctx context.Context, agenda entities.Agenda) error
	// UpdateAgenda and DeleteAgenda only touch pending agendas and report
	// ErrAgendaAlreadyResponded otherwise.
	UpdateAgenda(ctx context.Context, agenda entities.Agenda) error
	DeleteAgenda(ctx context.Context, agendaID string) error
	// CreateResponse inserts the response and marks the agenda responded
	// atomically. A second response for the same agenda yields
	// ErrResponseExists.
	CreateResponse(ctx context.Context, response entities.Response) error
	UpdateResponse(ctx context.Context, response entities.Response) error
	// CountAgendas counts all agendas when status is empty.
	CountAgendas(ctx context.Context, status entities.Status) (int, error)
	// CountResponses counts all responses when decision is empty.
	CountResponses(ctx context.Context, decision entities.Decision) (int, error)
}

// UserDirectory looks up accounts owned by the identity context.
type UserDirectory interface {
	// FacilityHead returns the first facility head with a phone number.
	FacilityHead(ctx context.Context) (entities.Contact, error)
	FindByID(ctx context.Context, userID string) (entities.Contact, error)
	FindByEmail(ctx context.Context, email string) (entities.Contact, error)
}

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Send(ctx context.Context, target string, message string) error
}

type Attachment struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AttachmentStorage stores agenda attachments and returns their public URL.
type AttachmentStorage interface {
	Save(ctx context.Context, key string, attachment Attachment) (string, error)
	Delete(ctx context.Context, url string) error
}
