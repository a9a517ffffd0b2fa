package entities

import (
	"fmt"
	"strings"
	"time"

	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
)

// Creator is the denormalized view of the user who proposed the agenda.
type Creator struct {
	UserID    string
	Name      string
	Email     string
	SeksiName string
}

type Agenda struct {
	AgendaID      string
	Title         string
	Description   string
	Location      string
	StartAt       time.Time
	EndAt         time.Time
	AttachmentURL string
	Status        Status
	CreatedBy     Creator
	Response      *Response
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Details are the fields a section head can set on create and edit.
type Details struct {
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
}

func NewDetails(title string, description string, location string, startAt time.Time, endAt time.Time) (Details, error) {
	details := Details{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		StartAt:     startAt.UTC(),
		EndAt:       endAt.UTC(),
	}
	if details.Title == "" || startAt.IsZero() || endAt.IsZero() {
		return Details{}, fmt.Errorf("%w: judul, waktu mulai, dan waktu selesai wajib diisi", domainerrors.ErrInvalidAgenda)
	}
	if details.EndAt.Before(details.StartAt) {
		return Details{}, fmt.Errorf("%w: waktu selesai tidak boleh sebelum waktu mulai", domainerrors.ErrInvalidAgenda)
	}
	return details, nil
}

func (a *Agenda) Apply(details Details, updatedAt time.Time) {
	a.Title = details.Title
	a.Description = details.Description
	a.Location = details.Location
	a.StartAt = details.StartAt
	a.EndAt = details.EndAt
	a.UpdatedAt = updatedAt.UTC()
}

// IsResponded is true once the facility head decided, whichever of the
// two markers is observed first.
func (a Agenda) IsResponded() bool {
	return a.Status == StatusResponded || a.Response != nil
}

// EnsureEditableBy applies the edit/delete rule: only the section head
// who created the agenda, and only before any response.
func (a Agenda) EnsureEditableBy(actor Actor) error {
	if !actor.IsSectionHead() || a.CreatedBy.UserID != actor.UserID {
		return domainerrors.ErrForbidden
	}
	if a.IsResponded() {
		return domainerrors.ErrAgendaAlreadyResponded
	}
	return nil
}
