package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type RespondAgendaCommand struct {
	Actor         entities.Actor
	AgendaID      string
	ResponseType  string
	DelegateEmail string
	DelegateName  string
	Notes         string
}

type RespondAgendaResult struct {
	Agenda   entities.Agenda
	Response entities.Response
	// Created is false when an existing response was changed.
	Created bool
}

type RespondAgendaUseCase struct {
	Repository  ports.AgendaRepository
	Directory   ports.UserDirectory
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Location    *time.Location
	Logger      *slog.Logger
}

func (u RespondAgendaUseCase) Execute(ctx context.Context, cmd RespondAgendaCommand) (RespondAgendaResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if !cmd.Actor.IsFacilityHead() {
		return RespondAgendaResult{}, domainerrors.ErrForbidden
	}
	agendaID := strings.TrimSpace(cmd.AgendaID)
	if agendaID == "" {
		return RespondAgendaResult{}, domainerrors.ErrInvalidAgendaID
	}
	decision, err := entities.ParseDecision(cmd.ResponseType)
	if err != nil {
		return RespondAgendaResult{}, err
	}

	agenda, err := u.Repository.GetAgenda(ctx, agendaID)
	if err != nil {
		return RespondAgendaResult{}, err
	}

	var delegate *entities.Contact
	if decision == entities.DecisionDelegate {
		contact, err := u.resolveDelegate(ctx, cmd.DelegateEmail)
		if err != nil {
			return RespondAgendaResult{}, err
		}
		delegate = &contact
	}

	now := u.now()
	created := false
	var response entities.Response
	if agenda.Response == nil {
		response, err = u.createResponse(ctx, cmd, agenda, decision, delegate, now)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, domainerrors.ErrResponseExists):
			// Lost a race with a concurrent first response; fall back to update.
			agenda, err = u.Repository.GetAgenda(ctx, agendaID)
			if err != nil {
				return RespondAgendaResult{}, err
			}
		default:
			return RespondAgendaResult{}, err
		}
	}
	if !created {
		if agenda.Response == nil {
			return RespondAgendaResult{}, fmt.Errorf("agenda %s has no response after conflict", agendaID)
		}
		response, err = u.updateResponse(ctx, cmd, *agenda.Response, decision, delegate, now)
		if err != nil {
			return RespondAgendaResult{}, err
		}
	}

	agenda.Response = &response
	agenda.Status = entities.StatusResponded
	agenda.UpdatedAt = now

	logger.Info("agenda responded",
		"event", "agenda_responded",
		"module", "agenda-scheduling/agenda-service",
		"layer", "application",
		"agenda_id", agendaID,
		"user_id", cmd.Actor.UserID,
		"response_type", string(decision),
		"created", created,
	)

	u.notifyDecision(ctx, logger, agenda, response, delegate)
	return RespondAgendaResult{Agenda: agenda, Response: response, Created: created}, nil
}

func (u RespondAgendaUseCase) resolveDelegate(ctx context.Context, email string) (entities.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return entities.Contact{}, fmt.Errorf("%w: email delegasi wajib diisi", domainerrors.ErrInvalidDelegate)
	}
	contact, err := u.Directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrContactNotFound) {
			return entities.Contact{}, domainerrors.ErrInvalidDelegate
		}
		return entities.Contact{}, err
	}
	if contact.Role != entities.RoleSectionHead {
		return entities.Contact{}, domainerrors.ErrInvalidDelegate
	}
	return contact, nil
}

func (u RespondAgendaUseCase) createResponse(
	ctx context.Context,
	cmd RespondAgendaCommand,
	agenda entities.Agenda,
	decision entities.Decision,
	delegate *entities.Contact,
	now time.Time,
) (entities.Response, error) {
	responseID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Response{}, err
	}
	response := entities.Response{
		ResponseID:    responseID,
		AgendaID:      agenda.AgendaID,
		ResponderID:   cmd.Actor.UserID,
		ResponderName: cmd.Actor.Name,
	}
	if err := response.Decide(decision, delegate, cmd.DelegateName, cmd.Notes, now); err != nil {
		return entities.Response{}, err
	}
	if err := u.Repository.CreateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}
	return response, nil
}

func (u RespondAgendaUseCase) updateResponse(
	ctx context.Context,
	cmd RespondAgendaCommand,
	response entities.Response,
	decision entities.Decision,
	delegate *entities.Contact,
	now time.Time,
) (entities.Response, error) {
	response.ResponderID = cmd.Actor.UserID
	response.ResponderName = cmd.Actor.Name
	if err := response.Decide(decision, delegate, cmd.DelegateName, cmd.Notes, now); err != nil {
		return entities.Response{}, err
	}
	if err := u.Repository.UpdateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}
	return response, nil
}

func (u RespondAgendaUseCase) notifyDecision(
	ctx context.Context,
	logger *slog.Logger,
	agenda entities.Agenda,
	response entities.Response,
	delegate *entities.Contact,
) {
	if u.Directory != nil {
		creator, err := u.Directory.FindByID(ctx, agenda.CreatedBy.UserID)
		if err == nil {
			notify(ctx, u.Notifier, logger, "agenda_decision", agenda.AgendaID, creator.PhoneNumber,
				decisionMessage(creator.Name, agenda, response, u.Location))
		} else {
			logger.Warn("agenda creator lookup failed",
				"event", "agenda_creator_lookup_failed",
				"module", "agenda-scheduling/agenda-service",
				"layer", "application",
				"agenda_id", agenda.AgendaID,
				"error", err.Error(),
			)
		}
	}
	if delegate != nil && delegate.UserID != agenda.CreatedBy.UserID {
		notify(ctx, u.Notifier, logger, "agenda_delegation", agenda.AgendaID, delegate.PhoneNumber,
			delegationMessage(delegate.Name, agenda, response, u.Location))
	}
}

func (u RespondAgendaUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
