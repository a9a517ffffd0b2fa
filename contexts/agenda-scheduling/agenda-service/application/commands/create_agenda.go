package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

const DefaultMaxAttachmentBytes = 10 << 20

type CreateAgendaCommand struct {
	Actor       entities.Actor
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	Attachment  *ports.Attachment
}

type CreateAgendaUseCase struct {
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

func (u CreateAgendaUseCase) Execute(ctx context.Context, cmd CreateAgendaCommand) (entities.Agenda, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.Actor.UserID) == "" {
		return entities.Agenda{}, domainerrors.ErrForbidden
	}
	details, err := entities.NewDetails(cmd.Title, cmd.Description, cmd.Location, cmd.StartAt, cmd.EndAt)
	if err != nil {
		return entities.Agenda{}, err
	}
	if cmd.Attachment != nil {
		if err := u.validateAttachment(*cmd.Attachment); err != nil {
			return entities.Agenda{}, err
		}
	}

	agendaID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Agenda{}, err
	}
	now := u.now()

	attachmentURL := ""
	if cmd.Attachment != nil {
		key := fmt.Sprintf("agendas/%s-%d.pdf", cmd.Actor.UserID, now.UnixMilli())
		attachmentURL, err = u.Storage.Save(ctx, key, *cmd.Attachment)
		if err != nil {
			logger.Error("attachment upload failed",
				"event", "agenda_attachment_upload_failed",
				"module", "agenda-scheduling/agenda-service",
				"layer", "application",
				"user_id", cmd.Actor.UserID,
				"error", err.Error(),
			)
			return entities.Agenda{}, fmt.Errorf("upload gagal: %w", err)
		}
	}

	agenda := entities.Agenda{
		AgendaID:      agendaID,
		AttachmentURL: attachmentURL,
		Status:        entities.StatusPending,
		CreatedBy: entities.Creator{
			UserID:    cmd.Actor.UserID,
			Name:      cmd.Actor.Name,
			Email:     cmd.Actor.Email,
			SeksiName: cmd.Actor.SeksiName,
		},
		CreatedAt: now,
	}
	agenda.Apply(details, now)

	if err := u.Repository.CreateAgenda(ctx, agenda); err != nil {
		if attachmentURL != "" {
			if cleanupErr := u.Storage.Delete(ctx, attachmentURL); cleanupErr != nil {
				logger.Warn("orphan attachment cleanup failed",
					"event", "agenda_attachment_cleanup_failed",
					"module", "agenda-scheduling/agenda-service",
					"layer", "application",
					"agenda_id", agendaID,
					"error", cleanupErr.Error(),
				)
			}
		}
		return entities.Agenda{}, err
	}

	logger.Info("agenda created",
		"event", "agenda_created",
		"module", "agenda-scheduling/agenda-service",
		"layer", "application",
		"agenda_id", agendaID,
		"user_id", cmd.Actor.UserID,
		"has_attachment", attachmentURL != "",
	)

	u.notifyFacilityHead(ctx, logger, agenda)
	return agenda, nil
}

func (u CreateAgendaUseCase) notifyFacilityHead(ctx context.Context, logger *slog.Logger, agenda entities.Agenda) {
	if u.Directory == nil {
		return
	}
	head, err := u.Directory.FacilityHead(ctx)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrContactNotFound) {
			logger.Warn("facility head lookup failed",
				"event", "agenda_facility_head_lookup_failed",
				"module", "agenda-scheduling/agenda-service",
				"layer", "application",
				"agenda_id", agenda.AgendaID,
				"error", err.Error(),
			)
		}
		return
	}
	notify(ctx, u.Notifier, logger, "agenda_created", agenda.AgendaID, head.PhoneNumber,
		newAgendaMessage(head.Name, agenda, u.Location))
}

func (u CreateAgendaUseCase) validateAttachment(attachment ports.Attachment) error {
	if attachment.Body == nil {
		return fmt.Errorf("%w: lampiran kosong", domainerrors.ErrInvalidAgenda)
	}
	maxBytes := u.MaxAttachmentBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAttachmentBytes
	}
	if attachment.Size > maxBytes {
		return domainerrors.ErrAttachmentTooLarge
	}
	if !isPDF(attachment) {
		return domainerrors.ErrAttachmentNotPDF
	}
	return nil
}

func isPDF(attachment ports.Attachment) bool {
	mediaType, _, err := mime.ParseMediaType(attachment.ContentType)
	if err == nil && mediaType == "application/pdf" {
		return true
	}
	generic := attachment.ContentType == "" || mediaType == "application/octet-stream"
	return generic && strings.EqualFold(filepath.Ext(attachment.FileName), ".pdf")
}

func (u CreateAgendaUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
