package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "rutanagenda/contexts/agenda-scheduling/agenda-service/application"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/application/commands"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/application/queries"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/services"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
	httptransport "rutanagenda/contexts/agenda-scheduling/agenda-service/transport/http"
)

type Handler struct {
	CreateAgenda  commands.CreateAgendaUseCase
	UpdateAgenda  commands.UpdateAgendaUseCase
	DeleteAgenda  commands.DeleteAgendaUseCase
	RespondAgenda commands.RespondAgendaUseCase
	ListAgendas   queries.ListAgendasUseCase
	GetAgenda     queries.GetAgendaUseCase
	Statistics    queries.StatisticsUseCase
	// Location interprets zone-less request times.
	Location *time.Location
	Logger   *slog.Logger
}

// ListAgendasHandler godoc
// @Summary List agendas
// @Description Returns every agenda plus the caller's own and delegated subsets.
// @Tags agendas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListAgendasResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/agendas [get]
func (h Handler) ListAgendasHandler(ctx context.Context, actor entities.Actor) (httptransport.ListAgendasResponse, error) {
	partition, err := h.ListAgendas.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListAgendasResponse{}, err
	}
	return MapPartition(partition), nil
}

// GetAgendaHandler godoc
// @Summary Get agenda
// @Tags agendas
// @Produce json
// @Security BearerAuth
// @Param agenda_id path string true "Agenda ID"
// @Success 200 {object} httptransport.AgendaResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/agendas/{agenda_id} [get]
func (h Handler) GetAgendaHandler(ctx context.Context, actor entities.Actor, agendaID string) (httptransport.AgendaResponse, error) {
	agenda, err := h.GetAgenda.Execute(ctx, actor, agendaID)
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	return httptransport.AgendaResponse{Agenda: MapAgenda(agenda)}, nil
}

// CreateAgendaHandler godoc
// @Summary Create agenda
// @Description Accepts JSON or multipart/form-data; the multipart form may carry a PDF in field "attachment".
// @Tags agendas
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.AgendaRequest true "Agenda"
// @Success 201 {object} httptransport.AgendaResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 413 {object} httptransport.ErrorResponse
// @Router /api/agendas [post]
func (h Handler) CreateAgendaHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.AgendaRequest,
	upload *httptransport.AttachmentUpload,
) (httptransport.AgendaResponse, error) {
	startAt, endAt, err := h.parseRequest(req, "create")
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	var attachment *ports.Attachment
	if upload != nil {
		attachment = &ports.Attachment{
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			Size:        upload.Size,
			Body:        upload.Body,
		}
	}
	agenda, err := h.CreateAgenda.Execute(ctx, commands.CreateAgendaCommand{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     startAt,
		EndAt:       endAt,
		Attachment:  attachment,
	})
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	return httptransport.AgendaResponse{Agenda: MapAgenda(agenda)}, nil
}

// UpdateAgendaHandler godoc
// @Summary Update agenda
// @Description Only the creating section head may edit, and only while pending.
// @Tags agendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param agenda_id path string true "Agenda ID"
// @Param request body httptransport.AgendaRequest true "Agenda"
// @Success 200 {object} httptransport.AgendaResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/agendas/{agenda_id} [put]
func (h Handler) UpdateAgendaHandler(
	ctx context.Context,
	actor entities.Actor,
	agendaID string,
	req httptransport.AgendaRequest,
) (httptransport.AgendaResponse, error) {
	startAt, endAt, err := h.parseRequest(req, "update")
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	agenda, err := h.UpdateAgenda.Execute(ctx, commands.UpdateAgendaCommand{
		Actor:       actor,
		AgendaID:    agendaID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     startAt,
		EndAt:       endAt,
	})
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	return httptransport.AgendaResponse{Agenda: MapAgenda(agenda)}, nil
}

// DeleteAgendaHandler godoc
// @Summary Delete agenda
// @Tags agendas
// @Produce json
// @Security BearerAuth
// @Param agenda_id path string true "Agenda ID"
// @Success 200 {object} httptransport.DeleteAgendaResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/agendas/{agenda_id} [delete]
func (h Handler) DeleteAgendaHandler(ctx context.Context, actor entities.Actor, agendaID string) (httptransport.DeleteAgendaResponse, error) {
	if err := h.DeleteAgenda.Execute(ctx, commands.DeleteAgendaCommand{Actor: actor, AgendaID: agendaID}); err != nil {
		return httptransport.DeleteAgendaResponse{}, err
	}
	return httptransport.DeleteAgendaResponse{Success: true, Message: "Agenda berhasil dihapus"}, nil
}

// RespondAgendaHandler godoc
// @Summary Respond to agenda
// @Description Facility head decision. diwakilkan requires delegate_email of a section head.
// @Tags agendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param agenda_id path string true "Agenda ID"
// @Param request body httptransport.RespondAgendaRequest true "Decision"
// @Success 201 {object} httptransport.RespondAgendaResponse
// @Success 200 {object} httptransport.RespondAgendaResponse "Existing response changed"
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/agendas/{agenda_id}/response [post]
func (h Handler) RespondAgendaHandler(
	ctx context.Context,
	actor entities.Actor,
	agendaID string,
	req httptransport.RespondAgendaRequest,
) (httptransport.RespondAgendaResponse, error) {
	if err := validateRequest(req, domainerrors.ErrInvalidResponse); err != nil {
		return httptransport.RespondAgendaResponse{}, err
	}
	result, err := h.RespondAgenda.Execute(ctx, commands.RespondAgendaCommand{
		Actor:         actor,
		AgendaID:      agendaID,
		ResponseType:  req.ResponseType,
		DelegateEmail: req.DelegateEmail,
		DelegateName:  req.DelegateName,
		Notes:         req.Notes,
	})
	if err != nil {
		return httptransport.RespondAgendaResponse{}, err
	}
	return httptransport.RespondAgendaResponse{
		Success:  true,
		Created:  result.Created,
		Response: MapResponse(result.Response),
		Agenda:   MapAgenda(result.Agenda),
	}, nil
}

// StatisticsHandler godoc
// @Summary Agenda statistics
// @Tags agendas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.StatisticsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/statistics [get]
func (h Handler) StatisticsHandler(ctx context.Context, actor entities.Actor) (httptransport.StatisticsResponse, error) {
	stats, err := h.Statistics.Execute(ctx, actor)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	return httptransport.StatisticsResponse{
		Agendas: httptransport.AgendaCountsDTO{
			Total:     stats.Agendas.Total,
			Pending:   stats.Agendas.Pending,
			Responded: stats.Agendas.Responded,
		},
		Responses: httptransport.ResponseCountsDTO{
			Total:      stats.Responses.Total,
			Hadir:      stats.Responses.Attend,
			TidakHadir: stats.Responses.Decline,
			Diwakilkan: stats.Responses.Delegate,
		},
	}, nil
}

func (h Handler) parseRequest(req httptransport.AgendaRequest, operation string) (time.Time, time.Time, error) {
	logger := application.ResolveLogger(h.Logger)
	err := validateRequest(req, domainerrors.ErrInvalidAgenda)
	var startAt, endAt time.Time
	if err == nil {
		startAt, err = ParseDateTime(req.StartDateTime, h.Location)
	}
	if err == nil {
		endAt, err = ParseDateTime(req.EndDateTime, h.Location)
	}
	if err != nil {
		logger.Info("agenda request rejected",
			"event", "http_agenda_request_invalid",
			"module", "agenda-scheduling/agenda-service",
			"layer", "transport",
			"operation", operation,
			"error", err.Error(),
		)
		return time.Time{}, time.Time{}, err
	}
	return startAt, endAt, nil
}

func MapPartition(partition services.Partition) httptransport.ListAgendasResponse {
	return httptransport.ListAgendasResponse{
		All:       MapAgendas(partition.All),
		Mine:      MapAgendas(partition.Mine),
		Delegated: MapAgendas(partition.Delegated),
		Personal:  MapAgendas(partition.Personal),
		Summary: httptransport.SummaryDTO{
			Total:     partition.Summary.Total,
			Pending:   partition.Summary.Pending,
			Responded: partition.Summary.Responded,
			Delegated: partition.Summary.Delegated,
		},
	}
}

func MapAgendas(items []entities.Agenda) []httptransport.AgendaDTO {
	out := make([]httptransport.AgendaDTO, 0, len(items))
	for _, item := range items {
		out = append(out, MapAgenda(item))
	}
	return out
}

func MapAgenda(agenda entities.Agenda) httptransport.AgendaDTO {
	dto := httptransport.AgendaDTO{
		AgendaID:      agenda.AgendaID,
		Title:         agenda.Title,
		Description:   agenda.Description,
		Location:      agenda.Location,
		StartDateTime: agenda.StartAt,
		EndDateTime:   agenda.EndAt,
		AttachmentURL: agenda.AttachmentURL,
		Status:        string(agenda.Status),
		CreatedBy: httptransport.CreatorDTO{
			UserID:    agenda.CreatedBy.UserID,
			Name:      agenda.CreatedBy.Name,
			Email:     agenda.CreatedBy.Email,
			SeksiName: agenda.CreatedBy.SeksiName,
		},
		CreatedAt: agenda.CreatedAt,
		UpdatedAt: agenda.UpdatedAt,
	}
	if agenda.Response != nil {
		response := MapResponse(*agenda.Response)
		dto.Response = &response
	}
	return dto
}

func MapResponse(response entities.Response) httptransport.ResponseDTO {
	return httptransport.ResponseDTO{
		ResponseID:    response.ResponseID,
		AgendaID:      response.AgendaID,
		ResponderID:   response.ResponderID,
		ResponderName: response.ResponderName,
		ResponseType:  string(response.Type),
		DelegateEmail: response.DelegateEmail,
		DelegateName:  response.DelegateName,
		Notes:         response.Notes,
		RespondedAt:   response.RespondedAt,
	}
}
