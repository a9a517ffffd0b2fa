package http

import (
	"io"
	"time"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatorDTO struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	SeksiName string `json:"seksi_name,omitempty"`
}

type ResponseDTO struct {
	ResponseID    string    `json:"response_id"`
	AgendaID      string    `json:"agenda_id"`
	ResponderID   string    `json:"responder_id"`
	ResponderName string    `json:"responder_name,omitempty"`
	ResponseType  string    `json:"response_type"`
	DelegateEmail *string   `json:"delegate_email"`
	DelegateName  *string   `json:"delegate_name"`
	Notes         *string   `json:"notes"`
	RespondedAt   time.Time `json:"responded_at"`
}

type AgendaDTO struct {
	AgendaID      string       `json:"agenda_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	StartDateTime time.Time    `json:"start_date_time"`
	EndDateTime   time.Time    `json:"end_date_time"`
	AttachmentURL string       `json:"attachment_url,omitempty"`
	Status        string       `json:"status"`
	CreatedBy     CreatorDTO   `json:"created_by"`
	Response      *ResponseDTO `json:"response"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type SummaryDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Responded int `json:"responded"`
	Delegated int `json:"delegated"`
}

type ListAgendasResponse struct {
	All       []AgendaDTO `json:"all"`
	Mine      []AgendaDTO `json:"my_agendas"`
	Delegated []AgendaDTO `json:"delegated_to_me"`
	Personal  []AgendaDTO `json:"for_me"`
	Summary   SummaryDTO  `json:"summary"`
}

type AgendaResponse struct {
	Agenda AgendaDTO `json:"agenda"`
}

// AgendaRequest is shared by create and update. Times accept RFC 3339 or
// the browser datetime-local form (interpreted in the facility timezone).
type AgendaRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=5000"`
	Location      string `json:"location" validate:"max=200"`
	StartDateTime string `json:"start_date_time" validate:"required"`
	EndDateTime   string `json:"end_date_time" validate:"required"`
}

// AttachmentUpload is the optional PDF sent with a multipart create.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type RespondAgendaRequest struct {
	ResponseType  string `json:"response_type" validate:"required"`
	DelegateEmail string `json:"delegate_email" validate:"omitempty,email"`
	DelegateName  string `json:"delegate_name" validate:"max=200"`
	Notes         string `json:"notes" validate:"max=2000"`
}

type RespondAgendaResponse struct {
	Success  bool        `json:"success"`
	Created  bool        `json:"created"`
	Response ResponseDTO `json:"response"`
	Agenda   AgendaDTO   `json:"agenda"`
}

type DeleteAgendaResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AgendaCountsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Responded int `json:"responded"`
}

type ResponseCountsDTO struct {
	Total      int `json:"total"`
	Hadir      int `json:"hadir"`
	TidakHadir int `json:"tidak_hadir"`
	Diwakilkan int `json:"diwakilkan"`
}

type StatisticsResponse struct {
	Agendas   AgendaCountsDTO   `json:"agendas"`
	Responses ResponseCountsDTO `json:"responses"`
}
