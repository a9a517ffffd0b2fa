package httpserver

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	agendaerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	agendahttp "rutanagenda/contexts/agenda-scheduling/agenda-service/transport/http"
)

// multipartMemory caps how much of an upload is buffered before spilling
// to temporary files.
const multipartMemory = 1 << 20

var errUploadTooLarge = errors.New("request body too large")

func writeAgendaError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, agendahttp.ErrorResponse{Code: code, Message: message})
}

func writeAgendaDomainError(w http.ResponseWriter, err error) {
	status, code, message := agendaErrorStatus(err)
	writeAgendaError(w, status, code, message)
}

func agendaErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, agendaerrors.ErrInvalidAgenda),
		errors.Is(err, agendaerrors.ErrInvalidAgendaID),
		errors.Is(err, agendaerrors.ErrInvalidResponse):
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, agendaerrors.ErrInvalidDelegate):
		return http.StatusBadRequest, "invalid_delegate", err.Error()
	case errors.Is(err, agendaerrors.ErrAttachmentNotPDF):
		return http.StatusBadRequest, "invalid_attachment", err.Error()
	case errors.Is(err, agendaerrors.ErrAttachmentTooLarge),
		errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "attachment_too_large", agendaerrors.ErrAttachmentTooLarge.Error()
	case errors.Is(err, agendaerrors.ErrAgendaNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, agendaerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden", "akses ditolak"
	case errors.Is(err, agendaerrors.ErrAgendaAlreadyResponded),
		errors.Is(err, agendaerrors.ErrResponseExists):
		return http.StatusConflict, "conflict", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func requireAgendaID(w http.ResponseWriter, r *http.Request) (string, bool) {
	agendaID := strings.TrimSpace(r.PathValue("agenda_id"))
	if agendaID == "" {
		writeAgendaError(w, http.StatusBadRequest, "invalid_request", "agenda_id is required")
		return "", false
	}
	return agendaID, true
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readAgendaForm reads agenda fields from a multipart or urlencoded form.
// The returned cleanup releases temporary upload files.
func (s *Server) readAgendaForm(w http.ResponseWriter, r *http.Request) (agendahttp.AgendaRequest, *agendahttp.AttachmentUpload, func(), error) {
	cleanup := func() {}
	// Leave room for the other form fields around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartMemory)
	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return agendahttp.AgendaRequest{}, nil, cleanup, formError(err)
		}
		cleanup = func() { _ = r.MultipartForm.RemoveAll() }
	} else if err := r.ParseForm(); err != nil {
		return agendahttp.AgendaRequest{}, nil, cleanup, formError(err)
	}

	req := agendahttp.AgendaRequest{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Location:      r.FormValue("location"),
		StartDateTime: r.FormValue("start_date_time"),
		EndDateTime:   r.FormValue("end_date_time"),
	}
	if r.MultipartForm == nil {
		return req, nil, cleanup, nil
	}
	files := r.MultipartForm.File["attachment"]
	if len(files) == 0 || files[0].Size == 0 {
		return req, nil, cleanup, nil
	}
	upload, err := openUpload(files[0])
	if err != nil {
		return req, nil, cleanup, err
	}
	return req, upload, cleanup, nil
}

func openUpload(header *multipart.FileHeader) (*agendahttp.AttachmentUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &agendahttp.AttachmentUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, nil
}

func closeUpload(upload *agendahttp.AttachmentUpload) {
	if upload == nil {
		return
	}
	if file, ok := upload.Body.(multipart.File); ok {
		_ = file.Close()
	}
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return errUploadTooLarge
	}
	return errors.Join(agendaerrors.ErrInvalidAgenda, err)
}

func (s *Server) handleListAgendas(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	resp, err := s.agendas.Handler.ListAgendasHandler(r.Context(), agendaActor(identity))
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	agendaID, ok := requireAgendaID(w, r)
	if !ok {
		return
	}
	resp, err := s.agendas.Handler.GetAgendaHandler(r.Context(), agendaActor(identity), agendaID)
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var (
		req    agendahttp.AgendaRequest
		upload *agendahttp.AttachmentUpload
	)
	if isMultipart(r) {
		var (
			cleanup func()
			err     error
		)
		req, upload, cleanup, err = s.readAgendaForm(w, r)
		defer cleanup()
		defer closeUpload(upload)
		if err != nil {
			writeAgendaDomainError(w, err)
			return
		}
	} else if !s.decodeJSON(w, r, &req, writeAgendaError) {
		return
	}

	resp, err := s.agendas.Handler.CreateAgendaHandler(r.Context(), agendaActor(identity), req, upload)
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	agendaID, ok := requireAgendaID(w, r)
	if !ok {
		return
	}
	var req agendahttp.AgendaRequest
	if !s.decodeJSON(w, r, &req, writeAgendaError) {
		return
	}
	resp, err := s.agendas.Handler.UpdateAgendaHandler(r.Context(), agendaActor(identity), agendaID, req)
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	agendaID, ok := requireAgendaID(w, r)
	if !ok {
		return
	}
	resp, err := s.agendas.Handler.DeleteAgendaHandler(r.Context(), agendaActor(identity), agendaID)
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRespondAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	agendaID, ok := requireAgendaID(w, r)
	if !ok {
		return
	}
	var req agendahttp.RespondAgendaRequest
	if !s.decodeJSON(w, r, &req, writeAgendaError) {
		return
	}
	resp, err := s.agendas.Handler.RespondAgendaHandler(r.Context(), agendaActor(identity), agendaID, req)
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	resp, err := s.agendas.Handler.StatisticsHandler(r.Context(), agendaActor(identity))
	if err != nil {
		writeAgendaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFile serves stored attachments to signed-in users only.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.sessions.FromRequest(r); err != nil {
		writeAgendaError(w, http.StatusUnauthorized, "unauthorized", "sesi tidak valid, silakan login kembali")
		return
	}
	name := r.PathValue("path")
	if name == "" || strings.HasSuffix(name, "/") || !strings.EqualFold(path.Ext(name), ".pdf") {
		writeAgendaError(w, http.StatusNotFound, "not_found", "file tidak ditemukan")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.StripPrefix("/files", http.FileServer(http.Dir(s.opts.UploadDir))).ServeHTTP(w, r)
}
