package httpserver

import (
	"net/http"
	"net/url"
	"strings"

	agendahttp "rutanagenda/contexts/agenda-scheduling/agenda-service/transport/http"
	userentities "rutanagenda/contexts/identity-access/user-service/domain/entities"
	userhttp "rutanagenda/contexts/identity-access/user-service/transport/http"
	"rutanagenda/internal/platform/session"
	"rutanagenda/internal/platform/web"
)

var flashMessages = map[string]string{
	"agenda_created": "Agenda berhasil dibuat.",
	"agenda_updated": "Agenda berhasil diperbarui.",
	"agenda_deleted": "Agenda berhasil dihapus.",
	"response_saved": "Respons berhasil disimpan.",
	"user_created":   "User berhasil dibuat.",
	"user_updated":   "User berhasil diperbarui.",
	"user_deleted":   "User berhasil dihapus.",
}

var roleOptions = []string{
	string(userentities.RoleFacilityHead),
	string(userentities.RoleSectionHead),
	string(userentities.RoleHead),
}

type loginView struct {
	Email string
}

type dashboardView struct {
	List agendahttp.ListAgendasResponse
}

type agendaFormView struct {
	Heading string
	Action  string
	IsEdit  bool
	Form    agendahttp.AgendaRequest
}

type agendaDetailView struct {
	Agenda       agendahttp.AgendaDTO
	SectionHeads []userhttp.UserDTO
	CanEdit      bool
	CanRespond   bool
}

type usersView struct {
	Users []userhttp.UserDTO
}

type userFormView struct {
	Heading string
	Action  string
	IsEdit  bool
	Roles   []string
	Form    userhttp.CreateUserRequest
}

type statisticsView struct {
	Stats agendahttp.StatisticsResponse
}

type errorView struct {
	Message string
}

func (s *Server) registerPages() {
	s.mux.Handle("GET /{$}", s.page(s.handleHomePage))
	s.mux.Handle("GET /login", s.page(s.handleLoginPage))
	s.mux.Handle("POST /login", s.page(s.handleLoginSubmit))
	s.mux.Handle("POST /logout", s.page(s.handleLogoutSubmit))

	s.mux.Handle("GET /dashboard", s.page(s.handleDashboardPage))
	s.mux.Handle("GET /dashboard/agendas", s.page(s.handleHomePage))
	s.mux.Handle("GET /dashboard/agendas/create", s.page(s.handleAgendaCreatePage))
	s.mux.Handle("POST /dashboard/agendas/create", s.page(s.handleAgendaCreateSubmit))
	s.mux.Handle("GET /dashboard/agendas/{agenda_id}", s.page(s.handleAgendaDetailPage))
	s.mux.Handle("GET /dashboard/agendas/{agenda_id}/edit", s.page(s.handleAgendaEditPage))
	s.mux.Handle("POST /dashboard/agendas/{agenda_id}/edit", s.page(s.handleAgendaEditSubmit))
	s.mux.Handle("POST /dashboard/agendas/{agenda_id}/delete", s.page(s.handleAgendaDeleteSubmit))
	s.mux.Handle("POST /dashboard/agendas/{agenda_id}/response", s.page(s.handleAgendaRespondSubmit))

	s.mux.Handle("GET /dashboard/users", s.page(s.handleUsersPage))
	s.mux.Handle("GET /dashboard/users/create", s.page(s.handleUserCreatePage))
	s.mux.Handle("POST /dashboard/users/create", s.page(s.handleUserCreateSubmit))
	s.mux.Handle("GET /dashboard/users/{user_id}/edit", s.page(s.handleUserEditPage))
	s.mux.Handle("POST /dashboard/users/{user_id}/edit", s.page(s.handleUserEditSubmit))
	s.mux.Handle("POST /dashboard/users/{user_id}/delete", s.page(s.handleUserDeleteSubmit))

	s.mux.Handle("GET /dashboard/statistics", s.page(s.handleStatisticsPage))
}

// pageIdentity sends unauthenticated visitors to the login form.
func (s *Server) pageIdentity(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	identity, _, err := s.sessions.FromRequest(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return session.Identity{}, false
	}
	return identity, true
}

func viewerFor(identity session.Identity) *web.Viewer {
	return &web.Viewer{
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      identity.Role,
		SeksiName: identity.SeksiName,
	}
}

func flashFrom(r *http.Request) string {
	return flashMessages[r.URL.Query().Get("flash")]
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target string, flash string) {
	http.Redirect(w, r, target+"?flash="+url.QueryEscape(flash), http.StatusSeeOther)
}

func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, viewer *web.Viewer, status int, message string) {
	title := "Terjadi Kesalahan"
	switch status {
	case http.StatusForbidden:
		title = "Akses Ditolak"
	case http.StatusNotFound:
		title = "Tidak Ditemukan"
	}
	if status >= http.StatusInternalServerError {
		message = "Terjadi kesalahan sistem. Silakan coba lagi."
	}
	s.pages.Render(w, r, status, "error.html", web.Page{
		Title:  title,
		Viewer: viewer,
		Data:   errorView{Message: message},
	})
}

func (s *Server) logPageError(r *http.Request, event string, err error) {
	s.logger.Error("page request failed",
		"event", event,
		"module", "internal/platform/httpserver",
		"layer", "transport",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"error", err.Error(),
	)
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.sessions.FromRequest(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.pages.Render(w, r, http.StatusOK, "login.html", web.Page{
		Title: "Masuk",
		Data:  loginView{},
	})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderErrorPage(w, r, nil, http.StatusBadRequest, "Formulir tidak valid.")
		return
	}
	req := userhttp.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	user, err := s.users.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		status, _, _ := userErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logPageError(r, "page_login_failed", err)
		}
		s.pages.Render(w, r, status, "login.html", web.Page{
			Title: "Masuk",
			Error: web.FriendlyLoginError(err.Error()),
			Data:  loginView{Email: req.Email},
		})
		return
	}
	token, expiresAt, err := s.sessions.Issue(identityFor(user))
	if err != nil {
		s.logPageError(r, "page_session_issue_failed", err)
		s.renderErrorPage(w, r, nil, http.StatusInternalServerError, "")
		return
	}
	s.sessions.SetCookie(w, token, expiresAt)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	list, err := s.agendas.Handler.ListAgendasHandler(r.Context(), agendaActor(identity))
	if err != nil {
		s.failAgendaPage(w, r, viewer, err)
		return
	}
	s.pages.Render(w, r, http.StatusOK, "dashboard.html", web.Page{
		Title:  "Dashboard",
		Active: "dashboard",
		Viewer: viewer,
		Flash:  flashFrom(r),
		Data:   dashboardView{List: list},
	})
}

func (s *Server) failAgendaPage(w http.ResponseWriter, r *http.Request, viewer *web.Viewer, err error) {
	status, _, message := agendaErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logPageError(r, "page_agenda_failed", err)
	}
	s.renderErrorPage(w, r, viewer, status, message)
}

func (s *Server) failUserPage(w http.ResponseWriter, r *http.Request, viewer *web.Viewer, err error) {
	status, _, message := userErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logPageError(r, "page_user_failed", err)
	}
	s.renderErrorPage(w, r, viewer, status, message)
}

func (s *Server) renderAgendaForm(w http.ResponseWriter, r *http.Request, viewer *web.Viewer, status int, view agendaFormView, message string) {
	active := "create"
	if view.IsEdit {
		active = "dashboard"
	}
	s.pages.Render(w, r, status, "agenda_form.html", web.Page{
		Title:  view.Heading,
		Active: active,
		Viewer: viewer,
		Error:  message,
		Data:   view,
	})
}

func (s *Server) handleAgendaCreatePage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	s.renderAgendaForm(w, r, viewerFor(identity), http.StatusOK, agendaFormView{
		Heading: "Buat Agenda",
		Action:  "/dashboard/agendas/create",
	}, "")
}

func (s *Server) handleAgendaCreateSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	view := agendaFormView{Heading: "Buat Agenda", Action: "/dashboard/agendas/create"}

	req, upload, cleanup, err := s.readAgendaForm(w, r)
	defer cleanup()
	defer closeUpload(upload)
	view.Form = req
	if err != nil {
		status, _, message := agendaErrorStatus(err)
		s.renderAgendaForm(w, r, viewer, status, view, message)
		return
	}

	resp, err := s.agendas.Handler.CreateAgendaHandler(r.Context(), agendaActor(identity), req, upload)
	if err != nil {
		status, _, message := agendaErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logPageError(r, "page_agenda_create_failed", err)
			message = "Gagal membuat agenda. Silakan coba lagi."
		}
		s.renderAgendaForm(w, r, viewer, status, view, message)
		return
	}
	redirectWithFlash(w, r, "/dashboard/agendas/"+resp.Agenda.AgendaID, "agenda_created")
}

func (s *Server) handleAgendaDetailPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	s.renderAgendaDetail(w, r, identity, http.StatusOK, "")
}

func (s *Server) renderAgendaDetail(w http.ResponseWriter, r *http.Request, identity session.Identity, status int, message string) {
	viewer := viewerFor(identity)
	resp, err := s.agendas.Handler.GetAgendaHandler(r.Context(), agendaActor(identity), r.PathValue("agenda_id"))
	if err != nil {
		s.failAgendaPage(w, r, viewer, err)
		return
	}
	owner := resp.Agenda.CreatedBy.UserID == identity.UserID
	view := agendaDetailView{
		Agenda:     resp.Agenda,
		CanEdit:    viewer.IsSectionHead() && owner && resp.Agenda.Status == "pending",
		CanRespond: viewer.IsFacilityHead(),
	}
	if view.CanRespond {
		heads, err := s.users.Handler.ListSectionHeadsHandler(r.Context(), userActor(identity))
		if err != nil {
			s.failUserPage(w, r, viewer, err)
			return
		}
		view.SectionHeads = heads.Items
	}
	s.pages.Render(w, r, status, "agenda_detail.html", web.Page{
		Title:  resp.Agenda.Title,
		Active: "dashboard",
		Viewer: viewer,
		Flash:  flashFrom(r),
		Error:  message,
		Data:   view,
	})
}

func (s *Server) handleAgendaEditPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	agendaID := r.PathValue("agenda_id")
	resp, err := s.agendas.Handler.GetAgendaHandler(r.Context(), agendaActor(identity), agendaID)
	if err != nil {
		s.failAgendaPage(w, r, viewer, err)
		return
	}
	location := s.agendas.Handler.Location
	s.renderAgendaForm(w, r, viewer, http.StatusOK, agendaFormView{
		Heading: "Ubah Agenda",
		Action:  "/dashboard/agendas/" + agendaID + "/edit",
		IsEdit:  true,
		Form: agendahttp.AgendaRequest{
			Title:         resp.Agenda.Title,
			Description:   resp.Agenda.Description,
			Location:      resp.Agenda.Location,
			StartDateTime: web.InputDateTime(resp.Agenda.StartDateTime, location),
			EndDateTime:   web.InputDateTime(resp.Agenda.EndDateTime, location),
		},
	}, "")
}

func (s *Server) handleAgendaEditSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	agendaID := r.PathValue("agenda_id")
	view := agendaFormView{
		Heading: "Ubah Agenda",
		Action:  "/dashboard/agendas/" + agendaID + "/edit",
		IsEdit:  true,
	}

	req, upload, cleanup, err := s.readAgendaForm(w, r)
	defer cleanup()
	// Attachments are only taken on create.
	closeUpload(upload)
	view.Form = req
	if err != nil {
		status, _, message := agendaErrorStatus(err)
		s.renderAgendaForm(w, r, viewer, status, view, message)
		return
	}

	if _, err := s.agendas.Handler.UpdateAgendaHandler(r.Context(), agendaActor(identity), agendaID, req); err != nil {
		status, _, message := agendaErrorStatus(err)
		switch {
		case status == http.StatusForbidden || status == http.StatusNotFound:
			s.renderErrorPage(w, r, viewer, status, message)
			return
		case status >= http.StatusInternalServerError:
			s.logPageError(r, "page_agenda_update_failed", err)
			message = "Gagal memperbarui agenda. Silakan coba lagi."
		}
		s.renderAgendaForm(w, r, viewer, status, view, message)
		return
	}
	redirectWithFlash(w, r, "/dashboard/agendas/"+agendaID, "agenda_updated")
}

func (s *Server) handleAgendaDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	if _, err := s.agendas.Handler.DeleteAgendaHandler(r.Context(), agendaActor(identity), r.PathValue("agenda_id")); err != nil {
		s.failAgendaPage(w, r, viewerFor(identity), err)
		return
	}
	redirectWithFlash(w, r, "/dashboard", "agenda_deleted")
}

func (s *Server) handleAgendaRespondSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderErrorPage(w, r, viewerFor(identity), http.StatusBadRequest, "Formulir tidak valid.")
		return
	}
	agendaID := r.PathValue("agenda_id")
	req := agendahttp.RespondAgendaRequest{
		ResponseType:  r.PostFormValue("response_type"),
		DelegateEmail: strings.TrimSpace(r.PostFormValue("delegate_email")),
		Notes:         r.PostFormValue("notes"),
	}
	if _, err := s.agendas.Handler.RespondAgendaHandler(r.Context(), agendaActor(identity), agendaID, req); err != nil {
		status, _, message := agendaErrorStatus(err)
		if status == http.StatusBadRequest || status == http.StatusConflict {
			s.renderAgendaDetail(w, r, identity, status, message)
			return
		}
		s.failAgendaPage(w, r, viewerFor(identity), err)
		return
	}
	redirectWithFlash(w, r, "/dashboard/agendas/"+agendaID, "response_saved")
}

func (s *Server) handleUsersPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	resp, err := s.users.Handler.ListUsersHandler(r.Context(), userActor(identity))
	if err != nil {
		s.failUserPage(w, r, viewer, err)
		return
	}
	s.pages.Render(w, r, http.StatusOK, "users.html", web.Page{
		Title:  "Manajemen User",
		Active: "users",
		Viewer: viewer,
		Flash:  flashFrom(r),
		Data:   usersView{Users: resp.Items},
	})
}

func (s *Server) renderUserForm(w http.ResponseWriter, r *http.Request, viewer *web.Viewer, status int, view userFormView, message string) {
	view.Roles = roleOptions
	s.pages.Render(w, r, status, "user_form.html", web.Page{
		Title:  view.Heading,
		Active: "users",
		Viewer: viewer,
		Error:  message,
		Data:   view,
	})
}

func readUserForm(r *http.Request) (userhttp.CreateUserRequest, error) {
	if err := r.ParseForm(); err != nil {
		return userhttp.CreateUserRequest{}, err
	}
	return userhttp.CreateUserRequest{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		Role:        r.PostFormValue("role"),
		SeksiName:   strings.TrimSpace(r.PostFormValue("seksi_name")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phone_number")),
	}, nil
}

func (s *Server) userFormFailure(r *http.Request, err error, fallback string) (int, string) {
	status, _, message := userErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logPageError(r, "page_user_save_failed", err)
		message = fallback
	}
	return status, message
}

func (s *Server) handleUserCreatePage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	if !viewer.IsFacilityHead() {
		s.renderErrorPage(w, r, viewer, http.StatusForbidden, "akses ditolak")
		return
	}
	s.renderUserForm(w, r, viewer, http.StatusOK, userFormView{
		Heading: "Tambah User",
		Action:  "/dashboard/users/create",
		Form:    userhttp.CreateUserRequest{Role: string(userentities.RoleSectionHead)},
	}, "")
}

func (s *Server) handleUserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	view := userFormView{Heading: "Tambah User", Action: "/dashboard/users/create"}
	req, err := readUserForm(r)
	if err != nil {
		s.renderErrorPage(w, r, viewer, http.StatusBadRequest, "Formulir tidak valid.")
		return
	}
	view.Form = req
	view.Form.Password = ""
	if _, err := s.users.Handler.CreateUserHandler(r.Context(), userActor(identity), req); err != nil {
		status, message := s.userFormFailure(r, err, "Gagal membuat user. Silakan coba lagi.")
		if status == http.StatusForbidden {
			s.renderErrorPage(w, r, viewer, status, message)
			return
		}
		s.renderUserForm(w, r, viewer, status, view, message)
		return
	}
	redirectWithFlash(w, r, "/dashboard/users", "user_created")
}

func (s *Server) handleUserEditPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	userID := r.PathValue("user_id")
	resp, err := s.users.Handler.GetUserHandler(r.Context(), userActor(identity), userID)
	if err != nil {
		s.failUserPage(w, r, viewer, err)
		return
	}
	s.renderUserForm(w, r, viewer, http.StatusOK, userFormView{
		Heading: "Ubah User",
		Action:  "/dashboard/users/" + userID + "/edit",
		IsEdit:  true,
		Form: userhttp.CreateUserRequest{
			Name:        resp.User.Name,
			Email:       resp.User.Email,
			Role:        resp.User.Role,
			SeksiName:   resp.User.SeksiName,
			PhoneNumber: resp.User.PhoneNumber,
		},
	}, "")
}

func (s *Server) handleUserEditSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	userID := r.PathValue("user_id")
	view := userFormView{
		Heading: "Ubah User",
		Action:  "/dashboard/users/" + userID + "/edit",
		IsEdit:  true,
	}
	form, err := readUserForm(r)
	if err != nil {
		s.renderErrorPage(w, r, viewer, http.StatusBadRequest, "Formulir tidak valid.")
		return
	}
	view.Form = form
	view.Form.Password = ""

	phone := form.PhoneNumber
	req := userhttp.UpdateUserRequest{
		Name:        form.Name,
		Email:       form.Email,
		Role:        form.Role,
		SeksiName:   form.SeksiName,
		PhoneNumber: &phone,
		Password:    form.Password,
	}
	if _, err := s.users.Handler.UpdateUserHandler(r.Context(), userActor(identity), userID, req); err != nil {
		status, message := s.userFormFailure(r, err, "Gagal memperbarui user. Silakan coba lagi.")
		if status == http.StatusForbidden || status == http.StatusNotFound {
			s.renderErrorPage(w, r, viewer, status, message)
			return
		}
		s.renderUserForm(w, r, viewer, status, view, message)
		return
	}
	redirectWithFlash(w, r, "/dashboard/users", "user_updated")
}

func (s *Server) handleUserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	if _, err := s.users.Handler.DeleteUserHandler(r.Context(), userActor(identity), r.PathValue("user_id")); err != nil {
		s.failUserPage(w, r, viewerFor(identity), err)
		return
	}
	redirectWithFlash(w, r, "/dashboard/users", "user_deleted")
}

func (s *Server) handleStatisticsPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.pageIdentity(w, r)
	if !ok {
		return
	}
	viewer := viewerFor(identity)
	stats, err := s.agendas.Handler.StatisticsHandler(r.Context(), agendaActor(identity))
	if err != nil {
		s.failAgendaPage(w, r, viewer, err)
		return
	}
	s.pages.Render(w, r, http.StatusOK, "statistics.html", web.Page{
		Title:  "Statistik",
		Active: "statistics",
		Viewer: viewer,
		Data:   statisticsView{Stats: stats},
	})
}
