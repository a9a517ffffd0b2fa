package httpserver

import (
	"errors"
	"net/http"

	agendaentities "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	userentities "rutanagenda/contexts/identity-access/user-service/domain/entities"
	usererrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	userhttp "rutanagenda/contexts/identity-access/user-service/transport/http"
	"rutanagenda/internal/app/directory"
	"rutanagenda/internal/platform/session"
)

func writeUserError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, userhttp.ErrorResponse{Code: code, Message: message})
}

func writeUserDomainError(w http.ResponseWriter, err error) {
	status, code, message := userErrorStatus(err)
	writeUserError(w, status, code, message)
}

func userErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, usererrors.ErrInvalidUser),
		errors.Is(err, usererrors.ErrInvalidUserID),
		errors.Is(err, usererrors.ErrInvalidCredentialsInput):
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, usererrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", err.Error()
	case errors.Is(err, usererrors.ErrForbidden):
		return http.StatusForbidden, "forbidden", "akses ditolak"
	case errors.Is(err, usererrors.ErrUserNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, usererrors.ErrEmailTaken):
		return http.StatusConflict, "email_taken", err.Error()
	case errors.Is(err, usererrors.ErrLastFacilityHead),
		errors.Is(err, usererrors.ErrUserHasRelatedData):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, usererrors.ErrCannotDeleteSelf):
		return http.StatusBadRequest, "cannot_delete_self", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

// requireIdentity resolves the caller from the bearer token or session
// cookie and answers 401 when neither is valid.
func (s *Server) requireIdentity(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	identity, _, err := s.sessions.FromRequest(r)
	if err != nil {
		writeUserError(w, http.StatusUnauthorized, "unauthorized", "sesi tidak valid, silakan login kembali")
		return session.Identity{}, false
	}
	return identity, true
}

func userActor(identity session.Identity) userentities.Actor {
	return userentities.Actor{
		UserID:    identity.UserID,
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      userentities.Role(identity.Role),
		SeksiName: identity.SeksiName,
	}
}

func agendaActor(identity session.Identity) agendaentities.Actor {
	return directory.ActorFor(userActor(identity))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req userhttp.LoginRequest
	if !s.decodeJSON(w, r, &req, writeUserError) {
		return
	}
	user, err := s.users.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	token, expiresAt, err := s.sessions.Issue(identityFor(user))
	if err != nil {
		s.logger.Error("session issue failed",
			"event", "http_session_issue_failed",
			"module", "internal/platform/httpserver",
			"layer", "transport",
			"user_id", user.UserID,
			"error", err.Error(),
		)
		writeUserError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	s.sessions.SetCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, userhttp.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userhttp.SessionResponse{
		User: userhttp.UserDTO{
			UserID:    identity.UserID,
			Name:      identity.Name,
			Email:     identity.Email,
			Role:      identity.Role,
			SeksiName: identity.SeksiName,
		},
		ExpiresAt: identity.ExpiresAt,
	})
}

func identityFor(user userhttp.UserDTO) session.Identity {
	return session.Identity{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		SeksiName: user.SeksiName,
	}
}
